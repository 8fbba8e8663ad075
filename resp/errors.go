package resp

import (
	"errors"
	"fmt"
)

// Decode outcomes. ErrIncomplete is not a protocol failure: the caller
// should feed more bytes and retry from the same cursor position.
var (
	// ErrIncomplete indicates the buffer does not yet hold a complete value
	ErrIncomplete = errors.New("incomplete RESP value: need more data")

	// ErrMalformed is the base error for structurally invalid input
	ErrMalformed = errors.New("malformed RESP data")
)

// Malformed input kinds, all wrapping ErrMalformed.
var (
	ErrUnknownType   = fmt.Errorf("%w: unknown type prefix", ErrMalformed)
	ErrBadTerminator = fmt.Errorf("%w: bad CRLF terminator", ErrMalformed)
	ErrBadLength     = fmt.Errorf("%w: invalid length header", ErrMalformed)
	ErrTooLarge      = fmt.Errorf("%w: declared length too large", ErrMalformed)
	ErrMaxDepth      = fmt.Errorf("%w: nesting depth limit exceeded", ErrMalformed)
	ErrDuplicateKey  = fmt.Errorf("%w: duplicate map key or set member", ErrMalformed)
)

// Command translation failures, all wrapping ErrInvalidCommand.
var (
	// ErrInvalidCommand indicates a value that is not a well-formed command array
	ErrInvalidCommand = errors.New("invalid command")

	// ErrUnknownCommand indicates an unrecognized command name
	ErrUnknownCommand = fmt.Errorf("%w: unknown command name", ErrInvalidCommand)

	// ErrWrongArity indicates a recognized command with the wrong number of arguments
	ErrWrongArity = fmt.Errorf("%w: wrong number of arguments", ErrInvalidCommand)
)

// CommandError reports a command translation failure with the command
// name that triggered it.
type CommandError struct {
	Name string
	Err  error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v for %q", e.Err, e.Name)
}

// Unwrap returns the wrapped error kind
func (e *CommandError) Unwrap() error {
	return e.Err
}
