package resp

import (
	"fmt"
	"strings"
)

// ProtoVersion is a protocol version negotiated with HELLO.
type ProtoVersion int

const (
	// ProtoUnspecified means HELLO carried no version token
	ProtoUnspecified ProtoVersion = 0
	// ProtoV2 selects RESP2
	ProtoV2 ProtoVersion = 2
	// ProtoV3 selects RESP3
	ProtoV3 ProtoVersion = 3
)

// Command is a client request translated from a RESP array. The set of
// commands is closed: every Command is either a SystemCommand or an
// ActionCommand.
type Command interface {
	// CommandName returns the canonical uppercase command name
	CommandName() string
}

// SystemCommand is a connection-level command (PING, HELLO, ECHO).
type SystemCommand interface {
	Command
	systemCommand()
}

// ActionCommand is a data command (GET, SET, DEL).
type ActionCommand interface {
	Command
	actionCommand()
}

// PingCommand is PING with an optional message.
type PingCommand struct {
	Message    string
	HasMessage bool
}

// EchoCommand is ECHO with its message.
type EchoCommand struct {
	Message string
}

// Credentials is the AUTH username/password pair of a HELLO command.
type Credentials struct {
	Username string
	Password string
}

// HelloCommand is HELLO with its optional version token and clauses.
type HelloCommand struct {
	Version    ProtoVersion
	Auth       *Credentials
	ClientName string
}

// GetCommand is GET key.
type GetCommand struct {
	Key string
}

// SetCommand is SET key value. Value is an owned copy and remains valid
// after the read buffer is reused.
type SetCommand struct {
	Key   string
	Value Value
}

// DelCommand is DEL key.
type DelCommand struct {
	Key string
}

func (PingCommand) CommandName() string  { return "PING" }
func (EchoCommand) CommandName() string  { return "ECHO" }
func (HelloCommand) CommandName() string { return "HELLO" }
func (GetCommand) CommandName() string   { return "GET" }
func (SetCommand) CommandName() string   { return "SET" }
func (DelCommand) CommandName() string   { return "DEL" }

func (PingCommand) systemCommand()  {}
func (EchoCommand) systemCommand()  {}
func (HelloCommand) systemCommand() {}

func (GetCommand) actionCommand() {}
func (SetCommand) actionCommand() {}
func (DelCommand) actionCommand() {}

// ParseCommand translates a decoded value into a Command. Only a
// non-null array of bulk strings or simple strings is a valid command
// shape; the first element selects the command, case-insensitively.
func ParseCommand(v Value) (Command, error) {
	if v.Type != TypeArray || v.IsNull || len(v.Array) == 0 {
		return nil, &CommandError{Err: fmt.Errorf("%w: expected non-empty array", ErrInvalidCommand)}
	}

	args := make([]string, len(v.Array))
	for i, elem := range v.Array {
		switch elem.Type {
		case TypeBulkString:
			if elem.IsNull {
				return nil, &CommandError{Err: fmt.Errorf("%w: null argument at index %d", ErrInvalidCommand, i)}
			}
			args[i] = string(elem.Data)
		case TypeSimpleString:
			args[i] = string(elem.Data)
		default:
			return nil, &CommandError{Err: fmt.Errorf("%w: argument at index %d is not a string", ErrInvalidCommand, i)}
		}
	}

	name := strings.ToUpper(args[0])
	rest := args[1:]

	switch name {
	case "PING":
		switch len(rest) {
		case 0:
			return PingCommand{}, nil
		case 1:
			return PingCommand{Message: rest[0], HasMessage: true}, nil
		default:
			return nil, arityError(name)
		}

	case "ECHO":
		if len(rest) != 1 {
			return nil, arityError(name)
		}
		return EchoCommand{Message: rest[0]}, nil

	case "HELLO":
		return parseHello(rest)

	case "GET":
		if len(rest) != 1 {
			return nil, arityError(name)
		}
		return GetCommand{Key: rest[0]}, nil

	case "SET":
		if len(rest) != 2 {
			return nil, arityError(name)
		}
		return SetCommand{Key: rest[0], Value: v.Array[2].Clone()}, nil

	case "DEL":
		if len(rest) != 1 {
			return nil, arityError(name)
		}
		return DelCommand{Key: rest[0]}, nil

	default:
		return nil, &CommandError{Name: name, Err: ErrUnknownCommand}
	}
}

// parseHello parses HELLO [protover] [AUTH user pass] [SETNAME name]
// with the clauses accepted in any order.
func parseHello(args []string) (Command, error) {
	cmd := HelloCommand{}
	i := 0

	if i < len(args) && !isHelloClause(args[i]) {
		switch args[i] {
		case "2":
			cmd.Version = ProtoV2
		case "3":
			cmd.Version = ProtoV3
		default:
			return nil, &CommandError{
				Name: "HELLO",
				Err:  fmt.Errorf("%w: unsupported protocol version %q", ErrInvalidCommand, args[i]),
			}
		}
		i++
	}

	for i < len(args) {
		switch strings.ToUpper(args[i]) {
		case "AUTH":
			if i+2 >= len(args) {
				return nil, arityError("HELLO")
			}
			cmd.Auth = &Credentials{Username: args[i+1], Password: args[i+2]}
			i += 3
		case "SETNAME":
			if i+1 >= len(args) {
				return nil, arityError("HELLO")
			}
			cmd.ClientName = args[i+1]
			i += 2
		default:
			return nil, &CommandError{
				Name: "HELLO",
				Err:  fmt.Errorf("%w: unexpected token %q", ErrInvalidCommand, args[i]),
			}
		}
	}

	return cmd, nil
}

func isHelloClause(tok string) bool {
	up := strings.ToUpper(tok)
	return up == "AUTH" || up == "SETNAME"
}

func arityError(name string) error {
	return &CommandError{Name: name, Err: ErrWrongArity}
}
