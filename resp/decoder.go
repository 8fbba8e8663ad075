package resp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

const (
	// CRLF is the RESP line terminator
	CRLF = "\r\n"

	// defaultMaxBulkLen is the default maximum size for bulk payloads (1GB)
	defaultMaxBulkLen = 1024 * 1024 * 1024

	// defaultMaxAggregateLen is the default maximum element count for aggregates
	defaultMaxAggregateLen = 1024 * 1024

	// defaultMaxDepth is the default maximum nesting depth for aggregates
	defaultMaxDepth = 64
)

var crlfBytes = []byte(CRLF)

// Decoder is an incremental RESP parser over a byte buffer. One Decode
// call consumes exactly one value; when the buffer does not yet hold a
// complete value, Decode returns ErrIncomplete and leaves the cursor
// unchanged so the caller can Feed more bytes and retry.
//
// Decoded values alias the buffer. Callers that keep a value beyond the
// lifetime of the buffer must Clone it.
type Decoder struct {
	buf []byte
	pos int

	maxDepth        int
	maxBulkLen      int64
	maxAggregateLen int64
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxDepth sets the maximum nesting depth for aggregate values.
// Input nested deeper than this is rejected as malformed.
func WithMaxDepth(depth int) DecoderOption {
	return func(d *Decoder) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

// WithMaxBulkLen sets the maximum declared length for bulk strings,
// bulk errors and verbatim strings.
func WithMaxBulkLen(n int64) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxBulkLen = n
		}
	}
}

// WithMaxAggregateLen sets the maximum declared element count for
// arrays, maps, sets and pushes.
func WithMaxAggregateLen(n int64) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxAggregateLen = n
		}
	}
}

// NewDecoder creates a Decoder reading from buf. The buffer may be nil;
// input can be appended later with Feed.
func NewDecoder(buf []byte, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		buf:             buf,
		maxDepth:        defaultMaxDepth,
		maxBulkLen:      defaultMaxBulkLen,
		maxAggregateLen: defaultMaxAggregateLen,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed appends more input to the buffer.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Reset replaces the buffer and rewinds the cursor.
func (d *Decoder) Reset(buf []byte) {
	d.buf = buf
	d.pos = 0
}

// Pos returns the cursor position: the number of buffer bytes consumed
// by successful decodes so far.
func (d *Decoder) Pos() int {
	return d.pos
}

// Buffered returns the number of unconsumed bytes in the buffer.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.pos
}

// Rest returns the unconsumed portion of the buffer.
func (d *Decoder) Rest() []byte {
	return d.buf[d.pos:]
}

// Decode parses the next value from the buffer. The cursor advances
// only when a complete value was consumed; on any error it stays where
// it was before the call.
func (d *Decoder) Decode() (Value, error) {
	v, next, err := d.decodeValue(d.pos, 0)
	if err != nil {
		return Value{}, err
	}
	d.pos = next
	return v, nil
}

// decodeValue parses one value starting at pos and returns it together
// with the position of the first byte after it. It never mutates the
// cursor; Decode commits the returned position on success.
func (d *Decoder) decodeValue(pos, depth int) (Value, int, error) {
	if depth > d.maxDepth {
		return Value{}, 0, fmt.Errorf("%w (%d)", ErrMaxDepth, d.maxDepth)
	}
	if pos >= len(d.buf) {
		return Value{}, 0, ErrIncomplete
	}

	prefix := ValueType(d.buf[pos])
	pos++

	switch prefix {
	case TypeSimpleString, TypeSimpleError:
		line, next, err := d.readLine(pos)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Type: prefix, Data: line}, next, nil

	case TypeInteger:
		line, next, err := d.readLine(pos)
		if err != nil {
			return Value{}, 0, err
		}
		n, err := parseInt64(line)
		if err != nil {
			return Value{}, 0, fmt.Errorf("%w: invalid integer %q", ErrMalformed, line)
		}
		return Value{Type: TypeInteger, Integer: n}, next, nil

	case TypeBulkString:
		return d.readBulk(pos, TypeBulkString)

	case TypeBulkError:
		return d.readBulk(pos, TypeBulkError)

	case TypeVerbatimString:
		return d.readVerbatim(pos)

	case TypeArray, TypePush, TypeSet:
		return d.readSequence(pos, depth, prefix)

	case TypeMap:
		return d.readMap(pos, depth)

	case TypeNull:
		next, err := d.expectCRLF(pos)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Type: TypeNull}, next, nil

	case TypeBool:
		line, next, err := d.readLine(pos)
		if err != nil {
			return Value{}, 0, err
		}
		if len(line) != 1 || (line[0] != 't' && line[0] != 'f') {
			return Value{}, 0, fmt.Errorf("%w: invalid boolean %q", ErrMalformed, line)
		}
		return Value{Type: TypeBool, Boolean: line[0] == 't'}, next, nil

	case TypeDouble:
		line, next, err := d.readLine(pos)
		if err != nil {
			return Value{}, 0, err
		}
		f, err := strconv.ParseFloat(string(line), 64)
		if err != nil {
			return Value{}, 0, fmt.Errorf("%w: invalid double %q", ErrMalformed, line)
		}
		return Value{Type: TypeDouble, Float: f}, next, nil

	case TypeBigNumber:
		line, next, err := d.readLine(pos)
		if err != nil {
			return Value{}, 0, err
		}
		v, err := parseBigNumber(line)
		if err != nil {
			return Value{}, 0, err
		}
		return v, next, nil

	default:
		return Value{}, 0, fmt.Errorf("%w: %c (0x%02x)", ErrUnknownType, prefix, byte(prefix))
	}
}

// readLine scans for the exact two-byte CRLF terminator. A lone CR or
// LF is not a terminator; scanning continues past it.
func (d *Decoder) readLine(pos int) ([]byte, int, error) {
	idx := bytes.Index(d.buf[pos:], crlfBytes)
	if idx < 0 {
		return nil, 0, ErrIncomplete
	}
	return d.buf[pos : pos+idx], pos + idx + 2, nil
}

// expectCRLF requires the next two bytes to be the CRLF terminator.
func (d *Decoder) expectCRLF(pos int) (int, error) {
	if pos+2 > len(d.buf) {
		return 0, ErrIncomplete
	}
	if d.buf[pos] != '\r' || d.buf[pos+1] != '\n' {
		return 0, fmt.Errorf("%w: expected [13, 10], got [%d, %d]", ErrBadTerminator, d.buf[pos], d.buf[pos+1])
	}
	return pos + 2, nil
}

// readLength parses a decimal length header line.
func (d *Decoder) readLength(pos int) (int64, int, error) {
	line, next, err := d.readLine(pos)
	if err != nil {
		return 0, 0, err
	}
	n, err := parseInt64(line)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadLength, line)
	}
	return n, next, nil
}

// readBulk parses a length-prefixed binary payload. Embedded CR or LF
// bytes inside the payload are data, not terminators.
func (d *Decoder) readBulk(pos int, t ValueType) (Value, int, error) {
	length, next, err := d.readLength(pos)
	if err != nil {
		return Value{}, 0, err
	}
	if length == -1 && t == TypeBulkString {
		return Value{Type: TypeBulkString, IsNull: true}, next, nil
	}
	if length < 0 {
		return Value{}, 0, fmt.Errorf("%w: %d", ErrBadLength, length)
	}
	if length > d.maxBulkLen {
		return Value{}, 0, fmt.Errorf("%w: %d", ErrTooLarge, length)
	}
	end := next + int(length)
	if end+2 > len(d.buf) {
		return Value{}, 0, ErrIncomplete
	}
	data := d.buf[next:end]
	after, err := d.expectCRLF(end)
	if err != nil {
		return Value{}, 0, err
	}
	return Value{Type: t, Data: data}, after, nil
}

// readVerbatim parses a verbatim string. The declared length covers the
// 3-byte format tag, the ':' separator and the text.
func (d *Decoder) readVerbatim(pos int) (Value, int, error) {
	v, next, err := d.readBulk(pos, TypeVerbatimString)
	if err != nil {
		return Value{}, 0, err
	}
	if len(v.Data) < 4 || v.Data[3] != ':' {
		return Value{}, 0, fmt.Errorf("%w: verbatim string missing format header", ErrMalformed)
	}
	v.Format = string(v.Data[:3])
	v.Data = v.Data[4:]
	return v, next, nil
}

// readSequence parses arrays, pushes and sets. Set members must be
// unique; duplicates are a protocol violation.
func (d *Decoder) readSequence(pos, depth int, t ValueType) (Value, int, error) {
	count, next, err := d.readLength(pos)
	if err != nil {
		return Value{}, 0, err
	}
	if count == -1 && t == TypeArray {
		return Value{Type: TypeArray, IsNull: true}, next, nil
	}
	if count < 0 {
		return Value{}, 0, fmt.Errorf("%w: %d", ErrBadLength, count)
	}
	if count > d.maxAggregateLen {
		return Value{}, 0, fmt.Errorf("%w: %d", ErrTooLarge, count)
	}
	elems := make([]Value, count)
	for i := range elems {
		elems[i], next, err = d.decodeValue(next, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
	}
	if t == TypeSet {
		if err := checkUnique(elems, 1); err != nil {
			return Value{}, 0, err
		}
	}
	return Value{Type: t, Array: elems}, next, nil
}

// readMap parses a map as count key/value pairs. Keys must be unique.
func (d *Decoder) readMap(pos, depth int) (Value, int, error) {
	count, next, err := d.readLength(pos)
	if err != nil {
		return Value{}, 0, err
	}
	if count < 0 {
		return Value{}, 0, fmt.Errorf("%w: %d", ErrBadLength, count)
	}
	if count > d.maxAggregateLen {
		return Value{}, 0, fmt.Errorf("%w: %d", ErrTooLarge, count)
	}
	flat := make([]Value, count*2)
	for i := range flat {
		flat[i], next, err = d.decodeValue(next, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
	}
	if err := checkUnique(flat, 2); err != nil {
		return Value{}, 0, err
	}
	return Value{Type: TypeMap, Array: flat}, next, nil
}

// checkUnique rejects duplicates among values at indexes 0, stride,
// 2*stride, ... using the canonical hash with an equality confirm.
func checkUnique(values []Value, stride int) error {
	if len(values) <= stride {
		return nil
	}
	seen := make(map[uint64][]int, len(values)/stride)
	for i := 0; i < len(values); i += stride {
		h := Hash(values[i])
		for _, j := range seen[h] {
			if Compare(values[i], values[j]) == 0 {
				return ErrDuplicateKey
			}
		}
		seen[h] = append(seen[h], i)
	}
	return nil
}

// parseInt64 parses a signed decimal integer from a byte slice without
// allocation.
func parseInt64(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, strconv.ErrSyntax
	}

	var neg bool
	var i int

	switch b[0] {
	case '-':
		neg = true
		i = 1
	case '+':
		i = 1
	}

	if i >= len(b) {
		return 0, strconv.ErrSyntax
	}

	var n int64
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, strconv.ErrSyntax
		}
		if n > (1<<63-1)/10 {
			return 0, strconv.ErrRange
		}
		n = n*10 + int64(b[i]-'0')
		if n < 0 {
			// Only math.MinInt64 may wrap, and only as the final digit
			// of a negative number.
			if neg && n == math.MinInt64 && i == len(b)-1 {
				return n, nil
			}
			return 0, strconv.ErrRange
		}
	}

	if neg {
		return -n, nil
	}
	return n, nil
}

// parseBigNumber parses an optionally signed decimal digit string.
func parseBigNumber(line []byte) (Value, error) {
	digits := line
	negative := false
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		negative = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return Value{}, fmt.Errorf("%w: empty big number", ErrMalformed)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return Value{}, fmt.Errorf("%w: invalid big number %q", ErrMalformed, line)
		}
	}
	return Value{Type: TypeBigNumber, Negative: negative, Data: digits}, nil
}
