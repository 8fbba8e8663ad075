package resp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Writer provides efficient writing of RESP protocol messages. Write
// errors from the underlying sink are propagated immediately; bytes
// already written are not retracted, so callers that need atomicity
// should write to a buffer and discard it on error.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter creates a new RESP protocol writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		bw: bufio.NewWriter(w),
	}
}

// WriteValue writes any RESP value to the output stream, recursing over
// aggregate children in order.
func (w *Writer) WriteValue(v Value) error {
	switch v.Type {
	case TypeSimpleString:
		return w.WriteSimpleString(string(v.Data))
	case TypeSimpleError:
		return w.WriteError(string(v.Data))
	case TypeInteger:
		return w.WriteInteger(v.Integer)
	case TypeBulkString:
		if v.IsNull {
			return w.WriteNullBulkString()
		}
		return w.WriteBulkString(v.Data)
	case TypeArray:
		if v.IsNull {
			return w.WriteNullArray()
		}
		return w.WriteArray(v.Array)
	case TypeNull:
		return w.WriteNull()
	case TypeBool:
		return w.WriteBool(v.Boolean)
	case TypeDouble:
		return w.WriteDouble(v.Float)
	case TypeBigNumber:
		return w.WriteBigNumber(v.Negative, string(v.Data))
	case TypeBulkError:
		return w.WriteBulkError(v.Data)
	case TypeVerbatimString:
		return w.WriteVerbatimString(v.Format, string(v.Data))
	case TypeMap:
		return w.WriteMap(v.Array)
	case TypeSet:
		return w.WriteSet(v.Array)
	case TypePush:
		return w.WritePush(v.Array)
	default:
		return fmt.Errorf("unsupported value type: %c", v.Type)
	}
}

// WriteSimpleString writes a simple string. The text must not contain
// CR or LF; embedding them is a caller error, not checked here.
func (w *Writer) WriteSimpleString(s string) error {
	return w.writeLine('+', s)
}

// WriteError writes a simple error.
func (w *Writer) WriteError(msg string) error {
	return w.writeLine('-', msg)
}

// WriteInteger writes an integer.
func (w *Writer) WriteInteger(n int64) error {
	return w.writeLine(':', strconv.FormatInt(n, 10))
}

// WriteBulkString writes a length-prefixed bulk string. The payload is
// binary safe.
func (w *Writer) WriteBulkString(data []byte) error {
	if err := w.writeHeader('$', int64(len(data))); err != nil {
		return err
	}
	if _, err := w.bw.Write(data); err != nil {
		return err
	}
	return w.writeCRLF()
}

// WriteBulkStringFromString writes a bulk string from a string.
func (w *Writer) WriteBulkStringFromString(s string) error {
	return w.WriteBulkString([]byte(s))
}

// WriteNullBulkString writes the RESP2 null bulk string ($-1).
func (w *Writer) WriteNullBulkString() error {
	return w.writeLine('$', "-1")
}

// WriteArray writes an array of values.
func (w *Writer) WriteArray(values []Value) error {
	return w.writeAggregate('*', int64(len(values)), values)
}

// WriteNullArray writes the RESP2 null array (*-1).
func (w *Writer) WriteNullArray() error {
	return w.writeLine('*', "-1")
}

// WriteNull writes the RESP3 null value.
func (w *Writer) WriteNull() error {
	return w.writeLine('_', "")
}

// WriteBool writes a RESP3 boolean.
func (w *Writer) WriteBool(b bool) error {
	if b {
		return w.writeLine('#', "t")
	}
	return w.writeLine('#', "f")
}

// WriteDouble writes a RESP3 double. Infinities encode as inf/-inf and
// NaN as nan.
func (w *Writer) WriteDouble(f float64) error {
	return w.writeLine(',', formatDouble(f))
}

// WriteBigNumber writes a RESP3 big number with an explicit sign.
func (w *Writer) WriteBigNumber(negative bool, digits string) error {
	sign := "+"
	if negative {
		sign = "-"
	}
	return w.writeLine('(', sign+digits)
}

// WriteBulkError writes a RESP3 length-prefixed bulk error.
func (w *Writer) WriteBulkError(msg []byte) error {
	if err := w.writeHeader('!', int64(len(msg))); err != nil {
		return err
	}
	if _, err := w.bw.Write(msg); err != nil {
		return err
	}
	return w.writeCRLF()
}

// WriteVerbatimString writes a RESP3 verbatim string. The declared
// length includes the 3-byte format tag and the ':' separator.
func (w *Writer) WriteVerbatimString(format, text string) error {
	if err := w.writeHeader('=', int64(len(text)+4)); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(format); err != nil {
		return err
	}
	if err := w.bw.WriteByte(':'); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(text); err != nil {
		return err
	}
	return w.writeCRLF()
}

// WriteMap writes a RESP3 map from flattened key/value pairs.
func (w *Writer) WriteMap(pairs []Value) error {
	return w.writeAggregate('%', int64(len(pairs)/2), pairs)
}

// WriteSet writes a RESP3 set.
func (w *Writer) WriteSet(members []Value) error {
	return w.writeAggregate('~', int64(len(members)), members)
}

// WritePush writes a RESP3 push message.
func (w *Writer) WritePush(values []Value) error {
	return w.writeAggregate('>', int64(len(values)), values)
}

// WriteCommand writes a client command as an array of bulk strings.
func (w *Writer) WriteCommand(cmd string, args ...string) error {
	if err := w.writeHeader('*', int64(1+len(args))); err != nil {
		return err
	}
	if err := w.WriteBulkStringFromString(cmd); err != nil {
		return err
	}
	for _, arg := range args {
		if err := w.WriteBulkStringFromString(arg); err != nil {
			return err
		}
	}
	return nil
}

// WriteOK writes a simple "OK" response.
func (w *Writer) WriteOK() error {
	return w.WriteSimpleString("OK")
}

// WritePONG writes a simple "PONG" response.
func (w *Writer) WritePONG() error {
	return w.WriteSimpleString("PONG")
}

// Flush flushes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Reset resets the writer to write to a new underlying writer.
func (w *Writer) Reset(writer io.Writer) {
	w.bw.Reset(writer)
}

func (w *Writer) writeLine(prefix byte, s string) error {
	if err := w.bw.WriteByte(prefix); err != nil {
		return err
	}
	if _, err := w.bw.WriteString(s); err != nil {
		return err
	}
	return w.writeCRLF()
}

func (w *Writer) writeHeader(prefix byte, n int64) error {
	return w.writeLine(prefix, strconv.FormatInt(n, 10))
}

func (w *Writer) writeAggregate(prefix byte, count int64, values []Value) error {
	if err := w.writeHeader(prefix, count); err != nil {
		return err
	}
	for _, value := range values {
		if err := w.WriteValue(value); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeCRLF() error {
	_, err := w.bw.WriteString(CRLF)
	return err
}

// Marshal renders a value to its exact wire representation.
func Marshal(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the wire representation of v to dst and returns
// the extended slice.
func AppendValue(dst []byte, v Value) []byte {
	switch v.Type {
	case TypeSimpleString, TypeSimpleError:
		dst = append(dst, byte(v.Type))
		dst = append(dst, v.Data...)
	case TypeInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Integer, 10)
	case TypeBulkString, TypeBulkError:
		if v.Type == TypeBulkString && v.IsNull {
			return append(dst, "$-1\r\n"...)
		}
		dst = append(dst, byte(v.Type))
		dst = strconv.AppendInt(dst, int64(len(v.Data)), 10)
		dst = append(dst, crlfBytes...)
		dst = append(dst, v.Data...)
	case TypeVerbatimString:
		dst = append(dst, '=')
		dst = strconv.AppendInt(dst, int64(len(v.Data)+4), 10)
		dst = append(dst, crlfBytes...)
		dst = append(dst, v.Format...)
		dst = append(dst, ':')
		dst = append(dst, v.Data...)
	case TypeArray:
		if v.IsNull {
			return append(dst, "*-1\r\n"...)
		}
		return appendAggregate(dst, '*', int64(len(v.Array)), v.Array)
	case TypeNull:
		dst = append(dst, '_')
	case TypeBool:
		if v.Boolean {
			dst = append(dst, "#t"...)
		} else {
			dst = append(dst, "#f"...)
		}
	case TypeDouble:
		dst = append(dst, ',')
		dst = append(dst, formatDouble(v.Float)...)
	case TypeBigNumber:
		dst = append(dst, '(')
		if v.Negative {
			dst = append(dst, '-')
		} else {
			dst = append(dst, '+')
		}
		dst = append(dst, v.Data...)
	case TypeMap:
		return appendAggregate(dst, '%', int64(len(v.Array)/2), v.Array)
	case TypeSet:
		return appendAggregate(dst, '~', int64(len(v.Array)), v.Array)
	case TypePush:
		return appendAggregate(dst, '>', int64(len(v.Array)), v.Array)
	}
	return append(dst, crlfBytes...)
}

func appendAggregate(dst []byte, prefix byte, count int64, values []Value) []byte {
	dst = append(dst, prefix)
	dst = strconv.AppendInt(dst, count, 10)
	dst = append(dst, crlfBytes...)
	for _, value := range values {
		dst = AppendValue(dst, value)
	}
	return dst
}

// formatDouble renders a float the way RESP3 expects: inf, -inf and nan
// for the specials, fixed notation otherwise, falling back to exponent
// notation for extreme magnitudes.
func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if f != 0 && (abs < 1e-4 || abs >= 1e17) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
