package resp

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a RESP value. The constant values
// are the wire prefix bytes.
type ValueType byte

const (
	// RESP2 value types
	TypeSimpleString ValueType = '+'
	TypeSimpleError  ValueType = '-'
	TypeInteger      ValueType = ':'
	TypeBulkString   ValueType = '$'
	TypeArray        ValueType = '*'

	// RESP3 value types
	TypeNull           ValueType = '_'
	TypeBool           ValueType = '#'
	TypeDouble         ValueType = ','
	TypeBigNumber      ValueType = '('
	TypeBulkError      ValueType = '!'
	TypeVerbatimString ValueType = '='
	TypeMap            ValueType = '%'
	TypeSet            ValueType = '~'
	TypePush           ValueType = '>'
)

// Verbatim string format tags defined by RESP3.
const (
	VerbatimTxt = "txt"
	VerbatimMrk = "mrk"
)

// Value represents a parsed RESP value. Which fields are meaningful
// depends on Type:
//
//   - SimpleString, SimpleError, BulkString, BulkError: Data
//   - Integer: Integer
//   - Double: Float
//   - Bool: Boolean
//   - BigNumber: Negative and Data (ASCII digits)
//   - VerbatimString: Format (3-byte tag) and Data (text)
//   - Array, Push, Set: Array (elements or members)
//   - Map: Array holding flattened key/value pairs, keys at even indexes
//   - Null: no payload
//
// IsNull marks the RESP null bulk string ($-1) and null array (*-1).
type Value struct {
	Type     ValueType
	Data     []byte
	Integer  int64
	Float    float64
	Boolean  bool
	Negative bool
	Format   string
	Array    []Value
	IsNull   bool
}

// NewSimpleString returns a simple string value.
func NewSimpleString(s string) Value {
	return Value{Type: TypeSimpleString, Data: []byte(s)}
}

// NewSimpleError returns a simple error value.
func NewSimpleError(msg string) Value {
	return Value{Type: TypeSimpleError, Data: []byte(msg)}
}

// NewInteger returns an integer value.
func NewInteger(n int64) Value {
	return Value{Type: TypeInteger, Integer: n}
}

// NewBulkString returns a bulk string value holding data.
func NewBulkString(data []byte) Value {
	return Value{Type: TypeBulkString, Data: data}
}

// NewBulkStringFromString returns a bulk string value holding s.
func NewBulkStringFromString(s string) Value {
	return Value{Type: TypeBulkString, Data: []byte(s)}
}

// NewNullBulkString returns the RESP null bulk string ($-1).
func NewNullBulkString() Value {
	return Value{Type: TypeBulkString, IsNull: true}
}

// NewArray returns an array value with the given elements.
func NewArray(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Type: TypeArray, Array: elems}
}

// NewNullArray returns the RESP null array (*-1).
func NewNullArray() Value {
	return Value{Type: TypeArray, IsNull: true}
}

// NewNull returns the RESP3 null value.
func NewNull() Value {
	return Value{Type: TypeNull}
}

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{Type: TypeBool, Boolean: b}
}

// NewDouble returns a double value.
func NewDouble(f float64) Value {
	return Value{Type: TypeDouble, Float: f}
}

// NewBigNumber returns a big number value from a sign and a decimal
// digit string.
func NewBigNumber(negative bool, digits string) Value {
	return Value{Type: TypeBigNumber, Negative: negative, Data: []byte(digits)}
}

// NewBulkError returns a bulk error value holding msg.
func NewBulkError(msg []byte) Value {
	return Value{Type: TypeBulkError, Data: msg}
}

// NewVerbatimString returns a verbatim string value with the given
// 3-byte format tag (see VerbatimTxt, VerbatimMrk) and text.
func NewVerbatimString(format, text string) Value {
	return Value{Type: TypeVerbatimString, Format: format, Data: []byte(text)}
}

// NewPush returns a push value with the given elements.
func NewPush(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Type: TypePush, Array: elems}
}

// NewSet returns a set value with the given members. Members are
// de-duplicated and stored in canonical order (see Compare) so the
// encoded form satisfies the uniqueness invariant by construction.
func NewSet(members ...Value) Value {
	sorted := sortValues(members)
	out := make([]Value, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && Compare(sorted[i-1], m) == 0 {
			continue
		}
		out = append(out, m)
	}
	return Value{Type: TypeSet, Array: out}
}

// NewMap returns a map value from flattened key/value pairs
// (key1, val1, key2, val2, ...). Pairs are sorted by key in canonical
// order; for duplicate keys the last value wins. NewMap panics if the
// number of arguments is odd, which is always a programming error.
func NewMap(pairs ...Value) Value {
	if len(pairs)%2 != 0 {
		panic("resp: NewMap requires an even number of values")
	}
	type pair struct{ key, val Value }
	kvs := make([]pair, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		kvs = append(kvs, pair{pairs[i], pairs[i+1]})
	}
	// Stable sort keeps the last duplicate in front of the sweep below.
	for i := 1; i < len(kvs); i++ {
		for j := i; j > 0 && Compare(kvs[j].key, kvs[j-1].key) < 0; j-- {
			kvs[j], kvs[j-1] = kvs[j-1], kvs[j]
		}
	}
	flat := make([]Value, 0, len(kvs)*2)
	for i, kv := range kvs {
		if i+1 < len(kvs) && Compare(kv.key, kvs[i+1].key) == 0 {
			continue
		}
		flat = append(flat, kv.key, kv.val)
	}
	return Value{Type: TypeMap, Array: flat}
}

// MapLen returns the number of key/value pairs in a map value.
func (v Value) MapLen() int {
	return len(v.Array) / 2
}

// MapIndex returns the i-th key/value pair of a map value.
func (v Value) MapIndex(i int) (key, val Value) {
	return v.Array[2*i], v.Array[2*i+1]
}

// Equal reports whether two values are equal under the canonical order
// contract documented on Compare.
func (v Value) Equal(other Value) bool {
	return Compare(v, other) == 0
}

// Clone returns a deep copy of v that shares no memory with the buffer
// it was decoded from.
func (v Value) Clone() Value {
	out := v
	if v.Data != nil {
		out.Data = append([]byte(nil), v.Data...)
	}
	if v.Array != nil {
		out.Array = make([]Value, len(v.Array))
		for i, elem := range v.Array {
			out.Array[i] = elem.Clone()
		}
	}
	return out
}

// String returns a human readable representation of the value.
func (v Value) String() string {
	switch v.Type {
	case TypeSimpleString:
		return string(v.Data)
	case TypeSimpleError:
		return string(v.Data)
	case TypeInteger:
		return strconv.FormatInt(v.Integer, 10)
	case TypeBulkString:
		if v.IsNull {
			return "(nil)"
		}
		return string(v.Data)
	case TypeArray, TypePush:
		if v.IsNull {
			return "(nil)"
		}
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeNull:
		return "(nil)"
	case TypeBool:
		if v.Boolean {
			return "true"
		}
		return "false"
	case TypeDouble:
		return formatDouble(v.Float)
	case TypeBigNumber:
		if v.Negative {
			return "-" + string(v.Data)
		}
		return string(v.Data)
	case TypeBulkError:
		return string(v.Data)
	case TypeVerbatimString:
		return string(v.Data)
	case TypeMap:
		parts := make([]string, 0, v.MapLen())
		for i := 0; i < v.MapLen(); i++ {
			k, val := v.MapIndex(i)
			parts = append(parts, k.String()+": "+val.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TypeSet:
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("unknown type %c", v.Type)
	}
}

// Bytes returns the byte payload of the value.
func (v Value) Bytes() []byte {
	return v.Data
}

// Int returns the integer payload of the value, or 0 for other types.
func (v Value) Int() int64 {
	return v.Integer
}

// IsError returns true for simple error and bulk error values.
func (v Value) IsError() bool {
	return v.Type == TypeSimpleError || v.Type == TypeBulkError
}

// Error returns the error message if this is an error value.
func (v Value) Error() string {
	if v.IsError() {
		return string(v.Data)
	}
	return ""
}
