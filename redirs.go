package redirs

import (
	"fmt"

	"github.com/FrancescoLuzzi/redirs/resp"
)

// Value is the RESP value type; see the resp package for the full API.
type Value = resp.Value

// Marshal renders a value to its exact wire representation.
func Marshal(v Value) []byte {
	return resp.Marshal(v)
}

// Unmarshal parses data as exactly one RESP value. It fails if data
// holds a partial value or has bytes left over after the first one.
func Unmarshal(data []byte) (Value, error) {
	dec := resp.NewDecoder(data)
	v, err := dec.Decode()
	if err != nil {
		return Value{}, err
	}
	if dec.Buffered() > 0 {
		return Value{}, fmt.Errorf("%w: %d trailing bytes after value", resp.ErrMalformed, dec.Buffered())
	}
	return v, nil
}

// DecodeAll parses every value in data. A trailing partial value
// surfaces as resp.ErrIncomplete alongside the values decoded so far.
func DecodeAll(data []byte) ([]Value, error) {
	dec := resp.NewDecoder(data)
	var values []Value
	for dec.Buffered() > 0 {
		v, err := dec.Decode()
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
	return values, nil
}
