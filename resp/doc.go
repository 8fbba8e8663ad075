// Package resp implements the Redis Serialization Protocol (RESP),
// versions 2 and 3, as a pure transformation layer between bytes,
// values and commands.
//
// The package provides an incremental decoder that parses one value at
// a time from a byte buffer and reports ErrIncomplete when the buffer
// does not yet hold a complete token, a streaming Reader built on top
// of it for io.Reader sources, and a Writer that renders values back to
// their exact wire representation.
//
// Basic usage:
//
//	dec := resp.NewDecoder(buf)
//	for {
//		value, err := dec.Decode()
//		if errors.Is(err, resp.ErrIncomplete) {
//			dec.Feed(moreBytes)
//			continue
//		}
//		if err != nil {
//			break
//		}
//		// Process value
//	}
//
// The package supports all RESP data types:
//   - Simple Strings, Simple Errors, Integers, Bulk Strings, Arrays
//   - Nulls, Booleans, Doubles, Big Numbers (RESP3)
//   - Bulk Errors, Verbatim Strings, Maps, Sets, Pushes (RESP3)
//
// Values returned by the decoder alias the input buffer; use
// Value.Clone when a value must outlive the buffer it was parsed from.
package resp
