// Package redirs provides a codec for the Redis Serialization Protocol
// (RESP), versions 2 and 3.
//
// The root package is a thin convenience facade over the resp package,
// which holds the full codec: an incremental decoder with first-class
// incomplete-input handling, a streaming reader, a wire writer, a
// canonical order and hash over the value universe, and a command
// translator.
//
// Basic usage:
//
//	value, err := redirs.Unmarshal([]byte("+OK\r\n"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	wire := redirs.Marshal(value)
//
// For incremental parsing of a network byte stream, use resp.Decoder or
// resp.Reader directly:
//
//	dec := resp.NewDecoder(nil)
//	dec.Feed(chunk)
//	value, err := dec.Decode()
//	if errors.Is(err, resp.ErrIncomplete) {
//		// wait for more bytes, then Feed and retry
//	}
//
// The codec owns no I/O and no connection state: bytes go in, values
// and commands come out.
package redirs
