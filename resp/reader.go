package resp

import (
	"errors"
	"io"
)

const readChunkSize = 4096

// Reader is a streaming RESP reader over an io.Reader. It feeds an
// internal Decoder, retrying on ErrIncomplete as more bytes arrive, so
// short reads never corrupt parser state.
//
// Values returned by ReadNext are deep copies and remain valid after
// further reads.
type Reader struct {
	r     io.Reader
	dec   *Decoder
	chunk []byte
}

// NewReader creates a new streaming RESP reader.
func NewReader(r io.Reader, opts ...DecoderOption) *Reader {
	return &Reader{
		r:     r,
		dec:   NewDecoder(nil, opts...),
		chunk: make([]byte, readChunkSize),
	}
}

// ReadNext reads the next RESP value from the stream. It returns io.EOF
// when the stream ends cleanly between values and io.ErrUnexpectedEOF
// when it ends in the middle of one.
func (r *Reader) ReadNext() (Value, error) {
	for {
		v, err := r.dec.Decode()
		if err == nil {
			v = v.Clone()
			r.compact()
			return v, nil
		}
		if !errors.Is(err, ErrIncomplete) {
			return Value{}, err
		}
		if err := r.fill(); err != nil {
			return Value{}, err
		}
	}
}

// Skip consumes the next RESP value without returning it.
func (r *Reader) Skip() error {
	for {
		_, err := r.dec.Decode()
		if err == nil {
			r.compact()
			return nil
		}
		if !errors.Is(err, ErrIncomplete) {
			return err
		}
		if err := r.fill(); err != nil {
			return err
		}
	}
}

// Buffered returns the number of bytes read from the source but not yet
// consumed by a decoded value.
func (r *Reader) Buffered() int {
	return r.dec.Buffered()
}

// fill reads one chunk from the source into the decoder buffer.
func (r *Reader) fill() error {
	n, err := r.r.Read(r.chunk)
	if n > 0 {
		r.dec.Feed(r.chunk[:n])
		return nil
	}
	if err == nil {
		return io.ErrNoProgress
	}
	if err == io.EOF && r.dec.Buffered() > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}

// compact drops consumed bytes once enough accumulate, keeping the
// unread tail at the front of the buffer.
func (r *Reader) compact() {
	if r.dec.pos < readChunkSize {
		return
	}
	rest := r.dec.buf[r.dec.pos:]
	r.dec.buf = append(r.dec.buf[:0], rest...)
	r.dec.pos = 0
}
