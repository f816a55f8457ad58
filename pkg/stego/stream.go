package stego

import (
	"errors"
	"io"
)

// Writer turns byte writes into bit writes on a codec, most significant bit
// first.
type Writer struct {
	c Codec
	n int
}

// NewWriter wraps c.
func NewWriter(c Codec) *Writer {
	return &Writer{c: c}
}

func (w *Writer) Write(p []byte) (int, error) {
	for i, b := range p {
		for bit := 7; bit >= 0; bit-- {
			if err := w.c.WriteBit((b >> uint(bit)) & 1); err != nil {
				return i, err
			}
		}
		w.n++
	}
	return len(p), nil
}

// Written is the number of complete bytes written.
func (w *Writer) Written() int { return w.n }

// Reader turns byte reads into bit reads on a codec. io.EOF is returned only
// when the carrier is exhausted on a byte boundary; running out mid-byte
// drops the partial byte and returns ErrTruncatedRead.
type Reader struct {
	c Codec
}

// NewReader wraps c.
func NewReader(c Codec) *Reader {
	return &Reader{c: c}
}

func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		var out uint8
		for count := 0; count < 8; count++ {
			bit, err := r.c.ReadBit()
			if err != nil {
				if i == 0 && count == 0 && errors.Is(err, ErrTruncatedRead) {
					return 0, io.EOF
				}
				return i, err
			}
			out = out<<1 | bit
		}
		p[i] = out
	}
	return len(p), nil
}
