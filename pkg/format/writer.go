package format

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer serialises headers onto a stream, usually the codec bit stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer around an io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write validates and writes the header. Nothing is written when the
// header is invalid.
func (hw *Writer) Write(header *Header) error {
	if err := header.Validate(); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}

	buf, err := header.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := hw.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// MarshalBinary encodes the header in wire order.
func (h *Header) MarshalBinary() ([]byte, error) {
	if len(h.Filename) > MaxFilenameLen {
		return nil, fmt.Errorf("%w: file name of %d bytes", ErrInvalidHeader, len(h.Filename))
	}
	buf := make([]byte, 0, h.Len())
	buf = append(buf, Stamp[:]...)
	buf = append(buf, h.Version, h.Flags, h.BitsPerChannel)
	buf = binary.BigEndian.AppendUint32(buf, h.DataLength)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(h.Filename)))
	buf = append(buf, h.Filename...)
	return buf, nil
}
