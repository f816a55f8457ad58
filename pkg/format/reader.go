package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reader separates the header from the payload that follows it.
type Reader struct {
	Header *Header
	Body   io.Reader
}

// NewReader parses a header from r and returns a Reader whose Body is
// limited to the declared data length.
//
// r is read field by field and never past the header, since every extra
// byte pulled from a codec stream costs carrier slots.
func NewReader(r io.Reader) (*Reader, error) {
	header, err := Read(r)
	if err != nil {
		return nil, err
	}
	return &Reader{
		Header: header,
		Body:   io.LimitReader(r, int64(header.DataLength)),
	}, nil
}

// Read parses exactly one header from r.
func Read(r io.Reader) (*Header, error) {
	// 1. Stamp
	var stamp [4]byte
	if _, err := io.ReadFull(r, stamp[:]); err != nil {
		return nil, shortHeader(err)
	}
	if !bytes.Equal(stamp[:], Stamp[:]) {
		return nil, fmt.Errorf("%w: stamp % x", ErrInvalidHeader, stamp)
	}

	// 2. Fixed fields
	var fixed [FixedLen - 4]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, shortHeader(err)
	}
	h := &Header{
		Version:        fixed[0],
		Flags:          fixed[1],
		BitsPerChannel: fixed[2],
		DataLength:     binary.BigEndian.Uint32(fixed[3:7]),
	}
	// the version decides how the rest is laid out, so check it first
	if h.Version > Version {
		return nil, fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, h.Version, Version)
	}

	// 3. File name
	if n := binary.BigEndian.Uint16(fixed[7:9]); n > 0 {
		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, shortHeader(err)
		}
		h.Filename = string(name)
	}

	// 4. Validate the parsed header
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func shortHeader(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: carrier too small to hold a header", ErrInvalidHeader)
	}
	return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
}
