package format

import (
	"errors"
	"fmt"
)

// Wire layout, big endian:
//
//	stamp(4) | version(1) | flags(1) | bitsPerChannel(1) | dataLength(4) | nameLength(2) | name
const (
	// Version is the newest header version this package reads and writes.
	Version = 1

	// FixedLen is the size of the header without the file name.
	FixedLen = 4 + 1 + 1 + 1 + 4 + 2

	// MaxFilenameLen is the largest name the length field can express.
	MaxFilenameLen = 1<<16 - 1
)

// Stamp identifies a hidden payload. A mismatch on read means either a
// wrong password or a carrier without hidden data.
var Stamp = [4]byte{'O', 'S', 'T', 'G'}

// Flag bits.
const (
	FlagCompressed uint8 = 1 << iota
	FlagEncrypted
	FlagRedundant
)

// ErrInvalidHeader indicates a stamp mismatch or out of range field.
var ErrInvalidHeader = errors.New("invalid stego header (wrong password or no hidden data)")

// ErrUnsupportedVersion indicates a header written by a newer version.
var ErrUnsupportedVersion = errors.New("unsupported stego header version")

// Header is the self-describing record written in front of every payload.
type Header struct {
	Version        uint8
	Flags          uint8
	BitsPerChannel uint8

	// DataLength is the number of payload bytes that follow, after all
	// filters were applied.
	DataLength uint32

	// Filename is the name of the hidden file, empty when none was given.
	Filename string
}

// NewHeader builds a current-version header.
func NewHeader(dataLength int, filename string, bitsPerChannel int, flags uint8) (*Header, error) {
	if dataLength < 0 || uint64(dataLength) > 1<<32-1 {
		return nil, fmt.Errorf("data length %d out of range", dataLength)
	}
	h := &Header{
		Version:        Version,
		Flags:          flags,
		BitsPerChannel: uint8(bitsPerChannel),
		DataLength:     uint32(dataLength),
		Filename:       filename,
	}
	if bitsPerChannel < 1 || bitsPerChannel > 8 {
		return nil, fmt.Errorf("%w: bits per channel %d", ErrInvalidHeader, bitsPerChannel)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks if the header contains sane values.
func (h *Header) Validate() error {
	if h.Version == 0 {
		return fmt.Errorf("%w: version 0", ErrInvalidHeader)
	}
	if h.Version > Version {
		return fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, h.Version, Version)
	}
	if h.BitsPerChannel < 1 || h.BitsPerChannel > 8 {
		return fmt.Errorf("%w: bits per channel %d", ErrInvalidHeader, h.BitsPerChannel)
	}
	if len(h.Filename) > MaxFilenameLen {
		return fmt.Errorf("%w: file name of %d bytes", ErrInvalidHeader, len(h.Filename))
	}
	return nil
}

// Len is the encoded size in bytes.
func (h *Header) Len() int {
	return FixedLen + len(h.Filename)
}

// Bits is the encoded size in bits.
func (h *Header) Bits() int {
	return h.Len() * 8
}

func (h *Header) Compressed() bool { return h.Flags&FlagCompressed != 0 }
func (h *Header) Encrypted() bool  { return h.Flags&FlagEncrypted != 0 }
func (h *Header) Redundant() bool  { return h.Flags&FlagRedundant != 0 }
