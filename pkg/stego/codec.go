// Package stego implements the bit channels that hide data in a carrier:
// plain least-significant-bit replacement on pixel channels (LSB) and
// parity forcing on quantized DCT coefficients of the luminance (DCT-LSB).
package stego

import (
	"fmt"

	"github.com/Beastly713/stegano/pkg/carrier"
)

// Algorithm names a codec variant.
type Algorithm string

const (
	AlgorithmLSB Algorithm = "lsb"
	AlgorithmDCT Algorithm = "dctlsb"
)

// Algorithms lists the supported variants.
var Algorithms = []Algorithm{AlgorithmLSB, AlgorithmDCT}

// DefaultBitsPerChannel is the width the header is always written with, so
// it can be read before the configured width is known.
const DefaultBitsPerChannel = 1

// Codec is a password-ordered bit channel over one carrier.
//
// Bits are stored in groups: a group is one coordinate handed out by the
// selector (a pixel, or an 8x8 block). A codec instance is one session and
// must not be reused for a second embed or extract.
type Codec interface {
	// Groups is the number of distinct coordinates the carrier offers.
	Groups() int
	// GroupBits is the number of bits one group holds at the given width.
	GroupBits(width int) int
	// SetWidth sets the bits per channel for following bits and starts a
	// fresh group.
	SetWidth(width int) error
	WriteBit(bit uint8) error
	ReadBit() (uint8, error)
}

// New builds the codec for alg over c. The password seeds the traversal.
func New(alg Algorithm, c *carrier.Carrier, password string) (Codec, error) {
	switch alg {
	case AlgorithmLSB:
		return NewLSB(c, password), nil
	case AlgorithmDCT:
		return NewDCT(c, password)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// CapacityBits is the total number of bits the codec can hold at width.
func CapacityBits(c Codec, width int) int {
	return c.Groups() * c.GroupBits(width)
}

// GroupsNeeded returns how many groups a header of headerBits written at the
// default width followed by bodyBits at width will consume.
func GroupsNeeded(c Codec, headerBits, bodyBits, width int) int {
	return ceilDiv(headerBits, c.GroupBits(DefaultBitsPerChannel)) + ceilDiv(bodyBits, c.GroupBits(width))
}

// ValidateWidth checks a bits-per-channel value.
func ValidateWidth(width int) error {
	if width < 1 || width > 8 {
		return fmt.Errorf("%w: got %d", ErrBitsPerChannel, width)
	}
	return nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
