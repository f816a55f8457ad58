// Package carrier holds the in-memory sample grid that payload bits are
// hidden in, plus the luminance view used by the transform codec.
package carrier

import (
	"errors"
	"fmt"
)

// ErrInvalidCarrier indicates a grid with impossible dimensions.
var ErrInvalidCarrier = errors.New("invalid carrier")

// Carrier is a rectangular grid of 8-bit samples with one or more channels
// per pixel, stored row-major and channel-interleaved.
type Carrier struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8

	// alpha of the source image, restored by ToImage. Never carries bits.
	alpha []uint8
}

// New allocates a zeroed carrier.
func New(width, height, channels int) (*Carrier, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidCarrier, width, height)
	}
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidCarrier, channels)
	}
	return &Carrier{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// NewGray wraps single-channel samples. pix is used as is.
func NewGray(width, height int, pix []uint8) (*Carrier, error) {
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidCarrier, len(pix), width, height)
	}
	c, err := New(width, height, 1)
	if err != nil {
		return nil, err
	}
	c.Pix = pix
	return c, nil
}

// Offset returns the index in Pix of channel ch of pixel (x, y).
func (c *Carrier) Offset(x, y, ch int) int {
	return (y*c.Width+x)*c.Channels + ch
}

// At returns one sample.
func (c *Carrier) At(x, y, ch int) uint8 {
	return c.Pix[c.Offset(x, y, ch)]
}

// Set stores one sample.
func (c *Carrier) Set(x, y, ch int, v uint8) {
	c.Pix[c.Offset(x, y, ch)] = v
}

// Pixels is Width*Height.
func (c *Carrier) Pixels() int {
	return c.Width * c.Height
}

// Clone returns a deep copy, so embedding can work on a scratch grid.
func (c *Carrier) Clone() *Carrier {
	out := *c
	out.Pix = append([]uint8(nil), c.Pix...)
	if c.alpha != nil {
		out.alpha = append([]uint8(nil), c.alpha...)
	}
	return &out
}
