package carrier

import (
	"math"
	"math/rand/v2"
)

// Random builds a noise cover of the given size. Used when the caller has
// no cover image of their own.
func Random(width, height, channels int) (*Carrier, error) {
	c, err := New(width, height, channels)
	if err != nil {
		return nil, err
	}
	for i := range c.Pix {
		c.Pix[i] = uint8(rand.N(256))
	}
	return c, nil
}

// SquareFor returns the edge of the smallest square image with at least
// the given number of pixels.
func SquareFor(pixels int) int {
	if pixels <= 1 {
		return 1
	}
	side := int(math.Ceil(math.Sqrt(float64(pixels))))
	for side*side < pixels {
		side++
	}
	return side
}
