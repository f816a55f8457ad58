package stego

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/dct"
	"github.com/Beastly713/stegano/pkg/selector"
)

// maxParityShift bounds how far a coefficient is pushed (in quantization
// steps) while looking for a value that survives rounding back to pixels.
const maxParityShift = 5

// DCT hides one bit per 8x8 luminance block in the parity of a quantized
// mid-frequency coefficient. Block and coefficient are drawn from the
// selector; each block is used at most once per session.
type DCT struct {
	luma *carrier.Luma
	sel  *selector.Selector
	used int
}

// NewDCT creates a DCT-LSB session over c. Width and height of c are
// rounded down to a multiple of 8.
func NewDCT(c *carrier.Carrier, password string) (*DCT, error) {
	luma, err := carrier.NewLuma(c)
	if err != nil {
		return nil, err
	}
	return &DCT{
		luma: luma,
		sel:  selector.New(password),
	}, nil
}

func (d *DCT) Groups() int { return d.luma.BlocksX() * d.luma.BlocksY() }

// GroupBits is always 1: the bit width does not apply to coefficients.
func (d *DCT) GroupBits(int) int { return 1 }

func (d *DCT) SetWidth(width int) error {
	return ValidateWidth(width)
}

// next draws the block and coefficient for the next bit.
func (d *DCT) next() (int, int, int, error) {
	if d.used >= d.Groups() {
		return 0, 0, 0, errNoGroup
	}
	bx, by, err := d.sel.Next(d.luma.BlocksX(), d.luma.BlocksY())
	if err != nil {
		if errors.Is(err, selector.ErrExhausted) {
			return 0, 0, 0, errNoGroup
		}
		return 0, 0, 0, err
	}
	d.used++
	return bx, by, d.sel.Coefficient(), nil
}

func (d *DCT) ReadBit() (uint8, error) {
	bx, by, idx, err := d.next()
	if err != nil {
		if errors.Is(err, errNoGroup) {
			return 0, fmt.Errorf("%w: all %d blocks used", ErrTruncatedRead, d.Groups())
		}
		return 0, err
	}

	var px, coef dct.Block
	d.luma.Block(bx, by, &px)
	dct.Forward(&px, &coef)
	return dct.Bit(&coef, idx), nil
}

func (d *DCT) WriteBit(bit uint8) error {
	bx, by, idx, err := d.next()
	if err != nil {
		if errors.Is(err, errNoGroup) {
			return fmt.Errorf("%w: all %d blocks used", ErrCapacityExceeded, d.Groups())
		}
		return err
	}
	return d.embed(bx, by, idx, bit)
}

// damping is one fallback stage of embed, used when no candidate survives
// the trip through pixels. Each field scales part of the block toward flat
// mid grey. The last stage leaves a neutral block where nothing clamps.
type damping struct {
	dc, ac, chroma float64
}

var dampings = []damping{
	{1, 1, 1},
	{0.75, 1, 1},
	{0.5, 1, 1},
	{0.25, 1, 1},
	{0, 1, 1},
	{0, 0.5, 1},
	{0, 0, 1},
	{0, 0, 0},
}

// embed sets the parity of coefficient idx of block (bx, by) to bit.
func (d *DCT) embed(bx, by, idx int, bit uint8) error {
	bit &= 1

	var px, coef, check dct.Block
	d.luma.Block(bx, by, &px)
	dct.Forward(&px, &coef)
	if dct.Bit(&coef, idx) == bit {
		return nil
	}

	q := dct.Luminance[idx]
	for _, st := range dampings {
		if st.chroma < 1 {
			d.luma.Desaturate(bx, by, st.chroma)
		}
		for _, cand := range parityCandidates(coef[idx]/q*st.ac, bit) {
			var trial dct.Block
			for i := range coef {
				trial[i] = coef[i] * st.ac
			}
			trial[0] = coef[0] * st.dc
			trial[idx] = float64(cand) * q
			dct.Inverse(&trial, &px)
			d.luma.SetBlock(bx, by, &px)

			// verify against what the extracting side will compute
			d.luma.Block(bx, by, &px)
			dct.Forward(&px, &check)
			if dct.Bit(&check, idx) == bit {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: block (%d,%d) coefficient %d", ErrEmbedFailed, bx, by, idx)
}

// parityCandidates lists quantized values with the wanted parity, nearest
// to the real quantized value v first.
func parityCandidates(v float64, bit uint8) []int {
	base := int(math.Round(v))
	out := make([]int, 0, 2*maxParityShift)
	for shift := 0; shift <= maxParityShift; shift++ {
		for _, c := range []int{base - shift, base + shift} {
			if uint8(c&1) != bit || slices.Contains(out, c) {
				continue
			}
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b int) int {
		return cmp.Compare(math.Abs(float64(a)-v), math.Abs(float64(b)-v))
	})
	return out
}
