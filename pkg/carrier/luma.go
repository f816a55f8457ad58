package carrier

import (
	"fmt"
	"math"

	"github.com/Beastly713/stegano/pkg/dct"
)

// Luma is the luminance-only view of a carrier used by the transform codec.
// Its dimensions are rounded down to a multiple of the block size. Writing a
// block pushes the new luminance back into the carrier samples, keeping the
// pixel's chrominance, and then re-derives Y from the stored samples so the
// plane always matches what NewLuma would compute on the result.
type Luma struct {
	Width  int
	Height int
	Y      []int

	c *Carrier
	// chrominance per pixel of the truncated region, RGB carriers only
	u, v []float64
}

// NewLuma derives the luminance plane of c.
func NewLuma(c *Carrier) (*Luma, error) {
	w := c.Width - c.Width%dct.N
	h := c.Height - c.Height%dct.N
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: %dx%d is smaller than one %dx%d block", ErrInvalidCarrier, c.Width, c.Height, dct.N, dct.N)
	}

	l := &Luma{
		Width:  w,
		Height: h,
		Y:      make([]int, w*h),
		c:      c,
	}
	color := c.Channels >= 3
	if color {
		l.u = make([]float64, w*h)
		l.v = make([]float64, w*h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !color {
				l.Y[i] = int(c.At(x, y, 0))
				continue
			}
			r, g, b := c.rgb(x, y)
			l.Y[i] = lumaOf(r, g, b)
			l.u[i] = -0.148*r - 0.291*g + 0.439*b + 128
			l.v[i] = 0.439*r - 0.368*g - 0.071*b + 128
		}
	}
	return l, nil
}

// BlocksX is the number of blocks across.
func (l *Luma) BlocksX() int { return l.Width / dct.N }

// BlocksY is the number of blocks down.
func (l *Luma) BlocksY() int { return l.Height / dct.N }

// Block loads block (bx, by) level shifted by -128.
func (l *Luma) Block(bx, by int, dst *dct.Block) {
	for j := 0; j < dct.N; j++ {
		row := (by*dct.N + j) * l.Width
		for i := 0; i < dct.N; i++ {
			dst[j*dct.N+i] = float64(l.Y[row+bx*dct.N+i]) - 128
		}
	}
}

// SetBlock stores a level shifted block, rounding and clamping to [0,255],
// and writes it through to the carrier.
func (l *Luma) SetBlock(bx, by int, src *dct.Block) {
	for j := 0; j < dct.N; j++ {
		y := by*dct.N + j
		for i := 0; i < dct.N; i++ {
			x := bx*dct.N + i
			l.store(x, y, clampRound(src[j*dct.N+i]+128))
		}
	}
}

// Desaturate pulls the chrominance of block (bx, by) toward neutral by
// factor f, so 0 leaves grey. Samples change on the next SetBlock. It is a
// no-op on gray carriers.
func (l *Luma) Desaturate(bx, by int, f float64) {
	if l.u == nil {
		return
	}
	for j := 0; j < dct.N; j++ {
		row := (by*dct.N + j) * l.Width
		for i := 0; i < dct.N; i++ {
			k := row + bx*dct.N + i
			l.u[k] = 128 + (l.u[k]-128)*f
			l.v[k] = 128 + (l.v[k]-128)*f
		}
	}
}

func (l *Luma) store(x, y, lum int) {
	i := y*l.Width + x
	if l.u == nil {
		l.c.Set(x, y, 0, uint8(lum))
		l.Y[i] = lum
		return
	}

	yy := 1.164 * (float64(lum) - 16)
	u := l.u[i] - 128
	v := l.v[i] - 128
	r := clampRound(yy + 1.596*v)
	g := clampRound(yy - 0.813*v - 0.391*u)
	b := clampRound(yy + 2.018*u)

	off := l.c.Offset(x, y, 0)
	l.c.Pix[off] = uint8(r)
	l.c.Pix[off+1] = uint8(g)
	l.c.Pix[off+2] = uint8(b)
	l.Y[i] = lumaOf(float64(r), float64(g), float64(b))
}

func (c *Carrier) rgb(x, y int) (float64, float64, float64) {
	off := c.Offset(x, y, 0)
	return float64(c.Pix[off]), float64(c.Pix[off+1]), float64(c.Pix[off+2])
}

func lumaOf(r, g, b float64) int {
	return clampRound(0.257*r + 0.504*g + 0.098*b + 16)
}

func clampRound(f float64) int {
	v := int(math.Round(f))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
