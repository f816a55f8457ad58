package carrier

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/Beastly713/stegano/pkg/dct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadDimensions(t *testing.T) {
	_, err := New(0, 4, 3)
	assert.ErrorIs(t, err, ErrInvalidCarrier)
	_, err = New(4, 4, 5)
	assert.ErrorIs(t, err, ErrInvalidCarrier)
	_, err = NewGray(2, 2, []uint8{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidCarrier)
}

func TestImageRoundTripKeepsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	c, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Channels)
	assert.Equal(t, uint8(20), c.At(0, 0, 1))
	assert.Equal(t, uint8(50), c.At(2, 1, 2))

	out := c.ToImage().(*image.NRGBA)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, out.NRGBAAt(2, 1))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, out.NRGBAAt(0, 0))
}

func TestEncodeDecodeLossless(t *testing.T) {
	c, err := Random(9, 7, 3)
	require.NoError(t, err)

	for _, name := range []string{"out.png", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, name))

			back, _, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, c.Pix, back.Pix)
		})
	}
}

func TestGrayImagesStayGray(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 7, 7))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 9)
	}
	c, err := FromImage(src)
	require.NoError(t, err)
	require.Equal(t, 1, c.Channels)
	assert.Equal(t, src.Pix, c.Pix)

	for _, name := range []string{"out.png", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, c.Encode(&buf, name))

			back, _, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, 1, back.Channels)
			assert.Equal(t, c.Pix, back.Pix)
		})
	}

	colored := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Gray{Y: 3}, color.RGBA{R: 9, A: 255}})
	c, err = FromImage(colored)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Channels)
}

func TestCloneIsDeep(t *testing.T) {
	c, err := Random(4, 4, 3)
	require.NoError(t, err)
	d := c.Clone()
	d.Pix[0] ^= 0xff
	assert.NotEqual(t, c.Pix[0], d.Pix[0])
}

func TestLumaTruncatesToBlocks(t *testing.T) {
	c, err := New(21, 17, 1)
	require.NoError(t, err)
	l, err := NewLuma(c)
	require.NoError(t, err)
	assert.Equal(t, 16, l.Width)
	assert.Equal(t, 16, l.Height)
	assert.Equal(t, 2, l.BlocksX())
	assert.Equal(t, 2, l.BlocksY())

	small, _ := New(7, 30, 3)
	_, err = NewLuma(small)
	assert.ErrorIs(t, err, ErrInvalidCarrier)
}

func TestLumaWriteThroughMatchesFreshDerivation(t *testing.T) {
	c, err := New(16, 16, 3)
	require.NoError(t, err)
	for i := range c.Pix {
		c.Pix[i] = uint8(60 + (i*37)%120)
	}

	l, err := NewLuma(c)
	require.NoError(t, err)

	var blk dct.Block
	l.Block(1, 0, &blk)
	for i := range blk {
		blk[i] += 7
	}
	l.SetBlock(1, 0, &blk)

	fresh, err := NewLuma(c)
	require.NoError(t, err)
	assert.Equal(t, fresh.Y, l.Y)
}

func TestLumaGrayWritesChannelZero(t *testing.T) {
	pix := make([]uint8, 8*8)
	for i := range pix {
		pix[i] = 100
	}
	c, err := NewGray(8, 8, pix)
	require.NoError(t, err)
	l, err := NewLuma(c)
	require.NoError(t, err)

	var blk dct.Block
	l.Block(0, 0, &blk)
	assert.Equal(t, -28.0, blk[0])

	blk[5] = 500 // clamps
	l.SetBlock(0, 0, &blk)
	assert.Equal(t, uint8(255), c.At(5, 0, 0))
	assert.Equal(t, 255, l.Y[5])
}

func TestLumaDesaturate(t *testing.T) {
	c, err := New(8, 8, 3)
	require.NoError(t, err)
	for i := 0; i < len(c.Pix); i += 3 {
		c.Pix[i] = 255
	}
	l, err := NewLuma(c)
	require.NoError(t, err)

	var blk dct.Block
	l.Block(0, 0, &blk)
	l.Desaturate(0, 0, 0)
	l.SetBlock(0, 0, &blk)

	r, g, b := c.At(3, 3, 0), c.At(3, 3, 1), c.At(3, 3, 2)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	fresh, err := NewLuma(c)
	require.NoError(t, err)
	assert.Equal(t, fresh.Y, l.Y)
}

func TestSquareFor(t *testing.T) {
	assert.Equal(t, 1, SquareFor(0))
	assert.Equal(t, 4, SquareFor(16))
	assert.Equal(t, 5, SquareFor(17))
}
