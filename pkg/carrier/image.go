package carrier

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG covers are accepted as input
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// FromImage copies img into a carrier. Grayscale images, including the
// 8-bit palettes BMP uses for them, give a single-channel carrier; anything
// else becomes 3-channel RGB. Alpha is kept aside so ToImage can restore it,
// but it never carries payload bits.
func FromImage(img image.Image) (*Carrier, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if pix, ok := grayPixels(img); ok {
		return NewGray(width, height, pix)
	}

	c, err := New(width, height, 3)
	if err != nil {
		return nil, err
	}

	opaque := true
	alpha := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := c.Offset(x, y, 0)
			c.Pix[off] = px.R
			c.Pix[off+1] = px.G
			c.Pix[off+2] = px.B
			alpha[y*width+x] = px.A
			if px.A != 0xff {
				opaque = false
			}
		}
	}
	if !opaque {
		c.alpha = alpha
	}
	return c, nil
}

// grayPixels returns the samples of img when every pixel is an opaque grey.
func grayPixels(img image.Image) ([]uint8, bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, 0, width*height)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			row := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			pix = append(pix, src.Pix[row:row+width]...)
		}
		return pix, true
	case *image.Paletted:
		levels := make([]uint8, len(src.Palette))
		for i, entry := range src.Palette {
			r, g, b, a := entry.RGBA()
			if r != g || g != b || a != 0xffff {
				return nil, false
			}
			levels[i] = uint8(r >> 8)
		}
		for y := 0; y < height; y++ {
			row := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for _, idx := range src.Pix[row : row+width] {
				if int(idx) >= len(levels) {
					return nil, false
				}
				pix = append(pix, levels[idx])
			}
		}
		return pix, true
	}
	return nil, false
}

// ToImage renders the carrier. Single-channel carriers become *image.Gray,
// everything else *image.NRGBA.
func (c *Carrier) ToImage() image.Image {
	rect := image.Rect(0, 0, c.Width, c.Height)
	if c.Channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, c.Pix)
		return g
	}

	out := image.NewNRGBA(rect)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			off := c.Offset(x, y, 0)
			px := color.NRGBA{A: 0xff}
			switch c.Channels {
			case 2:
				px.R, px.G, px.B, px.A = c.Pix[off], c.Pix[off], c.Pix[off], c.Pix[off+1]
			case 3:
				px.R, px.G, px.B = c.Pix[off], c.Pix[off+1], c.Pix[off+2]
			case 4:
				px.R, px.G, px.B, px.A = c.Pix[off], c.Pix[off+1], c.Pix[off+2], c.Pix[off+3]
			}
			if c.alpha != nil {
				px.A = c.alpha[y*c.Width+x]
			}
			out.SetNRGBA(x, y, px)
		}
	}
	return out
}

// Decode reads a PNG, BMP or JPEG cover.
func Decode(r io.Reader) (*Carrier, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	c, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return c, format, nil
}

// Encode writes the carrier losslessly. The format is picked from the file
// name extension; anything that is not .bmp is written as PNG, since lossy
// output would destroy the hidden bits.
func (c *Carrier) Encode(w io.Writer, name string) error {
	img := c.ToImage()
	if strings.EqualFold(filepath.Ext(name), ".bmp") {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

// Supported reports whether the file name has an extension the CLI can
// read a cover from.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".bmp", ".jpg", ".jpeg":
		return true
	}
	return false
}
