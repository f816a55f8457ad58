package stego

import (
	"errors"
	"fmt"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/selector"
)

// LSB hides bits in the k low bits of pixel channels. Pixels are visited in
// selector order; inside a pixel, slot s uses channel s/k and bit s%k, so a
// pixel holds channels*k bits before the next one is drawn.
type LSB struct {
	c     *carrier.Carrier
	sel   *selector.Selector
	width int

	x, y int
	slot int // next slot in the current pixel; -1 when none is open
	used int // pixels drawn so far
}

// NewLSB creates an LSB session over c.
func NewLSB(c *carrier.Carrier, password string) *LSB {
	return &LSB{
		c:     c,
		sel:   selector.New(password),
		width: DefaultBitsPerChannel,
		slot:  -1,
	}
}

func (l *LSB) Groups() int { return l.c.Pixels() }

func (l *LSB) GroupBits(width int) int { return l.c.Channels * width }

func (l *LSB) SetWidth(width int) error {
	if err := ValidateWidth(width); err != nil {
		return err
	}
	l.width = width
	l.slot = -1
	return nil
}

// advance opens a new pixel when the current one is full.
func (l *LSB) advance() error {
	if l.slot >= 0 && l.slot < l.GroupBits(l.width) {
		return nil
	}
	if l.used >= l.Groups() {
		return errNoGroup
	}
	x, y, err := l.sel.Next(l.c.Width, l.c.Height)
	if err != nil {
		if errors.Is(err, selector.ErrExhausted) {
			return errNoGroup
		}
		return err
	}
	l.x, l.y = x, y
	l.slot = 0
	l.used++
	return nil
}

func (l *LSB) WriteBit(bit uint8) error {
	if err := l.advance(); err != nil {
		if errors.Is(err, errNoGroup) {
			return fmt.Errorf("%w: all %d pixels used", ErrCapacityExceeded, l.Groups())
		}
		return err
	}
	ch, pos := l.slot/l.width, uint(l.slot%l.width)
	v := l.c.At(l.x, l.y, ch)
	v = v&^(1<<pos) | (bit&1)<<pos
	l.c.Set(l.x, l.y, ch, v)
	l.slot++
	return nil
}

func (l *LSB) ReadBit() (uint8, error) {
	if err := l.advance(); err != nil {
		if errors.Is(err, errNoGroup) {
			return 0, fmt.Errorf("%w: all %d pixels used", ErrTruncatedRead, l.Groups())
		}
		return 0, err
	}
	ch, pos := l.slot/l.width, uint(l.slot%l.width)
	bit := (l.c.At(l.x, l.y, ch) >> pos) & 1
	l.slot++
	return bit, nil
}

var errNoGroup = errors.New("no group left")
