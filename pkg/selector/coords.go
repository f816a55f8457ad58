package selector

// coordSet is a set of (x, y) pairs packed into one uint64 key.
type coordSet map[uint64]struct{}

func pack(x, y int) uint64 {
	return uint64(uint32(x))<<32 | uint64(uint32(y))
}

// add inserts the pair and reports whether it was new.
func (c coordSet) add(x, y int) bool {
	k := pack(x, y)
	if _, ok := c[k]; ok {
		return false
	}
	c[k] = struct{}{}
	return true
}

func (c coordSet) has(x, y int) bool {
	_, ok := c[pack(x, y)]
	return ok
}

// full reports whether every pair inside the bounds is present. Bounds may
// change between calls, so only pairs that fall inside them are counted.
func (c coordSet) full(boundX, boundY int) bool {
	area := boundX * boundY
	if len(c) < area {
		return false
	}
	inside := 0
	for k := range c {
		x, y := int(k>>32), int(uint32(k))
		if x < boundX && y < boundY {
			inside++
		}
	}
	return inside >= area
}
