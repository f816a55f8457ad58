package selector

import (
	"errors"
	"testing"

	"github.com/Beastly713/stegano/pkg/dct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	a1, a2 := Seed("hunter2")
	b1, b2 := Seed("hunter2")
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)

	c1, c2 := Seed("hunter3")
	assert.False(t, a1 == c1 && a2 == c2, "different passwords must give different seeds")

	d1, d2 := Seed("")
	assert.Equal(t, DefaultSeed[0], d1)
	assert.Equal(t, DefaultSeed[1], d2)
}

func TestDeterminism(t *testing.T) {
	bounds := [][2]int{{10, 10}, {10, 10}, {7, 3}, {10, 10}, {5, 20}, {10, 10}}

	a := New("correct horse")
	b := New("correct horse")
	for i := 0; i < 40; i++ {
		bx, by := bounds[i%len(bounds)][0], bounds[i%len(bounds)][1]
		ax, ay, err := a.Next(bx, by)
		require.NoError(t, err)
		cx, cy, err := b.Next(bx, by)
		require.NoError(t, err)
		require.Equal(t, [2]int{ax, ay}, [2]int{cx, cy}, "draw %d", i)
		require.Equal(t, a.Coefficient(), b.Coefficient())
	}
}

func TestPasswordChangesSequence(t *testing.T) {
	a := New("alpha")
	b := New("bravo")
	same := 0
	for i := 0; i < 50; i++ {
		ax, ay, _ := a.Next(64, 64)
		bx, by, _ := b.Next(64, 64)
		if ax == bx && ay == by {
			same++
		}
	}
	assert.Less(t, same, 10)
}

func TestUniquenessUpToCapacity(t *testing.T) {
	const w, h = 13, 9
	s := New("unique")
	seen := make(map[[2]int]bool)
	for i := 0; i < w*h; i++ {
		x, y, err := s.Next(w, h)
		require.NoError(t, err)
		require.True(t, x >= 0 && x < w && y >= 0 && y < h)
		require.False(t, seen[[2]int{x, y}], "coordinate (%d,%d) returned twice", x, y)
		seen[[2]int{x, y}] = true
		require.True(t, s.visited.has(x, y))
	}
	assert.Equal(t, w*h, s.Visited())

	_, _, err := s.Next(w, h)
	assert.True(t, errors.Is(err, ErrExhausted))
}

func TestExhaustionRespectsBounds(t *testing.T) {
	s := New("")
	for i := 0; i < 4; i++ {
		_, _, err := s.Next(2, 2)
		require.NoError(t, err)
	}
	_, _, err := s.Next(2, 2)
	require.ErrorIs(t, err, ErrExhausted)

	// a wider window still has room
	x, _, err := s.Next(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, x)
}

func TestBadBounds(t *testing.T) {
	s := New("x")
	_, _, err := s.Next(0, 5)
	assert.ErrorIs(t, err, ErrBounds)
}

func TestCoefficientIsMidFrequency(t *testing.T) {
	s := New("coefficients")
	hits := make(map[int]int)
	for i := 0; i < 20000; i++ {
		idx := s.Coefficient()
		require.NotEqual(t, 0, idx)
		require.NotEqual(t, dct.N*dct.N-1, idx)
		require.True(t, dct.IsMidFrequency(idx), "index %d", idx)
		hits[idx]++
	}
	// every mid-band index is reachable
	assert.Len(t, hits, 48)
}
