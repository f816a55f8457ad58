// Package selector decides which carrier position holds each embedded bit.
//
// A Selector is a password-seeded PRNG plus the set of coordinates it has
// already handed out. Two selectors built from the same password and asked
// for the same bounds produce the same sequence, which is what lets the
// extracting side find the bits again.
package selector

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Beastly713/stegano/pkg/dct"
)

// DefaultSeed is used when no password is given.
var DefaultSeed = [2]uint64{0x4f53544547000001, 0x9e3779b97f4a7c15}

// ErrExhausted is returned when every coordinate inside the requested
// bounds has already been handed out.
var ErrExhausted = errors.New("selector exhausted: no unvisited coordinate left")

// ErrBounds indicates non-positive bounds.
var ErrBounds = errors.New("selector bounds must be positive")

// Seed hashes a password into the two PCG seed words.
func Seed(password string) (uint64, uint64) {
	if password == "" {
		return DefaultSeed[0], DefaultSeed[1]
	}
	sum := sha256.Sum256([]byte(password))
	return binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])
}

// Selector hands out unique (x, y) coordinates in a password-determined order.
// It is owned by exactly one embed or extract session.
type Selector struct {
	rng     *rand.Rand
	visited coordSet
}

// New creates a selector seeded from the password.
func New(password string) *Selector {
	s1, s2 := Seed(password)
	return &Selector{
		rng:     rand.New(rand.NewPCG(s1, s2)),
		visited: make(coordSet),
	}
}

// Next returns a coordinate in [0,boundX) x [0,boundY) that this selector
// has not returned before.
func (s *Selector) Next(boundX, boundY int) (int, int, error) {
	if boundX <= 0 || boundY <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrBounds, boundX, boundY)
	}
	if s.visited.full(boundX, boundY) {
		return 0, 0, ErrExhausted
	}

	for {
		x := s.rng.IntN(boundX)
		y := s.rng.IntN(boundY)
		if s.visited.add(x, y) {
			return x, y, nil
		}
	}
}

// Coefficient draws a mid-frequency coefficient index of an 8x8 block.
// Index 0 (DC) and the last index are never produced.
func (s *Selector) Coefficient() int {
	for {
		idx := s.rng.IntN(dct.N*dct.N-2) + 1
		if dct.IsMidFrequency(idx) {
			return idx
		}
	}
}

// Visited returns the number of distinct coordinates handed out so far.
func (s *Selector) Visited() int {
	return len(s.visited)
}
