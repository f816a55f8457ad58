package dct

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardInverseRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	var src, coef, back Block
	for i := range src {
		src[i] = float64(r.IntN(256)) - 128
	}

	Forward(&src, &coef)
	Inverse(&coef, &back)

	for i := range src {
		assert.InDelta(t, src[i], back[i], 1e-9, "sample %d", i)
	}
}

func TestForwardFlatBlockIsDCOnly(t *testing.T) {
	var src, coef Block
	for i := range src {
		src[i] = 10
	}
	Forward(&src, &coef)

	// orthonormal scaling: DC = 8 * mean
	assert.InDelta(t, 80.0, coef[0], 1e-9)
	for i := 1; i < len(coef); i++ {
		assert.InDelta(t, 0.0, coef[i], 1e-9, "coefficient %d", i)
	}
}

func TestForwardPreservesEnergy(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	var src, coef Block
	var inEnergy, outEnergy float64
	for i := range src {
		src[i] = r.Float64()*255 - 128
		inEnergy += src[i] * src[i]
	}
	Forward(&src, &coef)
	for _, c := range coef {
		outEnergy += c * c
	}
	assert.InDelta(t, inEnergy, outEnergy, 1e-6)
}

func TestQuantizedAndBit(t *testing.T) {
	var b Block
	idx := 2*N + 3 // Q = 24
	b[idx] = 24*5 + 11
	assert.Equal(t, 5, Quantized(&b, idx))
	assert.Equal(t, uint8(1), Bit(&b, idx))

	b[idx] = -24 * 3
	assert.Equal(t, -3, Quantized(&b, idx))
	assert.Equal(t, uint8(1), Bit(&b, idx))

	b[idx] = -24 * 4
	assert.Equal(t, uint8(0), Bit(&b, idx))
}

func TestIsMidFrequency(t *testing.T) {
	assert.False(t, IsMidFrequency(0))
	assert.False(t, IsMidFrequency(1))
	assert.False(t, IsMidFrequency(N))
	assert.False(t, IsMidFrequency(N*N-1))
	assert.True(t, IsMidFrequency(3))
	assert.True(t, IsMidFrequency(2*N+2))

	count := 0
	for i := 0; i < N*N; i++ {
		if IsMidFrequency(i) {
			count++
			assert.Greater(t, Luminance[i], 0.0)
		}
	}
	assert.Equal(t, 48, count)
}
