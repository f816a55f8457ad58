package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzipRoundTrip(t *testing.T) {
	c := NewGzipCompressor()
	original := bytes.Repeat([]byte("This is a secret message that repeats. "), 200)

	packed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(original)/10)

	restored, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestGzipEmpty(t *testing.T) {
	c := NewGzipCompressor()
	packed, err := c.Compress(nil)
	require.NoError(t, err)
	restored, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Empty(t, restored)
}

func TestGzipRejectsGarbage(t *testing.T) {
	_, err := NewGzipCompressor().Decompress([]byte("definitely not gzip"))
	assert.Error(t, err)
}

func TestGzipLimit(t *testing.T) {
	packed, err := NewGzipCompressor().Compress(make([]byte, 4096))
	require.NoError(t, err)

	g := NewGzipCompressor()
	g.limit = 4095
	_, err = g.Decompress(packed)
	assert.ErrorIs(t, err, ErrTooLarge)

	g.limit = 4096
	out, err := g.Decompress(packed)
	require.NoError(t, err)
	assert.Len(t, out, 4096)
}

func TestGzipTruncatedStream(t *testing.T) {
	packed, err := NewGzipCompressor().Compress(bytes.Repeat([]byte("abc"), 1000))
	require.NoError(t, err)
	_, err = NewGzipCompressor().Decompress(packed[:len(packed)/2])
	assert.Error(t, err)
}
