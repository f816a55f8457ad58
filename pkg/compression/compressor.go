// Package compression shrinks payloads before they are framed into a
// carrier.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// DefaultLimit caps how far a payload may inflate on extract.
const DefaultLimit = 1 << 30

// ErrTooLarge is returned when a stream inflates past the limit.
var ErrTooLarge = errors.New("decompressed payload exceeds limit")

// Compressor defines the contract for data compression
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// GzipCompressor is a gzip codec tuned for size, since every byte saved is
// carrier space saved.
type GzipCompressor struct {
	level int
	limit int64
}

func NewGzipCompressor() *GzipCompressor {
	return &GzipCompressor{level: gzip.BestCompression, limit: DefaultLimit}
}

func (g *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, g.level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not a gzip stream: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, g.limit+1))
	if err != nil {
		return nil, fmt.Errorf("corrupt gzip stream: %w", err)
	}
	if int64(len(out)) > g.limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, g.limit)
	}
	return out, nil
}
