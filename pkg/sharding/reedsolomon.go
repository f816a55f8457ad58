package sharding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/reedsolomon"
)

// Default layout: any 2 of 6 shards may be damaged.
const (
	DefaultTotal     = 6
	DefaultThreshold = 4
)

// metaLen is length(4) | total(1) | threshold(1) | crc(4)
const metaLen = 10

// ErrUnrecoverable is returned when too many shards are damaged.
var ErrUnrecoverable = errors.New("redundant payload damaged beyond repair")

// Shard represents a single fragment of the protected payload
type Shard struct {
	Index int    // 0-based index
	Data  []byte // shard content, without checksum
}

// Splitter handles erasure coding (Reed-Solomon)
type Splitter struct {
	Total     int
	Threshold int
}

func NewSplitter(total, threshold int) (*Splitter, error) {
	if threshold < 1 || threshold >= total {
		return nil, fmt.Errorf("threshold %d must be between 1 and total shards %d minus one", threshold, total)
	}
	if total > 255 {
		return nil, fmt.Errorf("total shards %d exceeds 255", total)
	}
	return &Splitter{
		Total:     total,
		Threshold: threshold,
	}, nil
}

// Split cuts data into Threshold data shards and adds Total-Threshold
// parity shards. Data is zero padded to a multiple of the shard size.
func (s *Splitter) Split(data []byte) ([]Shard, error) {
	enc, err := reedsolomon.New(s.Threshold, s.Total-s.Threshold)
	if err != nil {
		return nil, err
	}

	size := max(1, (len(data)+s.Threshold-1)/s.Threshold)
	raw := make([][]byte, s.Total)
	for i := range raw {
		raw[i] = make([]byte, size)
		if i < s.Threshold && i*size < len(data) {
			copy(raw[i], data[i*size:])
		}
	}

	// Generate parity shards
	if err := enc.Encode(raw); err != nil {
		return nil, err
	}

	shards := make([]Shard, s.Total)
	for i, d := range raw {
		shards[i] = Shard{Index: i, Data: d}
	}
	return shards, nil
}

// Join rebuilds the original data from the available shards. Missing
// entries are nil. originalSize strips the padding.
func (s *Splitter) Join(shards [][]byte, originalSize int) ([]byte, error) {
	enc, err := reedsolomon.New(s.Threshold, s.Total-s.Threshold)
	if err != nil {
		return nil, err
	}
	if len(shards) != s.Total {
		return nil, fmt.Errorf("expected %d shard slots, got %d", s.Total, len(shards))
	}

	valid := 0
	for _, sh := range shards {
		if sh != nil {
			valid++
		}
	}
	if valid < s.Threshold {
		return nil, fmt.Errorf("%w: have %d shards, need %d", ErrUnrecoverable, valid, s.Threshold)
	}

	// Reconstruct the missing data shards
	if err := enc.ReconstructData(shards); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecoverable, err)
	}

	joined := make([]byte, 0, len(shards[0])*s.Threshold)
	for i := 0; i < s.Threshold; i++ {
		joined = append(joined, shards[i]...)
	}
	if len(joined) < originalSize {
		return nil, fmt.Errorf("%w: reconstructed data shorter than expected size", ErrUnrecoverable)
	}
	return joined[:originalSize], nil
}

// Protect encodes data into a self-describing block: a checksummed meta
// record followed by every shard with its own CRC-32, so damaged shards can
// be told apart from good ones on the way back.
func (s *Splitter) Protect(data []byte) ([]byte, error) {
	shards, err := s.Split(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, metaLen+len(shards)*(4+len(shards[0].Data)))
	out = binary.BigEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, uint8(s.Total), uint8(s.Threshold))
	out = binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out))
	for _, sh := range shards {
		out = binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(sh.Data))
		out = append(out, sh.Data...)
	}
	return out, nil
}

// Recover reverses Protect, dropping shards whose checksum fails and
// rebuilding them from the rest.
func Recover(block []byte) ([]byte, error) {
	if len(block) < metaLen {
		return nil, fmt.Errorf("%w: block too short", ErrUnrecoverable)
	}
	meta := block[:metaLen]
	if crc32.ChecksumIEEE(meta[:6]) != binary.BigEndian.Uint32(meta[6:]) {
		return nil, fmt.Errorf("%w: meta record damaged", ErrUnrecoverable)
	}
	size := int(binary.BigEndian.Uint32(meta[0:4]))
	s, err := NewSplitter(int(meta[4]), int(meta[5]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnrecoverable, err)
	}

	body := block[metaLen:]
	if len(body)%s.Total != 0 || len(body)/s.Total <= 4 {
		return nil, fmt.Errorf("%w: body of %d bytes does not fit %d shards", ErrUnrecoverable, len(body), s.Total)
	}
	stride := len(body) / s.Total

	shards := make([][]byte, s.Total)
	for i := range shards {
		rec := body[i*stride : (i+1)*stride]
		data := rec[4:]
		if crc32.ChecksumIEEE(data) == binary.BigEndian.Uint32(rec[:4]) {
			shards[i] = append([]byte(nil), data...)
		}
	}
	return s.Join(shards, size)
}
