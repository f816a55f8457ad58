package pipeline

import (
	"github.com/Beastly713/stegano/pkg/compression"
	"github.com/Beastly713/stegano/pkg/crypto/encryptor"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/sharding"
)

// Filter is a reversible payload transform applied before framing.
type Filter interface {
	Name() string
	Forward(data []byte) ([]byte, error)
	Inverse(data []byte) ([]byte, error)
}

// stage pairs a filter with the header flag that records its use.
type stage struct {
	flag   uint8
	filter Filter
}

// stages returns every filter in embedding order. Extraction runs the
// inverses back to front.
func stages(password string) []stage {
	return []stage{
		{format.FlagCompressed, compressFilter{compression.NewGzipCompressor()}},
		{format.FlagEncrypted, encryptFilter{password}},
		{format.FlagRedundant, redundancyFilter{sharding.DefaultTotal, sharding.DefaultThreshold}},
	}
}

type compressFilter struct {
	c compression.Compressor
}

func (compressFilter) Name() string { return "compression" }

func (f compressFilter) Forward(data []byte) ([]byte, error) { return f.c.Compress(data) }

func (f compressFilter) Inverse(data []byte) ([]byte, error) { return f.c.Decompress(data) }

type encryptFilter struct {
	password string
}

func (encryptFilter) Name() string { return "encryption" }

func (f encryptFilter) Forward(data []byte) ([]byte, error) {
	return encryptor.EncryptWithPassword(data, f.password)
}

func (f encryptFilter) Inverse(data []byte) ([]byte, error) {
	return encryptor.DecryptWithPassword(data, f.password)
}

type redundancyFilter struct {
	total, threshold int
}

func (redundancyFilter) Name() string { return "redundancy" }

func (f redundancyFilter) Forward(data []byte) ([]byte, error) {
	s, err := sharding.NewSplitter(f.total, f.threshold)
	if err != nil {
		return nil, err
	}
	return s.Protect(data)
}

// Inverse reads the shard layout from the data itself.
func (redundancyFilter) Inverse(data []byte) ([]byte, error) {
	return sharding.Recover(data)
}
