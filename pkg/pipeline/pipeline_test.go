package pipeline

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/crypto/encryptor"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/stego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cover(t *testing.T, w, h, ch int) *carrier.Carrier {
	t.Helper()
	c, err := carrier.New(w, h, ch)
	require.NoError(t, err)
	r := rand.New(rand.NewPCG(uint64(w), uint64(h*ch)))
	for i := range c.Pix {
		c.Pix[i] = uint8(r.UintN(256))
	}
	return c
}

func randomBytes(n int) []byte {
	r := rand.New(rand.NewPCG(uint64(n), 7))
	out := make([]byte, n)
	for i := range out {
		out[i] = uint8(r.UintN(256))
	}
	return out
}

func plain(alg stego.Algorithm, password string, bits int) Config {
	return Config{Algorithm: alg, Password: password, BitsPerChannel: bits}
}

func TestRoundTripFilters(t *testing.T) {
	text := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"plain", Config{}},
		{"compressed", Config{Compress: true}},
		{"encrypted", Config{Encrypt: true}},
		{"redundant", Config{Redundancy: true}},
		{"all", Config{Compress: true, Encrypt: true, Redundancy: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			cfg.Algorithm = stego.AlgorithmLSB
			cfg.Password = "hunter2"
			cfg.BitsPerChannel = 3
			cfg.Filename = "fox.txt"

			work := cover(t, 64, 64, 3)
			codec, err := stego.New(cfg.Algorithm, work, cfg.Password)
			require.NoError(t, err)
			header, err := Embed(codec, text, cfg)
			require.NoError(t, err)
			assert.Equal(t, cfg.Compress, header.Compressed())
			assert.Equal(t, cfg.Encrypt, header.Encrypted())
			assert.Equal(t, cfg.Redundancy, header.Redundant())

			codec, err = stego.New(cfg.Algorithm, work, cfg.Password)
			require.NoError(t, err)
			res, err := Extract(codec, Config{Password: cfg.Password})
			require.NoError(t, err)
			assert.Equal(t, text, res.Data)
			assert.Equal(t, "fox.txt", res.Header.Filename)
			assert.Equal(t, uint8(3), res.Header.BitsPerChannel)
		})
	}
}

func TestRoundTripDCT(t *testing.T) {
	for _, ch := range []int{1, 3} {
		t.Run(map[int]string{1: "gray", 3: "rgb"}[ch], func(t *testing.T) {
			t.Parallel()
			cfg := plain(stego.AlgorithmDCT, "blocks", 1)
			cfg.Encrypt = true
			cfg.Filename = "a.txt"

			work := cover(t, 320, 320, ch)
			out, header, err := EmbedCarrier(work, []byte("secret"), cfg)
			require.NoError(t, err)
			assert.True(t, header.Encrypted())

			res, err := ExtractCarrier(out, Config{Algorithm: stego.AlgorithmDCT, Password: "blocks"})
			require.NoError(t, err)
			assert.Equal(t, []byte("secret"), res.Data)
			assert.Equal(t, "a.txt", res.Header.Filename)
		})
	}
}

func TestIncompressiblePayloadClearsFlag(t *testing.T) {
	cfg := plain(stego.AlgorithmLSB, "", 2)
	cfg.Compress = true
	payload := randomBytes(64)

	work := cover(t, 48, 48, 3)
	_, header, err := EmbedCarrier(work, payload, cfg)
	require.NoError(t, err)
	assert.False(t, header.Compressed())
	assert.Equal(t, uint32(len(payload)), header.DataLength)
}

func TestEmbedCarrierLeavesCoverUntouched(t *testing.T) {
	c := cover(t, 32, 32, 3)
	orig := c.Clone()
	out, _, err := EmbedCarrier(c, []byte("payload"), plain(stego.AlgorithmLSB, "pw", 2))
	require.NoError(t, err)
	assert.Equal(t, orig.Pix, c.Pix)
	assert.NotEqual(t, c.Pix, out.Pix)
}

func TestLSBCapacityBoundary(t *testing.T) {
	cfg := plain(stego.AlgorithmLSB, "edge", 3)

	sized, err := stego.New(cfg.Algorithm, cover(t, 20, 20, 3), cfg.Password)
	require.NoError(t, err)
	limit, err := MaxPayload(sized, cfg)
	require.NoError(t, err)
	// 400 pixels, 35 for the header, 365 * 9 bits for the body
	require.Equal(t, 410, limit)

	work := cover(t, 20, 20, 3)
	codec, _ := stego.New(cfg.Algorithm, work, cfg.Password)
	_, err = Embed(codec, randomBytes(limit), cfg)
	require.NoError(t, err)

	codec, _ = stego.New(cfg.Algorithm, work, cfg.Password)
	res, err := Extract(codec, cfg)
	require.NoError(t, err)
	assert.Equal(t, randomBytes(limit), res.Data)

	codec, _ = stego.New(cfg.Algorithm, cover(t, 20, 20, 3), cfg.Password)
	_, err = Embed(codec, randomBytes(limit+1), cfg)
	assert.ErrorIs(t, err, stego.ErrCapacityExceeded)
}

func TestDCTCapacityBoundary(t *testing.T) {
	cfg := plain(stego.AlgorithmDCT, "edge", 1)

	// 400 blocks, 104 for the header
	bits, payload, err := Capacity(cover(t, 160, 160, 1), cfg)
	require.NoError(t, err)
	assert.Equal(t, 400, bits)
	assert.Equal(t, 37, payload)

	out, _, err := EmbedCarrier(cover(t, 160, 160, 1), randomBytes(37), cfg)
	require.NoError(t, err)
	res, err := ExtractCarrier(out, cfg)
	require.NoError(t, err)
	assert.Equal(t, randomBytes(37), res.Data)

	_, _, err = EmbedCarrier(cover(t, 160, 160, 1), randomBytes(38), cfg)
	assert.ErrorIs(t, err, stego.ErrCapacityExceeded)
}

func TestHeaderAloneExceedsSmallDCTCarrier(t *testing.T) {
	cfg := plain(stego.AlgorithmDCT, "", 1)
	c := cover(t, 80, 80, 1)

	bits, payload, err := Capacity(c, cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, bits)
	assert.Zero(t, payload)

	_, _, err = EmbedCarrier(c, nil, cfg)
	assert.ErrorIs(t, err, stego.ErrCapacityExceeded)
}

func TestCapacityTinyLSB(t *testing.T) {
	c, err := carrier.New(4, 4, 3)
	require.NoError(t, err)
	bits, payload, err := Capacity(c, plain(stego.AlgorithmLSB, "", 2))
	require.NoError(t, err)
	assert.Equal(t, 96, bits)
	// the 104 bit header needs 35 pixels on its own
	assert.Zero(t, payload)

	_, _, err = Capacity(c, plain(stego.AlgorithmLSB, "", 9))
	assert.ErrorIs(t, err, stego.ErrBitsPerChannel)
}

func TestWrongPassword(t *testing.T) {
	for _, alg := range stego.Algorithms {
		t.Run(string(alg), func(t *testing.T) {
			t.Parallel()
			out, _, err := EmbedCarrier(cover(t, 128, 128, 3), []byte("hi"), plain(alg, "right", 1))
			require.NoError(t, err)

			_, err = ExtractCarrier(out, plain(alg, "wrong", 1))
			assert.ErrorIs(t, err, format.ErrInvalidHeader)
		})
	}
}

func TestCleanCoverHasNoHeader(t *testing.T) {
	_, err := InspectCarrier(cover(t, 64, 64, 3), plain(stego.AlgorithmLSB, "", 1))
	assert.ErrorIs(t, err, format.ErrInvalidHeader)
}

func TestInspectReadsFilenameOnly(t *testing.T) {
	cfg := plain(stego.AlgorithmLSB, "pw", 4)
	cfg.Filename = "plans.pdf"
	cfg.Encrypt = true

	out, _, err := EmbedCarrier(cover(t, 64, 64, 3), randomBytes(200), cfg)
	require.NoError(t, err)

	// no decryption happens, so the password only seeds the traversal
	header, err := InspectCarrier(out, Config{Algorithm: stego.AlgorithmLSB, Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "plans.pdf", header.Filename)
	assert.True(t, header.Encrypted())
	assert.Equal(t, uint8(4), header.BitsPerChannel)
}

func TestTruncatedBody(t *testing.T) {
	work := cover(t, 10, 10, 3)
	codec := stego.NewLSB(work, "")
	h, err := format.NewHeader(1000, "", 1, 0)
	require.NoError(t, err)
	require.NoError(t, format.NewWriter(stego.NewWriter(codec)).Write(h))

	_, err = ExtractCarrier(work, plain(stego.AlgorithmLSB, "", 1))
	assert.ErrorIs(t, err, stego.ErrTruncatedRead)
}

func TestEncryptWithoutPassword(t *testing.T) {
	cfg := plain(stego.AlgorithmLSB, "", 1)
	cfg.Encrypt = true
	_, _, err := EmbedCarrier(cover(t, 64, 64, 3), []byte("x"), cfg)
	assert.ErrorIs(t, err, encryptor.ErrEmptyPassword)
}

func TestRandomCover(t *testing.T) {
	payload := bytes.Repeat([]byte("noise "), 50)
	cfg := plain(stego.AlgorithmLSB, "pw", 2)
	cfg.Filename = "n.txt"

	out, _, err := EmbedCarrier(nil, payload, cfg)
	require.NoError(t, err)
	assert.Equal(t, out.Width, out.Height)
	assert.Equal(t, 3, out.Channels)

	// header 18 bytes: 48 pixels; body 300 bytes at 6 bits per pixel: 400 pixels
	assert.Equal(t, carrier.SquareFor(448), out.Width)

	res, err := ExtractCarrier(out, cfg)
	require.NoError(t, err)
	assert.Equal(t, payload, res.Data)

	_, _, err = EmbedCarrier(nil, payload, plain(stego.AlgorithmDCT, "pw", 1))
	assert.ErrorIs(t, err, ErrCoverRequired)
}

func TestMeasure(t *testing.T) {
	cfg := plain(stego.AlgorithmLSB, "pw", 1)
	cfg.Filename = "f"

	header, n, err := Measure([]byte("abc"), cfg)
	require.NoError(t, err)
	assert.Equal(t, format.FixedLen+1, header.Len())
	assert.Equal(t, 3, n)

	cfg.Encrypt = true
	_, n, err = Measure([]byte("abc"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3+16+12+16, n)

	cfg.Encrypt = false
	cfg.Compress = true
	text := bytes.Repeat([]byte("aaaa"), 500)
	header, n, err = Measure(text, cfg)
	require.NoError(t, err)
	assert.True(t, header.Compressed())
	assert.Less(t, n, len(text))
	assert.Equal(t, uint32(n), header.DataLength)
}

func TestDCTSaturatedCover(t *testing.T) {
	c := cover(t, 256, 256, 3)
	for i := 0; i < 256*64*3; i++ {
		c.Pix[i] = 255
	}

	for i := 0; i < 10; i++ {
		pw := fmt.Sprintf("pw-%d", i)
		out, _, err := EmbedCarrier(c, randomBytes(20), plain(stego.AlgorithmDCT, pw, 1))
		require.NoError(t, err, pw)
		res, err := ExtractCarrier(out, plain(stego.AlgorithmDCT, pw, 1))
		require.NoError(t, err, pw)
		assert.Equal(t, randomBytes(20), res.Data, pw)
	}
}

func TestDetectCarrier(t *testing.T) {
	for _, alg := range stego.Algorithms {
		t.Run(string(alg), func(t *testing.T) {
			t.Parallel()
			cfg := plain(alg, "guess", 1)
			cfg.Filename = "found.txt"
			out, _, err := EmbedCarrier(cover(t, 160, 160, 3), []byte("which one?"), cfg)
			require.NoError(t, err)

			got, header, err := DetectCarrier(out, Config{Password: "guess"})
			require.NoError(t, err)
			assert.Equal(t, alg, got)
			assert.Equal(t, "found.txt", header.Filename)

			res, err := ExtractCarrier(out, Config{Algorithm: AlgorithmAuto, Password: "guess"})
			require.NoError(t, err)
			assert.Equal(t, alg, res.Algorithm)
			assert.Equal(t, []byte("which one?"), res.Data)

			header, err = InspectCarrier(out, Config{Password: "guess"})
			require.NoError(t, err)
			assert.Equal(t, "found.txt", header.Filename)

			_, _, err = DetectCarrier(out, Config{Password: "other"})
			assert.ErrorIs(t, err, format.ErrInvalidHeader)
		})
	}
}

func TestDetectCarrierTooSmallForBlocks(t *testing.T) {
	out, _, err := EmbedCarrier(cover(t, 7, 7, 3), []byte("x"), plain(stego.AlgorithmLSB, "", 1))
	require.NoError(t, err)

	alg, _, err := DetectCarrier(out, Config{})
	require.NoError(t, err)
	assert.Equal(t, stego.AlgorithmLSB, alg)

	_, _, err = DetectCarrier(cover(t, 7, 7, 3), Config{})
	assert.ErrorIs(t, err, format.ErrInvalidHeader)
	assert.ErrorIs(t, err, carrier.ErrInvalidCarrier)
}
