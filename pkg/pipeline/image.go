package pipeline

import (
	"errors"
	"fmt"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/stego"
)

// ErrCoverRequired is returned when no cover is given for an algorithm that
// cannot work on generated noise.
var ErrCoverRequired = errors.New("a cover image is required for this algorithm")

// AlgorithmAuto makes ExtractCarrier and InspectCarrier find the algorithm
// themselves. The zero Algorithm means the same.
const AlgorithmAuto stego.Algorithm = "auto"

func isAuto(alg stego.Algorithm) bool {
	return alg == AlgorithmAuto || alg == ""
}

// EmbedCarrier hides payload in a copy of cover and returns the copy. When
// cover is nil and the algorithm is LSB, a noise cover just large enough
// for the payload is generated.
func EmbedCarrier(cover *carrier.Carrier, payload []byte, cfg Config) (*carrier.Carrier, *format.Header, error) {
	fr, err := prepare(payload, cfg)
	if err != nil {
		return nil, nil, err
	}

	var work *carrier.Carrier
	if cover == nil {
		work, err = randomCover(fr, cfg.Algorithm)
	} else {
		work = cover.Clone()
	}
	if err != nil {
		return nil, nil, err
	}

	codec, err := stego.New(cfg.Algorithm, work, cfg.Password)
	if err != nil {
		return nil, nil, err
	}
	if err := write(codec, fr); err != nil {
		return nil, nil, err
	}
	return work, fr.header, nil
}

// ExtractCarrier reads a payload out of a stego carrier.
func ExtractCarrier(c *carrier.Carrier, cfg Config) (*Result, error) {
	if isAuto(cfg.Algorithm) {
		alg, _, err := DetectCarrier(c, cfg)
		if err != nil {
			return nil, err
		}
		cfg.Algorithm = alg
	}
	codec, err := stego.New(cfg.Algorithm, c, cfg.Password)
	if err != nil {
		return nil, err
	}
	res, err := Extract(codec, cfg)
	if err != nil {
		return nil, err
	}
	res.Algorithm = cfg.Algorithm
	return res, nil
}

// InspectCarrier reads only the header, e.g. to learn the hidden file name.
func InspectCarrier(c *carrier.Carrier, cfg Config) (*format.Header, error) {
	if isAuto(cfg.Algorithm) {
		_, header, err := DetectCarrier(c, cfg)
		return header, err
	}
	codec, err := stego.New(cfg.Algorithm, c, cfg.Password)
	if err != nil {
		return nil, err
	}
	return ReadHeader(codec)
}

// DetectCarrier tries every algorithm on c, each on a fresh codec, and
// returns the first whose header validates. cfg.Algorithm is ignored.
func DetectCarrier(c *carrier.Carrier, cfg Config) (stego.Algorithm, *format.Header, error) {
	var errs []error
	for _, alg := range stego.Algorithms {
		codec, err := stego.New(alg, c, cfg.Password)
		if err == nil {
			var header *format.Header
			if header, err = ReadHeader(codec); err == nil {
				return alg, header, nil
			}
		}
		errs = append(errs, fmt.Errorf("%s: %w", alg, err))
	}
	return "", nil, fmt.Errorf("no algorithm found a header: %w", errors.Join(errs...))
}

// Capacity reports the total capacity in bits and the largest body in
// bytes that fits in c under cfg.
func Capacity(c *carrier.Carrier, cfg Config) (bits int, payload int, err error) {
	codec, err := stego.New(cfg.Algorithm, c, cfg.Password)
	if err != nil {
		return 0, 0, err
	}
	if err := stego.ValidateWidth(cfg.BitsPerChannel); err != nil {
		return 0, 0, err
	}
	payload, err = MaxPayload(codec, cfg)
	if err != nil {
		return 0, 0, err
	}
	return stego.CapacityBits(codec, cfg.BitsPerChannel), payload, nil
}

// randomCover builds a square RGB noise image with just enough pixels for fr.
func randomCover(fr *frame, alg stego.Algorithm) (*carrier.Carrier, error) {
	if alg != stego.AlgorithmLSB {
		return nil, fmt.Errorf("%w: %s", ErrCoverRequired, alg)
	}
	const channels = 3
	width := int(fr.header.BitsPerChannel)
	pixels := ceilDiv(fr.header.Bits(), channels*stego.DefaultBitsPerChannel) +
		ceilDiv(len(fr.body)*8, channels*width)
	side := carrier.SquareFor(pixels)
	return carrier.Random(side, side, channels)
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
