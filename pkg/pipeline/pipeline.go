// Package pipeline frames payloads and moves them through a codec:
// Payload -> Compress -> Encrypt -> Protect -> Header + Body -> Codec,
// and the mirror image on the way back. It is the only place that
// accounts for carrier capacity.
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/stego"
)

// DefaultBitsPerChannel is the body width used when none is configured.
const DefaultBitsPerChannel = 3

// Config holds the parameters for one embed or extract session
type Config struct {
	Algorithm      stego.Algorithm
	Password       string
	BitsPerChannel int
	Compress       bool
	Encrypt        bool
	Redundancy     bool

	// Filename is stored in the header on embed. Ignored on extract.
	Filename string
}

// DefaultConfig returns an LSB configuration with compression enabled.
func DefaultConfig() Config {
	return Config{
		Algorithm:      stego.AlgorithmLSB,
		BitsPerChannel: DefaultBitsPerChannel,
		Compress:       true,
	}
}

// Result is an extracted payload.
type Result struct {
	Header *format.Header
	Data   []byte

	// Algorithm is set by ExtractCarrier, after detection when asked for.
	Algorithm stego.Algorithm
}

// frame is a filtered body plus the header describing it.
type frame struct {
	header *format.Header
	body   []byte
}

// Embed writes payload into the codec's carrier. The codec must be fresh.
func Embed(codec stego.Codec, payload []byte, cfg Config) (*format.Header, error) {
	fr, err := prepare(payload, cfg)
	if err != nil {
		return nil, err
	}
	if err := write(codec, fr); err != nil {
		return nil, err
	}
	return fr.header, nil
}

// prepare runs the filters and builds the header.
func prepare(payload []byte, cfg Config) (*frame, error) {
	// 1. Validation
	if err := stego.ValidateWidth(cfg.BitsPerChannel); err != nil {
		return nil, err
	}

	// 2. Filters, in order
	body := payload
	var flags uint8
	for _, st := range stages(cfg.Password) {
		if !enabled(cfg, st.flag) {
			continue
		}
		out, err := st.filter.Forward(body)
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w", st.filter.Name(), err)
		}
		// compression that does not shrink the payload is dropped
		if st.flag == format.FlagCompressed && len(out) >= len(body) {
			continue
		}
		body = out
		flags |= st.flag
	}

	// 3. Header
	header, err := format.NewHeader(len(body), cfg.Filename, cfg.BitsPerChannel, flags)
	if err != nil {
		return nil, err
	}
	return &frame{header: header, body: body}, nil
}

// write checks capacity, then writes the header at the default width and
// the body at the configured width.
func write(codec stego.Codec, fr *frame) error {
	width := int(fr.header.BitsPerChannel)
	need := stego.GroupsNeeded(codec, fr.header.Bits(), len(fr.body)*8, width)
	if need > codec.Groups() {
		return fmt.Errorf("%w: need %d of %d carrier groups (%d header + %d payload bytes)",
			stego.ErrCapacityExceeded, need, codec.Groups(), fr.header.Len(), len(fr.body))
	}

	if err := codec.SetWidth(stego.DefaultBitsPerChannel); err != nil {
		return err
	}
	w := stego.NewWriter(codec)
	if err := format.NewWriter(w).Write(fr.header); err != nil {
		return err
	}

	if err := codec.SetWidth(width); err != nil {
		return err
	}
	if _, err := w.Write(fr.body); err != nil {
		return fmt.Errorf("failed to write payload at byte %d: %w", w.Written()-fr.header.Len(), err)
	}
	return nil
}

// ReadHeader reads only the header. The codec is left positioned at the
// start of the body, still at the default width.
func ReadHeader(codec stego.Codec) (*format.Header, error) {
	if err := codec.SetWidth(stego.DefaultBitsPerChannel); err != nil {
		return nil, err
	}
	return format.Read(stego.NewReader(codec))
}

// Extract reads a payload back. cfg supplies the password for decryption;
// everything else comes from the header.
func Extract(codec stego.Codec, cfg Config) (*Result, error) {
	// 1. Header, at the default width
	if err := codec.SetWidth(stego.DefaultBitsPerChannel); err != nil {
		return nil, err
	}
	r, err := format.NewReader(stego.NewReader(codec))
	if err != nil {
		return nil, err
	}
	header := r.Header

	// 2. Body
	width := int(header.BitsPerChannel)
	if err := codec.SetWidth(width); err != nil {
		return nil, err
	}
	if need := stego.GroupsNeeded(codec, header.Bits(), int(header.DataLength)*8, width); need > codec.Groups() {
		return nil, fmt.Errorf("%w: header declares %d bytes, carrier has room for %d groups, need %d",
			stego.ErrTruncatedRead, header.DataLength, codec.Groups(), need)
	}
	body := make([]byte, header.DataLength)
	if _, err := io.ReadFull(r.Body, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = stego.ErrTruncatedRead
		}
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	// 3. Filters, back to front
	data := body
	all := stages(cfg.Password)
	for i := len(all) - 1; i >= 0; i-- {
		st := all[i]
		if header.Flags&st.flag == 0 {
			continue
		}
		data, err = st.filter.Inverse(data)
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w", st.filter.Name(), err)
		}
	}

	return &Result{Header: header, Data: data}, nil
}

// MaxPayload is the largest filtered body, in bytes, that fits next to a
// header carrying cfg.Filename. Filter overhead is not included.
func MaxPayload(codec stego.Codec, cfg Config) (int, error) {
	if err := stego.ValidateWidth(cfg.BitsPerChannel); err != nil {
		return 0, err
	}
	header := format.Header{Filename: cfg.Filename}
	headerGroups := stego.GroupsNeeded(codec, header.Bits(), 0, cfg.BitsPerChannel)
	free := codec.Groups() - headerGroups
	if free <= 0 {
		return 0, nil
	}
	return free * codec.GroupBits(cfg.BitsPerChannel) / 8, nil
}

func enabled(cfg Config, flag uint8) bool {
	switch flag {
	case format.FlagCompressed:
		return cfg.Compress
	case format.FlagEncrypted:
		return cfg.Encrypt
	case format.FlagRedundant:
		return cfg.Redundancy
	}
	return false
}

// Measure runs the filters over payload and returns the header an embed
// would write plus the filtered body length, without touching a carrier.
func Measure(payload []byte, cfg Config) (*format.Header, int, error) {
	fr, err := prepare(payload, cfg)
	if err != nil {
		return nil, 0, err
	}
	return fr.header, len(fr.body), nil
}
