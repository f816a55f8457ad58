package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/config"
	"github.com/Beastly713/stegano/pkg/pipeline"
	"github.com/Beastly713/stegano/pkg/stego"
)

// codecOptions are the flags shared by every command that opens a codec.
type codecOptions struct {
	password  string
	algorithm string
	bits      int

	compress   bool
	encrypt    bool
	redundancy bool
}

// register adds the flags. Filter and width flags only matter when
// embedding, so they are added on request. Reading commands default to
// trying every algorithm.
func (o *codecOptions) register(cmd *cobra.Command, embedding bool) {
	f := cmd.Flags()
	f.StringVarP(&o.password, "password", "p", "", "Password that orders the carrier and keys encryption (default: $"+config.PasswordEnv+")")
	if !embedding {
		f.StringVarP(&o.algorithm, "algorithm", "a", string(pipeline.AlgorithmAuto), "Hiding algorithm: auto, lsb or dctlsb")
		return
	}
	f.StringVarP(&o.algorithm, "algorithm", "a", string(stego.AlgorithmLSB), "Hiding algorithm: lsb or dctlsb")
	f.IntVarP(&o.bits, "bits", "b", pipeline.DefaultBitsPerChannel, "Bits per channel used for the payload (1-8, lsb only)")
	f.BoolVar(&o.compress, "compress", true, "Gzip the payload when that makes it smaller")
	f.BoolVar(&o.encrypt, "encrypt", false, "Encrypt the payload with the password (AES-GCM)")
	f.BoolVar(&o.redundancy, "redundancy", false, "Add Reed-Solomon parity so some damage can be repaired")
}

// resolve merges the config file defaults with the flags the user set.
func (o *codecOptions) resolve(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := defaults.Pipeline()
	f := cmd.Flags()
	embedding := f.Lookup("bits") != nil

	if f.Changed("algorithm") || !embedding {
		cfg.Algorithm = stego.Algorithm(o.algorithm)
	}
	if err := checkAlgorithm(cfg.Algorithm, !embedding); err != nil {
		return cfg, err
	}
	if embedding {
		if f.Changed("bits") {
			cfg.BitsPerChannel = o.bits
		}
		if f.Changed("compress") {
			cfg.Compress = o.compress
		}
		if f.Changed("encrypt") {
			cfg.Encrypt = o.encrypt
		}
		if f.Changed("redundancy") {
			cfg.Redundancy = o.redundancy
		}
	}
	if err := stego.ValidateWidth(cfg.BitsPerChannel); err != nil {
		return cfg, err
	}

	cfg.Password = config.Password(o.password)
	logger.Debug().
		Str("algorithm", string(cfg.Algorithm)).
		Int("bits", cfg.BitsPerChannel).
		Bool("compress", cfg.Compress).
		Bool("encrypt", cfg.Encrypt).
		Bool("redundancy", cfg.Redundancy).
		Bool("password", cfg.Password != "").
		Msg("session")
	return cfg, nil
}

// checkAlgorithm accepts a known algorithm, or auto when allowed.
func checkAlgorithm(alg stego.Algorithm, allowAuto bool) error {
	if allowAuto && alg == pipeline.AlgorithmAuto {
		return nil
	}
	_, err := stego.ParseAlgorithm(string(alg))
	return err
}

// safeName reduces a file name read from a header to a bare name that
// stays inside the output directory. Names that cannot, such as "..", fall
// back to one derived from the image path.
func safeName(stored, image string) string {
	name := filepath.Base(stored)
	switch {
	case stored == "", name == ".", name == "..", strings.ContainsAny(name, `/\`):
		return strings.TrimSuffix(filepath.Base(image), filepath.Ext(image)) + ".bin"
	}
	return name
}

// loadCarrier decodes an image file into a carrier.
func loadCarrier(path string) (*carrier.Carrier, error) {
	if !carrier.Supported(path) {
		return nil, fmt.Errorf("unsupported image type %q (want .png, .bmp or .jpg)", filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	c, format, err := carrier.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	logger.Debug().Str("path", path).Str("format", format).
		Int("width", c.Width).Int("height", c.Height).Msg("loaded image")
	return c, nil
}

// saveCarrier writes c losslessly, refusing to replace a file unless
// overwrite is set.
func saveCarrier(c *carrier.Carrier, path string, overwrite bool) error {
	if err := checkTarget(path, overwrite); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := c.Encode(file, path); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

func checkTarget(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("file %s already exists, use --overwrite to replace it", path)
	}
	return nil
}
