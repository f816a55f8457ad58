// Package config loads user defaults for the command line tool from a YAML
// file. Flags given on the command line always win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Beastly713/stegano/pkg/pipeline"
	"github.com/Beastly713/stegano/pkg/stego"
)

// PasswordEnv names the environment variable read when no password flag
// is given.
const PasswordEnv = "STEGANO_PASSWORD"

// DefaultFile is looked up in the user config dir when --config is unset.
const DefaultFile = "stegano.yaml"

// Defaults mirrors the tunable command line flags.
type Defaults struct {
	Algorithm      string `yaml:"algorithm"`
	BitsPerChannel int    `yaml:"bits_per_channel"`
	Compress       bool   `yaml:"compress"`
	Encrypt        bool   `yaml:"encrypt"`
	Redundancy     bool   `yaml:"redundancy"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Builtin returns the defaults used when no file exists.
func Builtin() Defaults {
	cfg := pipeline.DefaultConfig()
	return Defaults{
		Algorithm:      string(cfg.Algorithm),
		BitsPerChannel: cfg.BitsPerChannel,
		Compress:       cfg.Compress,
		Encrypt:        cfg.Encrypt,
		Redundancy:     cfg.Redundancy,
		LogLevel:       "info",
	}
}

// Load reads filename on top of the builtin defaults. A missing file is not
// an error when optional is true.
func Load(filename string, optional bool) (Defaults, error) {
	d := Builtin()
	data, err := os.ReadFile(filename)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return d, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	if err := d.Validate(); err != nil {
		return d, fmt.Errorf("config %s: %w", filename, err)
	}
	return d, nil
}

// Save writes d as YAML.
func Save(filename string, d Defaults) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// DefaultPath is the config file in the user config directory, or "" when
// that directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "stegano", DefaultFile)
}

// Validate checks the algorithm and bit width.
func (d Defaults) Validate() error {
	if _, err := stego.ParseAlgorithm(d.Algorithm); err != nil {
		return err
	}
	return stego.ValidateWidth(d.BitsPerChannel)
}

// Pipeline converts the defaults to a session config.
func (d Defaults) Pipeline() pipeline.Config {
	return pipeline.Config{
		Algorithm:      stego.Algorithm(d.Algorithm),
		BitsPerChannel: d.BitsPerChannel,
		Compress:       d.Compress,
		Encrypt:        d.Encrypt,
		Redundancy:     d.Redundancy,
	}
}

// Password returns flag if set, otherwise the environment variable.
func Password(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(PasswordEnv)
}
