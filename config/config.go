// Package config loads protpipe defaults from a TOML file.
// Flags always win over the file; the file wins over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds defaults for the export command.
type Config struct {
	Organism  string   `toml:"organism"`
	OutputDir string   `toml:"output_dir"`
	Format    string   `toml:"format"`
	Verbose   bool     `toml:"verbose"`
	Samples   []string `toml:"samples"`
}

// Formats lists the values accepted for Format.
var Formats = []string{"xml", "json", "html", "markdown", "pdf"}

// DefaultPath returns ~/.protpipe/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".protpipe", "config.toml"), nil
}

// Load reads the config at path. When path is empty the default location is
// used, and a missing default file yields an empty Config.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if c.Format == "" {
		return nil
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %v)", c.Format, Formats)
}
