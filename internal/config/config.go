// Package config loads project defaults for relativize from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/LegacyCodeHQ/relativize/headers"
	"github.com/LegacyCodeHQ/relativize/sourcefs"
)

// FileName is the config file looked up in the root directory.
const FileName = ".relativize.toml"

// Config holds defaults that command-line flags override.
type Config struct {
	Extensions      []string `toml:"extensions"`
	Exclude         []string `toml:"exclude"`
	IncludeDirsFile string   `toml:"include_dirs_file"`
	IgnoreCase      bool     `toml:"ignore_case"`
	UseBrackets     bool     `toml:"use_brackets"`
	// Choose is a headers.Policy name. Empty leaves it to the command.
	Choose   string `toml:"choose"`
	Encoding string `toml:"encoding"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extensions: append([]string(nil), sourcefs.DefaultExtensions...),
	}
}

// Load reads the config file at path. Keys absent from the file keep their
// defaults. A relative include_dirs_file is resolved against the file's
// directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.IncludeDirsFile != "" && !filepath.IsAbs(cfg.IncludeDirsFile) {
		cfg.IncludeDirsFile = filepath.Join(filepath.Dir(path), cfg.IncludeDirsFile)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadForRoot loads root/.relativize.toml when it exists and returns the
// defaults otherwise. The returned path is empty when no file was read.
func LoadForRoot(root string) (Config, string, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Validate checks values that would otherwise fail late in a run.
func (c Config) Validate() error {
	if c.Choose != "" {
		if _, err := headers.NewChooser(headers.Policy(c.Choose), nil, nil); err != nil {
			return err
		}
	}
	if c.Encoding != "" {
		if _, err := sourcefs.LookupEncoding(c.Encoding); err != nil {
			return err
		}
	}
	return sourcefs.ValidatePatterns(c.Exclude)
}
