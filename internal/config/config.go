// Package config loads and validates the cinetree configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DownloadsDir string `toml:"downloads_dir"`
	LibraryDir   string `toml:"library_dir"`
	LinksDir     string `toml:"links_dir"`
	ReviewDir    string `toml:"review_dir"`
	QueuePath    string `toml:"queue_path"`
}

// Organize contains the thresholds that drive placement and maintenance.
type Organize struct {
	MaxPerDirectory int `toml:"max_per_directory"`
	PrefixMinCount  int `toml:"prefix_min_count"`
	// RemoveDuplicates deletes a download whose content already exists in
	// the library. When false the duplicate is parked in the review
	// directory instead.
	RemoveDuplicates bool `toml:"remove_duplicates"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full application configuration.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Organize Organize `toml:"organize"`
	Logging  Logging  `toml:"logging"`
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "cinetree", "config.toml")
	}
	return filepath.Join(os.TempDir(), "cinetree", "config.toml")
}

// Load reads the config file at path, falling back to DefaultPath when
// path is empty. A missing file yields the defaults; a malformed file is
// an error.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteSample writes the embedded sample configuration to path, refusing
// to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
