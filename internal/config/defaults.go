package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultMaxPerDirectory is the entry ceiling that triggers an
	// alphabetic subdivision.
	DefaultMaxPerDirectory = 50
	// DefaultPrefixMinCount is the member count at which a recurring
	// first-word prefix earns its own sub-bucket.
	DefaultPrefixMinCount = 3
)

// Default returns a configuration with every field at its default.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	base := filepath.Join(home, "cinetree")
	return &Config{
		Paths: Paths{
			DownloadsDir: filepath.Join(base, "downloads"),
			LibraryDir:   filepath.Join(base, "library"),
			LinksDir:     filepath.Join(base, "links"),
			ReviewDir:    filepath.Join(base, "review"),
			QueuePath:    filepath.Join(base, "queue.db"),
		},
		Organize: Organize{
			MaxPerDirectory: DefaultMaxPerDirectory,
			PrefixMinCount:  DefaultPrefixMinCount,
		},
		Logging: Logging{
			Level:  "info",
			Format: "",
		},
	}
}

// applyDefaults fills fields the file left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Paths.DownloadsDir == "" {
		c.Paths.DownloadsDir = def.Paths.DownloadsDir
	}
	if c.Paths.LibraryDir == "" {
		c.Paths.LibraryDir = def.Paths.LibraryDir
	}
	if c.Paths.LinksDir == "" {
		c.Paths.LinksDir = def.Paths.LinksDir
	}
	if c.Paths.ReviewDir == "" {
		c.Paths.ReviewDir = def.Paths.ReviewDir
	}
	if c.Paths.QueuePath == "" {
		c.Paths.QueuePath = def.Paths.QueuePath
	}
	if c.Organize.MaxPerDirectory == 0 {
		c.Organize.MaxPerDirectory = def.Organize.MaxPerDirectory
	}
	if c.Organize.PrefixMinCount == 0 {
		c.Organize.PrefixMinCount = def.Organize.PrefixMinCount
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}
