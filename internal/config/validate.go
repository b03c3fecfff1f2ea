package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for contract violations. Thresholds
// must be positive; directories must be distinct so a move can never
// source and target the same tree.
func (c *Config) Validate() error {
	if c.Organize.MaxPerDirectory < 1 {
		return fmt.Errorf("organize.max_per_directory must be positive, got %d", c.Organize.MaxPerDirectory)
	}
	if c.Organize.PrefixMinCount < 1 {
		return fmt.Errorf("organize.prefix_min_count must be positive, got %d", c.Organize.PrefixMinCount)
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return fmt.Errorf("paths.library_dir must be set")
	}
	if c.Paths.LibraryDir == c.Paths.DownloadsDir {
		return fmt.Errorf("paths.library_dir and paths.downloads_dir must differ")
	}
	if c.Paths.LinksDir == c.Paths.LibraryDir {
		return fmt.Errorf("paths.links_dir and paths.library_dir must differ")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
