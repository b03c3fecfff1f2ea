package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Organize.MaxPerDirectory != DefaultMaxPerDirectory {
		t.Errorf("MaxPerDirectory = %d, want default %d", cfg.Organize.MaxPerDirectory, DefaultMaxPerDirectory)
	}
	if cfg.Organize.PrefixMinCount != DefaultPrefixMinCount {
		t.Errorf("PrefixMinCount = %d, want default %d", cfg.Organize.PrefixMinCount, DefaultPrefixMinCount)
	}
}

func TestLoadOverridesAndFills(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
library_dir = "/srv/media/library"

[organize]
max_per_directory = 75
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.LibraryDir != "/srv/media/library" {
		t.Errorf("LibraryDir = %q", cfg.Paths.LibraryDir)
	}
	if cfg.Organize.MaxPerDirectory != 75 {
		t.Errorf("MaxPerDirectory = %d, want 75", cfg.Organize.MaxPerDirectory)
	}
	if cfg.Organize.PrefixMinCount != DefaultPrefixMinCount {
		t.Errorf("PrefixMinCount = %d, want filled default", cfg.Organize.PrefixMinCount)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Organize.MaxPerDirectory = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative max_per_directory")
	}

	cfg = Default()
	cfg.Paths.DownloadsDir = cfg.Paths.LibraryDir
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for identical downloads and library dirs")
	}

	cfg = Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported log level")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "max_per_directory") {
		t.Error("sample config missing expected keys")
	}
	if err := WriteSample(path); err == nil {
		t.Error("expected refusal to overwrite an existing config")
	}
}
