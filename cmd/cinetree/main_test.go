package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinetree/internal/metadata"
)

// writeCLIFixture lays out a config file, a downloads dir with one file,
// and a catalog the static provider can serve.
func writeCLIFixture(t *testing.T) (configPath, catalogPath, downloads string) {
	t.Helper()
	base := t.TempDir()
	downloads = filepath.Join(base, "downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatal(err)
	}

	configPath = filepath.Join(base, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`downloads_dir = "` + downloads + `"`,
		`library_dir = "` + filepath.Join(base, "library") + `"`,
		`links_dir = "` + filepath.Join(base, "links") + `"`,
		`review_dir = "` + filepath.Join(base, "review") + `"`,
		`queue_path = "` + filepath.Join(base, "queue.db") + `"`,
		"",
		"[organize]",
		"max_per_directory = 50",
		"prefix_min_count = 3",
		"",
		"[logging]",
		`level = "error"`,
		`format = "json"`,
	}, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog := []metadata.Details{
		{SearchResult: metadata.SearchResult{ID: "tt0133093", Title: "The Matrix", Year: 1999}, DurationS: 8160},
	}
	data, err := json.Marshal(catalog)
	if err != nil {
		t.Fatal(err)
	}
	catalogPath = filepath.Join(base, "catalog.json")
	if err := os.WriteFile(catalogPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, catalogPath, downloads
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestConfigValidateCommand(t *testing.T) {
	configPath, _, _ := writeCLIFixture(t)
	out := runCommand(t, "--config", configPath, "config", "validate")
	if !strings.Contains(out, "Configuration OK") {
		t.Fatalf("output = %q", out)
	}
}

func TestIdentifyCommand(t *testing.T) {
	configPath, catalogPath, downloads := writeCLIFixture(t)
	file := filepath.Join(downloads, "The.Matrix.1999.1080p.mkv")
	if err := os.WriteFile(file, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCommand(t, "--config", configPath, "--catalog", catalogPath, "identify", file)
	if !strings.Contains(out, "The Matrix") || !strings.Contains(out, "auto-validated") {
		t.Fatalf("output = %q", out)
	}
}

func TestOrganizeAndQueueCommands(t *testing.T) {
	configPath, catalogPath, downloads := writeCLIFixture(t)
	// Not in the catalog: must land in the review queue.
	if err := os.WriteFile(filepath.Join(downloads, "Obscure.Film.2020.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCommand(t, "--config", configPath, "--catalog", catalogPath, "organize")
	if !strings.Contains(out, "queued 1") {
		t.Fatalf("organize output = %q", out)
	}
	out = runCommand(t, "--config", configPath, "queue", "list")
	if !strings.Contains(out, "Obscure Film") || !strings.Contains(out, "pending") {
		t.Fatalf("queue list output = %q", out)
	}
}

func TestQueueListEmpty(t *testing.T) {
	configPath, _, _ := writeCLIFixture(t)
	out := runCommand(t, "--config", configPath, "queue", "list")
	if !strings.Contains(out, "empty") {
		t.Fatalf("output = %q", out)
	}
}
