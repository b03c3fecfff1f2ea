package organizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedLinks(t *testing.T, linksDir, bucket string, names ...string) {
	t.Helper()
	dir := filepath.Join(linksDir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// mirrorState maps each bucket to its file names; a group dir nested in a
// bucket shows up under a "bucket/group" key.
func mirrorState(t *testing.T, linksDir string) map[string][]string {
	t.Helper()
	state := make(map[string][]string)
	dirs, err := os.ReadDir(linksDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, dir := range dirs {
		files, err := os.ReadDir(filepath.Join(linksDir, dir.Name()))
		if err != nil {
			t.Fatal(err)
		}
		names := make([]string, 0, len(files))
		for _, f := range files {
			if f.IsDir() {
				nested, err := os.ReadDir(filepath.Join(linksDir, dir.Name(), f.Name()))
				if err != nil {
					t.Fatal(err)
				}
				nestedNames := make([]string, 0, len(nested))
				for _, n := range nested {
					nestedNames = append(nestedNames, n.Name())
				}
				state[dir.Name()+"/"+f.Name()] = nestedNames
				continue
			}
			names = append(names, f.Name())
		}
		state[dir.Name()] = names
	}
	return state
}

func TestMaintainSplitsOversizedBucket(t *testing.T) {
	cfg := testConfig(t)
	cfg.Organize.MaxPerDirectory = 4
	org, _ := newTestOrganizer(t, cfg, catalog())
	seedLinks(t, cfg.Paths.LinksDir, "B",
		"Balto (1995).mkv", "Batman (1989).mkv", "Beetlejuice (1988).mkv",
		"Big (1988).mkv", "Blade (1998).mkv", "Brazil (1985).mkv")

	report, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("Maintain: %v", err)
	}
	if report.NoOp() {
		t.Fatal("expected changes")
	}
	if len(report.RemovedDirs) != 1 || report.RemovedDirs[0] != "B" {
		t.Fatalf("removed = %v", report.RemovedDirs)
	}
	if len(report.CreatedDirs) != 2 {
		t.Fatalf("created = %v", report.CreatedDirs)
	}

	state := mirrorState(t, cfg.Paths.LinksDir)
	if _, survives := state["B"]; survives {
		t.Fatal("old bucket should be gone")
	}
	total := 0
	for bucket, names := range state {
		if len(names) > cfg.Organize.MaxPerDirectory {
			t.Fatalf("bucket %s still oversized: %d entries", bucket, len(names))
		}
		if len(names) != 3 {
			t.Fatalf("bucket %s has %d entries, want 3", bucket, len(names))
		}
		total += len(names)
	}
	if total != 6 {
		t.Fatalf("links lost: %d of 6 remain", total)
	}

	// A second pass over the balanced mirror must change nothing.
	second, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("second Maintain: %v", err)
	}
	if !second.NoOp() {
		t.Fatalf("second pass not a no-op: %+v", second)
	}
}

func TestMaintainLeavesBalancedMirrorAlone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Organize.MaxPerDirectory = 10
	org, _ := newTestOrganizer(t, cfg, catalog())
	seedLinks(t, cfg.Paths.LinksDir, "M", "The Matrix (1999).mkv", "Memento (2000).mkv")

	report, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("Maintain: %v", err)
	}
	if !report.NoOp() {
		t.Fatalf("expected no-op, got %+v", report)
	}
}

func TestMaintainSkipsCatchAllBucket(t *testing.T) {
	cfg := testConfig(t)
	cfg.Organize.MaxPerDirectory = 1
	org, _ := newTestOrganizer(t, cfg, catalog())
	seedLinks(t, cfg.Paths.LinksDir, "#", "1917 (2019).mkv", "2046 (2004).mkv", "300 (2006).mkv")

	report, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("Maintain: %v", err)
	}
	if len(report.RemovedDirs) != 0 {
		t.Fatalf("catch-all must never split: %+v", report)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LinksDir, "#")); err != nil {
		t.Fatalf("catch-all dir missing: %v", err)
	}
}

func TestMaintainExtractsPrefixGroup(t *testing.T) {
	cfg := testConfig(t)
	cfg.Organize.MaxPerDirectory = 50
	cfg.Organize.PrefixMinCount = 3
	org, _ := newTestOrganizer(t, cfg, catalog())
	seedLinks(t, cfg.Paths.LinksDir, "B",
		"Batman Begins (2005).mkv", "Batman Returns (1992).mkv",
		"Batman Forever (1995).mkv", "Brazil (1985).mkv")

	report, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("Maintain: %v", err)
	}
	if len(report.GroupsCreated) != 1 || report.GroupsCreated[0] != filepath.Join("B", "Batman") {
		t.Fatalf("groups = %v", report.GroupsCreated)
	}

	// The group nests inside its alphabetic bucket, not at the mirror root.
	state := mirrorState(t, cfg.Paths.LinksDir)
	if len(state["B/Batman"]) != 3 {
		t.Fatalf("Batman group = %v", state["B/Batman"])
	}
	if len(state["B"]) != 1 || state["B"][0] != "Brazil (1985).mkv" {
		t.Fatalf("B bucket = %v", state["B"])
	}

	// The existing group keeps the second pass idempotent.
	second, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("second Maintain: %v", err)
	}
	if !second.NoOp() {
		t.Fatalf("second pass not a no-op: %+v", second)
	}
}

func TestMaintainSplitCarriesNestedGroup(t *testing.T) {
	cfg := testConfig(t)
	cfg.Organize.MaxPerDirectory = 4
	cfg.Organize.PrefixMinCount = 10
	org, _ := newTestOrganizer(t, cfg, catalog())
	seedLinks(t, cfg.Paths.LinksDir, "B",
		"Balto (1995).mkv", "Beetlejuice (1988).mkv", "Big (1988).mkv",
		"Blade (1998).mkv", "Brazil (1985).mkv", "Bug (2006).mkv")
	seedLinks(t, cfg.Paths.LinksDir, filepath.Join("B", "Batman"),
		"Batman Begins (2005).mkv", "Batman Forever (1995).mkv", "Batman Returns (1992).mkv")

	report, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("Maintain: %v", err)
	}
	if len(report.RemovedDirs) != 1 || report.RemovedDirs[0] != "B" {
		t.Fatalf("removed = %v", report.RemovedDirs)
	}

	state := mirrorState(t, cfg.Paths.LinksDir)
	if _, survives := state["B"]; survives {
		t.Fatal("old bucket should be gone")
	}
	var groupParent string
	for key, names := range state {
		if strings.HasSuffix(key, "/Batman") {
			groupParent = strings.TrimSuffix(key, "/Batman")
			if len(names) != 3 {
				t.Fatalf("Batman group = %v", names)
			}
		}
	}
	if groupParent == "" {
		t.Fatal("Batman group lost in split")
	}
	// The group follows its alphabetic neighbors into the new range.
	found := false
	for _, name := range state[groupParent] {
		if name == "Balto (1995).mkv" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Batman group landed in %q, away from Balto", groupParent)
	}
}

func TestMaintainEmptyMirror(t *testing.T) {
	cfg := testConfig(t)
	org, _ := newTestOrganizer(t, cfg, catalog())

	report, err := org.Maintain(context.Background())
	if err != nil {
		t.Fatalf("Maintain: %v", err)
	}
	if !report.NoOp() {
		t.Fatalf("expected no-op on empty mirror, got %+v", report)
	}
}
