package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{{"alpha", "3"}, {"beta"}},
		1,
	)
	if out == "" {
		t.Fatal("expected rendered output")
	}
	for _, want := range []string{"Name", "Count", "alpha", "beta", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	width := len([]rune(lines[0]))
	for i, line := range lines {
		if got := len([]rune(line)); got != width {
			t.Errorf("line %d width %d, want %d (short rows must pad to the header width)", i, got, width)
		}
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestFormatScore(t *testing.T) {
	if got := formatScore(87.25); got != "87.2" && got != "87.3" {
		t.Fatalf("formatScore(87.25) = %q", got)
	}
	if got := formatScore(100); got != "100.0" {
		t.Fatalf("formatScore(100) = %q", got)
	}
}
