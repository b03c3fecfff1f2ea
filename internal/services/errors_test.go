package services

import (
	"errors"
	"testing"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(ErrTransient, "transfer", "move file", "rename failed", cause)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "transfer", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected default ErrTransient, got %v", err)
	}
}

func TestNeedsReview(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no match", Wrap(ErrNoMatch, "identify", "rank", "no candidate above threshold", nil), true},
		{"ambiguous", Wrap(ErrAmbiguous, "identify", "rank", "two close candidates", nil), true},
		{"conflict", Wrap(ErrConflict, "transfer", "guard", "name collision", nil), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsReview(tt.err); got != tt.want {
				t.Errorf("NeedsReview() = %v, want %v", got, tt.want)
			}
		})
	}
}
