package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMatch marks an identification that produced no usable candidate.
	// Expected and common; callers route the item to manual review.
	ErrNoMatch = errors.New("no match")
	// ErrAmbiguous marks an identification with several close candidates
	// and no auto-validatable winner. Handled like ErrNoMatch.
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrConflict marks a destination collision discovered at transfer
	// time. Carries a structured decision for the caller; never resolved
	// silently except the bit-identical duplicate case.
	ErrConflict = errors.New("conflict detected")
	// ErrSourceVanished marks a file that disappeared between detection
	// and hashing or moving. Distinct from "no conflict" so callers do not
	// proceed against a missing source.
	ErrSourceVanished = errors.New("source vanished")
	// ErrUnanalyzable marks media whose technical metadata could not be
	// extracted. Scoring degrades to neutral defaults instead of failing.
	ErrUnanalyzable = errors.New("unanalyzable media")

	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// NeedsReview reports whether an error represents an expected
// identification outcome that should land in the manual-review queue
// rather than fail the batch.
func NeedsReview(err error) bool {
	return errors.Is(err, ErrNoMatch) || errors.Is(err, ErrAmbiguous)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
