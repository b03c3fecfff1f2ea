package queue

import (
	"strings"
	"time"

	"cinetree/internal/match"
)

// Status represents the lifecycle of a review item.
type Status string

const (
	// StatusPending means the item awaits a human decision.
	StatusPending Status = "pending"
	// StatusValidated means a candidate was chosen and the item can be
	// organized on the next run.
	StatusValidated Status = "validated"
	// StatusRejected means the user dismissed every candidate; the file
	// stays in the review area.
	StatusRejected Status = "rejected"
)

var allStatuses = []Status{StatusPending, StatusValidated, StatusRejected}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseStatus normalizes user input into a known status.
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := statusSet[status]
	return status, ok
}

// Item is one file parked for manual review, together with the ranked
// candidates that failed auto-validation.
type Item struct {
	ID              int64
	Token           string
	SourcePath      string
	ParsedTitle     string
	ParsedYear      int
	Kind            match.MediaKind
	Reason          string
	Candidates      []match.Ranked
	Status          Status
	ChosenCandidate string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Chosen returns the ranked candidate selected at resolve time, if any.
func (i *Item) Chosen() (match.Ranked, bool) {
	if i.ChosenCandidate == "" {
		return match.Ranked{}, false
	}
	for _, ranked := range i.Candidates {
		if ranked.Candidate.ID == i.ChosenCandidate {
			return ranked, true
		}
	}
	return match.Ranked{}, false
}
