// Package match scores remote metadata candidates against parsed local
// filenames and decides whether the best match can be accepted without
// manual review.
package match

import (
	"math"
	"strings"

	"cinetree/internal/textutil"
)

// Movie weighting with all three components available, and the title/year
// fallback when either duration is unknown. The duration weight is
// redistributed proportionally across title and year (0.50/0.75 and
// 0.25/0.75), not dropped.
const (
	titleWeight    = 0.50
	yearWeight     = 0.25
	durationWeight = 0.25

	fallbackTitleWeight = 2.0 / 3.0
	fallbackYearWeight  = 1.0 / 3.0
)

// ScoreMovie computes the weighted movie match score. Zero or negative
// years and durations are treated as unavailable, never as literal values.
func ScoreMovie(query ParsedFilename, cand Candidate) Score {
	title := TitleScore(query.Title, cand.Title, cand.OriginalTitle)
	year := YearScore(query.Year, cand.Year)

	if query.DurationS <= 0 || cand.DurationS <= 0 {
		total := fallbackTitleWeight*title + fallbackYearWeight*year
		return Score{Total: clamp(total), Title: title, Year: year}
	}

	duration := DurationScore(query.DurationS, cand.DurationS)
	total := titleWeight*title + yearWeight*year + durationWeight*duration
	return Score{Total: clamp(total), Title: title, Year: year, Duration: duration, DurationWeighted: true}
}

// ScoreSeries computes the series match score: title similarity alone.
// Per-episode runtimes vary and year metadata is unreliable for ongoing
// shows, so no other component participates.
func ScoreSeries(query ParsedFilename, cand Candidate) Score {
	title := TitleScore(query.Title, cand.Title, cand.OriginalTitle)
	return Score{Total: clamp(title), Title: title}
}

// TitleScore returns the best word-order-independent similarity between the
// query title and any of the candidate titles. Comparing against the
// original-language title as well handles foreign films cataloged under a
// native name. Empty or whitespace-only titles score 0.
func TitleScore(query string, candidates ...string) float64 {
	if strings.TrimSpace(query) == "" {
		return 0
	}
	best := 0.0
	for _, cand := range candidates {
		if strings.TrimSpace(cand) == "" {
			continue
		}
		score := textutil.TokenSortRatio(query, cand)
		if set := textutil.TokenSetRatio(query, cand); set > score {
			score = set
		}
		if score > best {
			best = score
		}
	}
	return clamp(best)
}

// YearScore tolerates a one-year discrepancy (release date vs encode date)
// at full marks, then loses 25 points per year of difference. A missing
// year on either side scores 0; the weighting fallback is the caller's
// concern only when duration is also involved.
func YearScore(queryYear, candYear int) float64 {
	if queryYear <= 0 || candYear <= 0 {
		return 0
	}
	diff := queryYear - candYear
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		return 100
	}
	return clamp(100 - 25*float64(diff))
}

// DurationScore gives full marks within a 10% runtime deviation, then
// charges 50 points for every additional 10% beyond the free tolerance.
func DurationScore(queryS, candS int) float64 {
	if queryS <= 0 || candS <= 0 {
		return 0
	}
	deviation := math.Abs(float64(queryS)/float64(candS) - 1)
	// Small epsilon keeps the boundary stable against float division noise
	// (6600/6000 must land exactly on the free 10%).
	if deviation <= 0.10+1e-9 {
		return 100
	}
	return clamp(100 - 50*((deviation-0.10)/0.10))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
