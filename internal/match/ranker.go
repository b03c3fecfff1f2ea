package match

import (
	"log/slog"
	"sort"

	"cinetree/internal/logging"
)

// Auto-validation thresholds: a single candidate at or above
// uniqueThreshold is accepted on its own; a top candidate at or above
// overrideThreshold is accepted even when runners-up also score well.
const (
	uniqueThreshold   = 85.0
	overrideThreshold = 95.0
)

// Rank scores every candidate against the query and returns them in
// descending score order. The sort is stable: candidates with equal scores
// keep their arrival order, which preserves the provider's own relevance
// ordering as the tiebreak.
func Rank(query ParsedFilename, candidates []Candidate) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, cand := range candidates {
		var score Score
		if query.Kind == KindSeries {
			score = ScoreSeries(query, cand)
		} else {
			score = ScoreMovie(query, cand)
		}
		ranked = append(ranked, Ranked{Candidate: cand, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Total > ranked[j].Score.Total
	})
	return ranked
}

// Decide reports whether a ranked list can be auto-validated: true when
// exactly one candidate reaches the unique threshold, or when the top
// candidate reaches the override threshold regardless of the rest. A false
// result is an expected outcome, not an error; the caller routes the item
// to manual review.
func Decide(ranked []Ranked) bool {
	if len(ranked) == 0 {
		return false
	}
	if ranked[0].Score.Total >= overrideThreshold {
		return true
	}
	above := 0
	for _, r := range ranked {
		if r.Score.Total >= uniqueThreshold {
			above++
		}
	}
	return above == 1
}

// RankAndDecide is the entry point used by the validation workflow: it
// ranks the candidates, applies the auto-validation rule, and logs the
// decision inputs the way a reviewer would want to replay them.
func RankAndDecide(logger *slog.Logger, query ParsedFilename, candidates []Candidate) ([]Ranked, bool) {
	log := logging.WithComponent(logger, "ranker")
	ranked := Rank(query, candidates)
	auto := Decide(ranked)

	attrs := []logging.Attr{
		logging.String("title", query.Title),
		logging.Int("year", query.Year),
		logging.Int("candidates", len(ranked)),
		logging.Bool("auto_validate", auto),
	}
	if len(ranked) > 0 {
		attrs = append(attrs,
			logging.String("best_id", ranked[0].Candidate.ID),
			logging.String("best_title", ranked[0].Candidate.Title),
			logging.Float64("best_score", ranked[0].Score.Total),
		)
	}
	log.Info("ranked metadata candidates", logging.Args(attrs...)...)
	return ranked, auto
}
