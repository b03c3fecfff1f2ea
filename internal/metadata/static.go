package metadata

import (
	"context"
	"strings"

	"cinetree/internal/textutil"
)

// StaticProvider serves candidates from an in-memory catalog. Used by
// tests and by offline dry runs; search is a loose token-overlap filter,
// deliberately more permissive than the scoring engine so the ranker sees
// realistic near-misses.
type StaticProvider struct {
	Entries []Details
	Tag     string
}

var _ Provider = (*StaticProvider)(nil)

func (p *StaticProvider) Search(_ context.Context, title string, year int) ([]SearchResult, error) {
	var results []SearchResult
	for _, entry := range p.Entries {
		if !looselyMatches(title, entry) {
			continue
		}
		if year > 0 && entry.Year > 0 {
			diff := year - entry.Year
			if diff < -2 || diff > 2 {
				continue
			}
		}
		res := entry.SearchResult
		if res.Source == "" {
			res.Source = p.Tag
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *StaticProvider) Details(_ context.Context, id string) (*Details, error) {
	for i := range p.Entries {
		if p.Entries[i].ID == id {
			detail := p.Entries[i]
			if detail.Source == "" {
				detail.Source = p.Tag
			}
			return &detail, nil
		}
	}
	return nil, nil
}

func looselyMatches(query string, entry Details) bool {
	queryTokens := textutil.Tokenize(query)
	if len(queryTokens) == 0 {
		return false
	}
	haystack := strings.ToLower(entry.Title + " " + entry.OriginalTitle)
	for _, tok := range queryTokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}
