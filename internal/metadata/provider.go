// Package metadata defines the capability interface the ranker consumes
// for remote candidates. Concrete HTTP providers (TMDB, TVDB) sit behind
// it, already rate-limited and cached; this package treats them as pure
// read operations.
package metadata

import "context"

// Provider searches a catalog and resolves candidate details. An empty
// result list or a nil details pointer means no match, never an error the
// scoring engine must handle.
type Provider interface {
	Search(ctx context.Context, title string, year int) ([]SearchResult, error)
	Details(ctx context.Context, id string) (*Details, error)
}

// SearchResult is a thin remote candidate: enough to score titles and
// years before details are fetched.
type SearchResult struct {
	ID            string
	Title         string
	OriginalTitle string
	Year          int
	Source        string
}

// Details is the full candidate record, including runtime for movies.
type Details struct {
	SearchResult
	Genres    []string
	DurationS int
}
