package match

// MediaKind distinguishes the two scoring formulas.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindSeries  MediaKind = "series"
	KindUnknown MediaKind = "unknown"
)

// ParsedFilename is the local-side query: what the scanner extracted from a
// file name. Produced once per scan and never mutated.
type ParsedFilename struct {
	Title      string
	Year       int // 0 when unknown
	Kind       MediaKind
	Season     int
	Episode    int
	DurationS  int // 0 when unknown
	Resolution int // vertical pixels, informational
	VideoCodec string
	AudioCodec string
}

// Candidate is a remote metadata result consumed read-only by the scorer.
type Candidate struct {
	ID            string
	Title         string
	OriginalTitle string
	Year          int
	Genres        []string
	DurationS     int // movies only; 0 for series or when unknown
	Source        string
}

// Score explains a 0-100 match. Component values are 0-100; a component
// that did not participate in the weighting reports Weighted false.
type Score struct {
	Total    float64
	Title    float64
	Year     float64
	Duration float64
	// DurationWeighted is false when either duration was unavailable and
	// the title/year fallback weighting applied.
	DurationWeighted bool
}

// Ranked pairs a candidate with its computed score, in rank order.
type Ranked struct {
	Candidate Candidate
	Score     Score
}
