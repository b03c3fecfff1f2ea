package match

import (
	"testing"

	"cinetree/internal/logging"
)

func rankedWith(scores ...float64) []Ranked {
	out := make([]Ranked, 0, len(scores))
	for _, s := range scores {
		out = append(out, Ranked{Score: Score{Total: s}})
	}
	return out
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   bool
	}{
		{"single confident candidate", []float64{86}, true},
		{"two close confident candidates", []float64{87, 86}, false},
		{"override beats ambiguity", []float64{96, 40}, true},
		{"override with confident runner-up", []float64{95, 90}, true},
		{"nothing confident", []float64{70, 60}, false},
		{"empty", nil, false},
		{"one weak candidate", []float64{84.9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(rankedWith(tt.scores...)); got != tt.want {
				t.Errorf("Decide(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}

func TestRankStableOnTies(t *testing.T) {
	query := ParsedFilename{Title: "Heat", Year: 1995, Kind: KindMovie}
	candidates := []Candidate{
		{ID: "first", Title: "Heat", Year: 1995},
		{ID: "second", Title: "Heat", Year: 1995},
	}
	ranked := Rank(query, candidates)
	if ranked[0].Candidate.ID != "first" || ranked[1].Candidate.ID != "second" {
		t.Errorf("tied candidates reordered: %q, %q", ranked[0].Candidate.ID, ranked[1].Candidate.ID)
	}
}

func TestRankAndDecideKillBill(t *testing.T) {
	query := ParsedFilename{Title: "Kill Bill", Year: 2003, DurationS: 6900, Kind: KindMovie}
	candidates := []Candidate{
		{ID: "1", Title: "Kill Bill: Vol. 1", OriginalTitle: "キル・ビル", Year: 2003, DurationS: 6840},
		{ID: "2", Title: "Kill You", Year: 2003, DurationS: 6900},
	}

	ranked, auto := RankAndDecide(logging.NewNop(), query, candidates)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked candidates, got %d", len(ranked))
	}
	if ranked[0].Candidate.ID != "1" {
		t.Fatalf("expected Kill Bill: Vol. 1 on top, got %q", ranked[0].Candidate.Title)
	}
	if ranked[0].Score.Total < 90 {
		t.Errorf("top score = %v, want >= 90", ranked[0].Score.Total)
	}
	if ranked[1].Score.Title >= ranked[0].Score.Title-20 {
		t.Errorf("expected a material title gap: top %v, second %v",
			ranked[0].Score.Title, ranked[1].Score.Title)
	}
	if !auto {
		t.Error("expected auto-validation for a high-confidence unique match")
	}
}

func TestRankSeriesUsesTitleOnly(t *testing.T) {
	query := ParsedFilename{Title: "The Wire", Kind: KindSeries, Year: 2002}
	candidates := []Candidate{
		{ID: "a", Title: "The Wire", Year: 1950},
		{ID: "b", Title: "Wired Shut", Year: 2002},
	}
	ranked := Rank(query, candidates)
	if ranked[0].Candidate.ID != "a" {
		t.Fatalf("expected exact-title series candidate on top, got %q", ranked[0].Candidate.Title)
	}
	if ranked[0].Score.Total != 100 {
		t.Errorf("exact series title = %v, want 100 despite the wrong year", ranked[0].Score.Total)
	}
}
