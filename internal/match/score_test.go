package match

import "testing"

func TestYearScoreBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		query int
		cand  int
		want  float64
	}{
		{"same year", 2010, 2010, 100},
		{"one year off", 2010, 2011, 100},
		{"one year under", 2010, 2009, 100},
		{"two years off", 2010, 2012, 50},
		{"three years off", 2010, 2013, 25},
		{"four years off", 2010, 2014, 0},
		{"far off", 2010, 1990, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearScore(tt.query, tt.cand); got != tt.want {
				t.Errorf("YearScore(%d, %d) = %v, want %v", tt.query, tt.cand, got, tt.want)
			}
		})
	}
}

func TestYearScoreUnavailable(t *testing.T) {
	if got := YearScore(0, 2010); got != 0 {
		t.Errorf("YearScore(0, 2010) = %v, want 0", got)
	}
	if got := YearScore(2010, -1); got != 0 {
		t.Errorf("YearScore(2010, -1) = %v, want 0", got)
	}
}

func TestDurationScoreBoundaries(t *testing.T) {
	// 6600/6000 is exactly 10% deviation: still free.
	if got := DurationScore(6600, 6000); got != 100 {
		t.Errorf("DurationScore at 10%% deviation = %v, want 100", got)
	}
	// Just above the tolerance must cost something.
	if got := DurationScore(6700, 6000); got >= 100 {
		t.Errorf("DurationScore just above 10%% deviation = %v, want < 100", got)
	}
	// 20% deviation: 10 points of excess at 50 per 10%.
	got := DurationScore(7200, 6000)
	if got < 49.9 || got > 50.1 {
		t.Errorf("DurationScore at 20%% deviation = %v, want 50", got)
	}
}

func TestDurationScoreUnavailable(t *testing.T) {
	if got := DurationScore(0, 6000); got != 0 {
		t.Errorf("DurationScore(0, 6000) = %v, want 0", got)
	}
}

func TestScoreMovieFallbackWeights(t *testing.T) {
	query := ParsedFilename{Title: "The Matrix", Year: 1999}
	cand := Candidate{Title: "The Matrix", Year: 1999}

	score := ScoreMovie(query, cand)
	if score.DurationWeighted {
		t.Fatal("expected fallback weighting without durations")
	}
	// Perfect title and year under 2/3 + 1/3 weighting.
	if score.Total < 99.9 || score.Total > 100 {
		t.Errorf("fallback Total = %v, want 100", score.Total)
	}
}

func TestScoreMovieBounds(t *testing.T) {
	queries := []ParsedFilename{
		{},
		{Title: "x"},
		{Title: "Some Film", Year: 2020, DurationS: 5400},
		{Title: "   ", Year: -3, DurationS: -1},
	}
	cands := []Candidate{
		{},
		{Title: "y", Year: 1900, DurationS: 1},
		{Title: "Some Film", OriginalTitle: "Ein Film", Year: 2020, DurationS: 5400},
	}
	for _, q := range queries {
		for _, c := range cands {
			got := ScoreMovie(q, c)
			if got.Total < 0 || got.Total > 100 {
				t.Errorf("ScoreMovie(%+v, %+v).Total = %v, out of [0,100]", q, c, got.Total)
			}
		}
	}
}

func TestScoreSeriesTitleOnly(t *testing.T) {
	query := ParsedFilename{Title: "Breaking Bad", Kind: KindSeries, Year: 2008}
	cand := Candidate{Title: "Breaking Bad", Year: 1999}
	score := ScoreSeries(query, cand)
	if score.Total != 100 {
		t.Errorf("ScoreSeries exact title = %v, want 100", score.Total)
	}
	if score.Year != 0 || score.DurationWeighted {
		t.Errorf("series score must carry no year or duration component: %+v", score)
	}
}

func TestTitleScoreEmptyQuery(t *testing.T) {
	if got := TitleScore("   ", "Anything"); got != 0 {
		t.Errorf("TitleScore(blank) = %v, want 0", got)
	}
	if got := TitleScore("Anything"); got != 0 {
		t.Errorf("TitleScore with no candidates = %v, want 0", got)
	}
}

func TestTitleScoreUsesOriginalTitle(t *testing.T) {
	// Cataloged under a native title: the localized title is unrelated but
	// the original matches.
	got := TitleScore("Oldboy", "Old Boy le film", "Oldboy")
	if got != 100 {
		t.Errorf("TitleScore with matching original title = %v, want 100", got)
	}
}

func TestScoreMovieDeterministic(t *testing.T) {
	query := ParsedFilename{Title: "Kill Bill", Year: 2003, DurationS: 6900}
	cand := Candidate{Title: "Kill Bill: Vol. 1", OriginalTitle: "キル・ビル", Year: 2003, DurationS: 6840}

	first := ScoreMovie(query, cand)
	for i := 0; i < 100; i++ {
		if got := ScoreMovie(query, cand); got != first {
			t.Fatalf("ScoreMovie not deterministic: run %d got %+v, first %+v", i, got, first)
		}
	}
}
