package textutil

import "testing"

func TestRatioBounds(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"identical", "the matrix", "the matrix"},
		{"disjoint", "apple", "zebra"},
		{"partial", "kill bill", "kill you"},
		{"empty left", "", "something"},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if got < 0 || got > 100 {
				t.Errorf("Ratio(%q, %q) = %v, want within [0,100]", tt.a, tt.b, got)
			}
		})
	}
}

func TestRatioEmpty(t *testing.T) {
	if got := Ratio("", ""); got != 100 {
		t.Errorf("Ratio of two empty strings = %v, want 100", got)
	}
	if got := Ratio("", "x"); got != 0 {
		t.Errorf("Ratio against empty string = %v, want 0", got)
	}
}

func TestTokenSortRatioWordOrder(t *testing.T) {
	if got := TokenSortRatio("Bill Kill", "Kill Bill"); got != 100 {
		t.Errorf("TokenSortRatio reordered = %v, want 100", got)
	}
}

func TestTokenSortRatioIgnoresPunctuation(t *testing.T) {
	if got := TokenSortRatio("Amelie", "Amelie!"); got != 100 {
		t.Errorf("TokenSortRatio with punctuation = %v, want 100", got)
	}
}

func TestTokenSetRatioSubset(t *testing.T) {
	got := TokenSetRatio("Kill Bill", "Kill Bill: Vol. 1")
	if got != 100 {
		t.Errorf("TokenSetRatio(subset) = %v, want 100", got)
	}
}

func TestTokenSetRatioUnrelatedStaysLow(t *testing.T) {
	got := TokenSetRatio("Kill Bill", "The Sound of Music")
	if got >= 50 {
		t.Errorf("TokenSetRatio(unrelated) = %v, want below 50", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Kill Bill: Vol. 1")
	want := []string{"kill", "bill", "vol", "1"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize() = %v, want %v", got, want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mission: Impossible", "Mission- Impossible"},
		{"What?", "What"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
