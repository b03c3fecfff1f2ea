package sortkey

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Le Parrain", "P"},
		{"The Matrix", "M"},
		{"2001: A Space Odyssey", "#"},
		{"L'Odyssée", "O"},
		{"La Haine", "H"},
		{"Der Untergang", "U"},
		{"El Mariachi", "M"},
		{"Les Misérables", "M"},
		{"Œdipe Roi", "O"},
		{"Été 85", "E"},
		{"Lesson Plan", "L"},
		{"Theory of Everything", "T"},
		{"#Alive", "#"},
		{"...And Justice for All", "#"},
		{"", "#"},
		{"   ", "#"},
		{"99 Francs", "#"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Key(tt.title); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestKeyDeterministic(t *testing.T) {
	first := Key("Les Misérables")
	for i := 0; i < 100; i++ {
		if got := Key("Les Misérables"); got != first {
			t.Fatalf("Key not deterministic: run %d got %q, first %q", i, got, first)
		}
	}
}

func TestFullKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Le Parrain", "parrain"},
		{"The Matrix", "matrix"},
		{"L'Odyssée", "odyssee"},
		{"Kill Bill: Vol. 1", "killbillvol1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FullKey(tt.title); got != tt.want {
			t.Errorf("FullKey(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestStripArticleWholeTokenOnly(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "Matrix"},
		{"Lesson Plan", "Lesson Plan"},
		{"Der Himmel über Berlin", "Himmel über Berlin"},
		{"A Beautiful Mind", "Beautiful Mind"},
		{"An American in Paris", "American in Paris"},
		{"The", "The"},
	}
	for _, tt := range tests {
		if got := StripArticle(tt.in); got != tt.want {
			t.Errorf("StripArticle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Éte", "Ete"},
		{"Œuvre", "Oeuvre"},
		{"Straße", "Strasse"},
		{"naïve", "naive"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
