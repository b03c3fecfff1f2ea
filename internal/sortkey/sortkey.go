// Package sortkey maps titles to the alphabetic keys that drive library
// placement. Keys ignore leading articles and diacritics so "L'Odyssée"
// shelves under O and "The Matrix" under M.
package sortkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CatchAll is the bucket for titles whose first significant character is a
// digit or symbol.
const CatchAll = "#"

// articles lists the leading tokens stripped before deriving a key, per
// language: French, English, German, Spanish. Only one leading article is
// ever removed, and only as a whole token.
var articles = map[string]struct{}{
	// French
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {},
	"de": {}, "du": {}, "au": {}, "aux": {},
	// English
	"the": {}, "a": {}, "an": {},
	// German
	"der": {}, "die": {}, "das": {}, "ein": {}, "eine": {},
	// Spanish
	"el": {}, "los": {}, "las": {},
}

// elisions are apostrophe-joined French articles ("L'Odyssée").
var elisions = []string{"l'", "d'", "l’", "d’"}

// ligatureFolder expands multi-character ligatures before decomposition;
// NFD alone leaves œ/æ/ß untouched.
var ligatureFolder = strings.NewReplacer(
	"œ", "oe", "Œ", "Oe",
	"æ", "ae", "Æ", "Ae",
	"ß", "ss",
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key returns the single-character alphabetic bucket for a title: an
// uppercase A-Z letter, or CatchAll when the first significant character is
// a digit or symbol. Total over all inputs; the empty title maps to
// CatchAll.
func Key(title string) string {
	stripped := StripArticle(Fold(title))
	for _, r := range stripped {
		if unicode.IsSpace(r) {
			continue
		}
		switch {
		case r >= 'a' && r <= 'z':
			return string(r - ('a' - 'A'))
		case r >= 'A' && r <= 'Z':
			return string(r)
		default:
			return CatchAll
		}
	}
	return CatchAll
}

// FullKey returns the complete normalized ordering key for a title:
// diacritics folded, one leading article stripped, lowercased, reduced to
// a bare alphanumeric run. Used by the subdivision planner, which needs
// more than the first character and whose range labels must live in the
// same lexicographic space as the keys.
func FullKey(title string) string {
	stripped := StripArticle(Fold(title))
	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fold normalizes diacritics and ligatures to their ASCII expansions.
// Characters outside the Latin repertoire pass through unchanged.
func Fold(s string) string {
	folded := ligatureFolder.Replace(s)
	out, _, err := transform.String(diacriticStripper, folded)
	if err != nil {
		return folded
	}
	return out
}

// StripArticle removes at most one leading article token, matched
// case-insensitively against the four-language list. Elided French forms
// ("L'Avventura") count as articles even without a following space. The
// article must be a whole leading token: "Lesson" keeps its L.
func StripArticle(s string) string {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)

	for _, el := range elisions {
		if strings.HasPrefix(lower, el) && len(trimmed) > len(el) {
			return strings.TrimSpace(trimmed[len(el):])
		}
	}

	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx <= 0 {
		return trimmed
	}
	first := strings.ToLower(trimmed[:idx])
	first = strings.TrimRight(first, ".,;:!?")
	if _, ok := articles[first]; !ok {
		return trimmed
	}
	rest := strings.TrimSpace(trimmed[idx:])
	if rest == "" {
		return trimmed
	}
	return rest
}
