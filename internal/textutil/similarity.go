package textutil

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Ratio returns a 0-100 similarity between two strings based on
// Levenshtein distance over their full length. Two empty strings are
// identical; one empty string scores 0.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	if dist >= longest {
		return 0
	}
	return 100 * (1 - float64(dist)/float64(longest))
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares the
// rejoined sequences. Word order and punctuation do not affect the result.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio compares the shared-token core of both strings against each
// full token sequence and returns the best ratio. A title that is a strict
// token subset of another ("Kill Bill" vs "Kill Bill: Vol. 1") scores 100.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		if len(ta) == 0 && len(tb) == 0 {
			return 100
		}
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	core := strings.Join(common, " ")
	full1 := strings.TrimSpace(core + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(core + " " + strings.Join(onlyB, " "))

	best := Ratio(full1, full2)
	if core != "" {
		if r := Ratio(core, full1); r > best {
			best = r
		}
		if r := Ratio(core, full2); r > best {
			best = r
		}
	}
	return best
}

func sortedTokenString(s string) string {
	tokens := Tokenize(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}
