package subdivide

import (
	"sort"
	"strings"

	"cinetree/internal/sortkey"
)

// DefaultMinGroupSize is the member count below which a prefix group is
// left ungrouped.
const DefaultMinGroupSize = 3

// minSharedPrefix is how many leading characters two distinct first words
// must share before they are considered the same family.
const minSharedPrefix = 4

// PrefixGroup proposes a sub-bucket for titles sharing a leading word
// family. Name is the shortest prefix shared by every member's first word.
type PrefixGroup struct {
	Name   string
	Titles []string
}

// FindGroups detects recurring first-word prefixes among titles sharing a
// bucket. Leading articles are stripped before the first word is taken;
// distinct words merge when they share at least four leading characters,
// and the merged group keeps the shortest shared prefix as its name
// ("Amant"/"Amants"/"Amante" collapse to "Amant"). Groups smaller than
// minCount are not emitted. A non-positive minCount uses the default of 3.
func FindGroups(titles []string, minCount int) []PrefixGroup {
	return FindGroupsExcluding(titles, nil, minCount)
}

// FindGroupsExcluding is FindGroups minus titles whose first word already
// matches an existing group name, keeping repeated maintenance runs from
// proposing the same sub-bucket twice.
func FindGroupsExcluding(titles []string, existingGroups []string, minCount int) []PrefixGroup {
	if minCount < 1 {
		minCount = DefaultMinGroupSize
	}

	existing := make([]string, 0, len(existingGroups))
	for _, name := range existingGroups {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			existing = append(existing, name)
		}
	}

	byWord := make(map[string][]string)
	for _, title := range titles {
		word := firstWordKey(title)
		if word == "" || matchesExisting(word, existing) {
			continue
		}
		byWord[word] = append(byWord[word], title)
	}
	if len(byWord) == 0 {
		return nil
	}

	words := make([]string, 0, len(byWord))
	for w := range byWord {
		words = append(words, w)
	}
	sort.Strings(words)

	var groups []PrefixGroup
	clusterPrefix := words[0]
	clusterWords := []string{words[0]}
	flush := func() {
		var members []string
		for _, w := range clusterWords {
			members = append(members, byWord[w]...)
		}
		if len(members) < minCount {
			return
		}
		sort.Slice(members, func(i, j int) bool {
			ki, kj := sortkey.FullKey(members[i]), sortkey.FullKey(members[j])
			if ki != kj {
				return ki < kj
			}
			return members[i] < members[j]
		})
		groups = append(groups, PrefixGroup{Name: displayCase(clusterPrefix), Titles: members})
	}
	for _, w := range words[1:] {
		if shared := commonPrefixLen(clusterPrefix, w); shared >= minSharedPrefix {
			clusterPrefix = clusterPrefix[:shared]
			clusterWords = append(clusterWords, w)
			continue
		}
		flush()
		clusterPrefix = w
		clusterWords = []string{w}
	}
	flush()
	return groups
}

// firstWordKey returns the normalized first word of a title after article
// stripping: lowercase alphanumerics only, empty when nothing remains.
func firstWordKey(title string) string {
	stripped := sortkey.StripArticle(sortkey.Fold(title))
	fields := strings.Fields(stripped)
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToLower(fields[0]) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchesExisting(word string, existing []string) bool {
	for _, name := range existing {
		if strings.HasPrefix(word, name) {
			return true
		}
	}
	return false
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
