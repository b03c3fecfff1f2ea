// Package subdivide computes balanced alphabetic partitions of a directory
// whose entry count crossed its ceiling, and prefix groupings of titles
// that share a leading word. All functions are pure and deterministic:
// planning twice over the same input yields the identical result, and a
// plan that matches the current layout is detectable as a no-op.
package subdivide

import (
	"fmt"
	"sort"
	"strings"

	"cinetree/internal/sortkey"
)

// Default parent span when the planner is run over a whole library letter
// space rather than an existing subdivision.
const (
	DefaultParentStart = "A"
	DefaultParentEnd   = "Z"
)

type entry struct {
	title string
	key   string
}

// Plan partitions titles into alphabetic ranges of at most maxPerBucket
// members, balanced so group sizes differ by at most one, spanning the full
// default parent boundary. A non-positive maxPerBucket is a contract
// violation and the only error this function returns.
func Plan(titles []string, maxPerBucket int) (Set, error) {
	return PlanWithin(DefaultParentStart, DefaultParentEnd, titles, maxPerBucket)
}

// PlanWithin is Plan over an explicit parent span, used when re-splitting
// an existing subdivision ("S"–"Z") rather than a top-level letter space.
// The first range's Start and the last range's End are extended to the
// parent boundaries so any later-added key has a defined home.
func PlanWithin(parentStart, parentEnd string, titles []string, maxPerBucket int) (Set, error) {
	if maxPerBucket < 1 {
		return nil, fmt.Errorf("subdivide: max per bucket must be positive, got %d", maxPerBucket)
	}
	parentStart = displayCase(strings.TrimSpace(parentStart))
	parentEnd = displayCase(strings.TrimSpace(parentEnd))
	if parentStart == "" {
		parentStart = DefaultParentStart
	}
	if parentEnd == "" {
		parentEnd = DefaultParentEnd
	}

	entries := make([]entry, 0, len(titles))
	for _, title := range titles {
		entries = append(entries, entry{title: title, key: sortkey.FullKey(title)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].title < entries[j].title
	})

	if len(entries) <= maxPerBucket {
		return Set{{Start: parentStart, End: parentEnd, Titles: titlesOf(entries)}}, nil
	}

	cuts := balancedCuts(entries, maxPerBucket)

	set := make(Set, 0, len(cuts))
	prev := 0
	for _, cut := range cuts {
		set = append(set, Range{Titles: titlesOf(entries[prev:cut])})
		prev = cut
	}

	// Derive Start boundaries: the shortest key prefix (at least the
	// two-character convention) strictly above the previous group's last
	// key, so membership by successive Starts is exact.
	starts := make([]string, len(set))
	starts[0] = parentStart
	prev = 0
	for i := 1; i < len(cuts); i++ {
		prevLast := entries[cuts[i-1]-1].key
		first := entries[cuts[i-1]].key
		starts[i] = displayCase(boundaryPrefix(prevLast, first))
	}
	for i := range set {
		set[i].Start = starts[i]
		if i < len(set)-1 {
			set[i].End = prevLabel(starts[i+1], parentStart)
		} else {
			set[i].End = parentEnd
		}
	}
	return set, nil
}

// balancedCuts returns the end index of every group: the fewest group
// count that keeps every group at or under maxPerBucket, with sizes
// differing by at most one before duplicate-run nudges. A cut landing
// inside a run of identical keys moves past the run, or back to the run's
// start when moving forward would push the group over the ceiling; when
// neither direction keeps every group legal the group count is increased
// and the partition retried.
func balancedCuts(entries []entry, maxPerBucket int) []int {
	n := len(entries)
	for groups := (n + maxPerBucket - 1) / maxPerBucket; groups <= n; groups++ {
		if cuts, ok := tryCuts(entries, groups, maxPerBucket); ok {
			return cuts
		}
	}
	return forcedCuts(entries, maxPerBucket)
}

// tryCuts attempts a partition into exactly the given group count,
// reporting failure when any group would exceed the ceiling or when the
// nudged cuts leave an unabsorbed tail.
func tryCuts(entries []entry, groups, maxPerBucket int) ([]int, bool) {
	n := len(entries)
	base := n / groups
	extra := n % groups

	cuts := make([]int, 0, groups)
	prev := 0
	idx := 0
	for g := 0; g < groups; g++ {
		size := base
		if g < extra {
			size++
		}
		idx += size
		cut := idx
		if cut < n && entries[cut].key == entries[cut-1].key {
			runStart, runEnd := keyRun(entries, cut)
			cut = runEnd
			if cut-prev > maxPerBucket && runStart > prev {
				cut = runStart
			}
		}
		if cut >= n {
			if n-prev > maxPerBucket {
				return nil, false
			}
			return append(cuts, n), true
		}
		if cut-prev > maxPerBucket {
			return nil, false
		}
		cuts = append(cuts, cut)
		prev = cut
		idx = cut
	}
	// Every planned group is spent but entries remain.
	return nil, false
}

// keyRun returns the half-open bounds of the run of identical keys
// containing index i.
func keyRun(entries []entry, i int) (start, end int) {
	key := entries[i].key
	start = i
	for start > 0 && entries[start-1].key == key {
		start--
	}
	end = i
	for end < len(entries) && entries[end].key == key {
		end++
	}
	return start, end
}

// forcedCuts is the last resort when a single run of identical keys is
// longer than the ceiling itself: duplicates still never straddle a
// boundary, and the group holding the run goes over.
func forcedCuts(entries []entry, maxPerBucket int) []int {
	n := len(entries)
	cuts := make([]int, 0, (n+maxPerBucket-1)/maxPerBucket)
	idx := 0
	for idx < n {
		cut := idx + maxPerBucket
		if cut >= n {
			cuts = append(cuts, n)
			break
		}
		for cut < n && entries[cut].key == entries[cut-1].key {
			cut++
		}
		cuts = append(cuts, cut)
		idx = cut
	}
	if cuts[len(cuts)-1] != n {
		cuts = append(cuts, n)
	}
	return cuts
}

// boundaryPrefix picks the shortest prefix of first (minimum two
// characters when available) that sorts strictly above prevLast. first is
// guaranteed greater than prevLast by the cut adjustment, so the full key
// always qualifies as a last resort.
func boundaryPrefix(prevLast, first string) string {
	length := 2
	if length > len(first) {
		length = len(first)
	}
	for ; length < len(first); length++ {
		if first[:length] > prevLast {
			return first[:length]
		}
	}
	return first
}

func titlesOf(entries []entry) []string {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.title
	}
	return titles
}
