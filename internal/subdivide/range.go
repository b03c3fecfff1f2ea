package subdivide

import (
	"fmt"
	"sort"
	"strings"

	"cinetree/internal/sortkey"
)

// Range is a named alphabetic bucket: an inclusive Start-End slice of
// sort-key space plus the member titles assigned to it by the planner.
type Range struct {
	Start  string
	End    string
	Titles []string
}

// Label renders the directory name for the range, always as a Start-End
// pair ("Aa-Cz"), never a bare letter.
func (r Range) Label() string {
	return r.Start + "-" + r.End
}

// Set is an ordered, contiguous, non-overlapping collection of ranges
// jointly covering the whole key space of their parent. Membership is
// determined by successive Starts, so no legal key can fall between two
// adjacent ranges.
type Set []Range

// Locate returns the index of the range that owns the title's key. Keys
// below the first Start (digits, symbols, empty) belong to the first
// range, which is extended to the parent's lower boundary. Returns -1 only
// for an empty set.
func (s Set) Locate(title string) int {
	if len(s) == 0 {
		return -1
	}
	key := sortkey.FullKey(title)
	for i := len(s) - 1; i > 0; i-- {
		if key >= strings.ToLower(s[i].Start) {
			return i
		}
	}
	return 0
}

// Equal reports whether two sets describe the same partition: same labels
// in the same order with the same memberships. Used to detect a no-op plan
// so maintenance can skip filesystem work.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i].Start != other[i].Start || s[i].End != other[i].End {
			return false
		}
		if len(s[i].Titles) != len(other[i].Titles) {
			return false
		}
		for j := range s[i].Titles {
			if s[i].Titles[j] != other[i].Titles[j] {
				return false
			}
		}
	}
	return true
}

// Labels returns the directory names for every range, in order.
func (s Set) Labels() []string {
	labels := make([]string, len(s))
	for i, r := range s {
		labels[i] = r.Label()
	}
	return labels
}

// ParseLabel splits a range directory name back into its Start and End
// keys. The reverse of Range.Label.
func ParseLabel(label string) (start, end string, err error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("subdivision label %q: want Start-End", label)
	}
	return parts[0], parts[1], nil
}

// SetFromLabels rebuilds a Set (without memberships) from existing range
// directory names, sorted into key order. Lets maintenance locate titles
// against the on-disk partition before deciding whether to replan.
func SetFromLabels(labels []string) (Set, error) {
	set := make(Set, 0, len(labels))
	for _, label := range labels {
		start, end, err := ParseLabel(label)
		if err != nil {
			return nil, err
		}
		set = append(set, Range{Start: start, End: end})
	}
	sort.Slice(set, func(i, j int) bool {
		return strings.ToLower(set[i].Start) < strings.ToLower(set[j].Start)
	})
	return set, nil
}

// prevLabel returns the label immediately preceding s in key order, so an
// End can sit flush against the next range's Start. "Ti" yields "Th",
// "Ba" yields "B", a bare "B" yields "A". The caller replaces results at
// or below the parent boundary with the boundary itself.
func prevLabel(s, parentStart string) string {
	if s == "" {
		return parentStart
	}
	lower := strings.ToLower(s)
	if lower <= strings.ToLower(parentStart) {
		return parentStart
	}
	last := lower[len(lower)-1]
	switch {
	case last > 'a' && last <= 'z':
		return displayCase(lower[:len(lower)-1] + string(last-1))
	case last >= '1' && last <= '9':
		return displayCase(lower[:len(lower)-1] + string(last-1))
	case len(lower) > 1:
		// Dropping a trailing 'a' lands just below the original:
		// "azzz" < "b" < "ba".
		return displayCase(lower[:len(lower)-1])
	default:
		return parentStart
	}
}

// displayCase renders a key as a directory-friendly label: first character
// uppercased, the rest lower.
func displayCase(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
}
