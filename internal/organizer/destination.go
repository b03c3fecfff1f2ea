package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cinetree/internal/sortkey"
	"cinetree/internal/subdivide"
	"cinetree/internal/textutil"
)

// Destination is where one title belongs: the canonical library file and
// its symlink in the alphabetic mirror.
type Destination struct {
	LibraryPath string
	LinkPath    string
	// Bucket is the mirror directory name the link lands in: a letter,
	// a subdivision label, or a prefix-group name.
	Bucket string
}

// DestinationFor resolves placement for a title. The canonical tree is
// keyed by the single-letter sort key; the mirror bucket honors whatever
// subdivision ranges and prefix groups already exist on disk, so repeated
// placements are stable until maintenance replans.
func (o *Organizer) DestinationFor(title string, year int, ext string) Destination {
	display := title
	if year > 0 {
		display = fmt.Sprintf("%s (%d)", title, year)
	}
	name := textutil.SanitizeFileName(display) + strings.ToLower(ext)

	letter := sortkey.Key(title)
	bucket := o.linkBucket(title, letter)
	return Destination{
		LibraryPath: filepath.Join(o.cfg.Paths.LibraryDir, letter, name),
		LinkPath:    filepath.Join(o.cfg.Paths.LinksDir, bucket, name),
		Bucket:      bucket,
	}
}

// mirrorLayout is the current shape of the links tree: prefix-group dirs
// nested in their alphabetic buckets, subdivision range dirs, and plain
// letter dirs.
type mirrorLayout struct {
	groups  []mirrorGroup
	ranges  subdivide.Set
	letters map[string]struct{}
}

type mirrorGroup struct {
	name   string
	parent string // bucket holding the group dir, "" for a legacy root-level one
}

func (g mirrorGroup) bucket() string {
	if g.parent == "" {
		return g.name
	}
	return filepath.Join(g.parent, g.name)
}

func (o *Organizer) linkBucket(title, letter string) string {
	layout := o.readMirror()

	fullKey := sortkey.FullKey(title)
	for _, group := range layout.groups {
		if strings.HasPrefix(fullKey, sortkey.FullKey(group.name)) {
			return group.bucket()
		}
	}
	if len(layout.ranges) > 0 {
		if idx := layout.ranges.Locate(title); idx >= 0 {
			r := layout.ranges[idx]
			// Only adopt a range when it actually covers this letter;
			// otherwise the mirror has no subdivision for it yet.
			if strings.EqualFold(r.Start[:1], letter) || strings.EqualFold(r.End[:1], letter) ||
				(strings.ToLower(r.Start[:1]) < strings.ToLower(letter) && strings.ToLower(letter) < strings.ToLower(r.End[:1])) {
				return r.Label()
			}
		}
	}
	return letter
}

// readMirror classifies the mirror's top-level directories. Names with a
// dash are subdivision labels and single characters are letter buckets;
// both are scanned for nested prefix-group dirs. Any other top-level name
// is treated as a legacy root-level group.
func (o *Organizer) readMirror() mirrorLayout {
	layout := mirrorLayout{letters: make(map[string]struct{})}
	entries, err := os.ReadDir(o.cfg.Paths.LinksDir)
	if err != nil {
		return layout
	}
	var labels []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.Contains(name, "-"):
			labels = append(labels, name)
			layout.groups = append(layout.groups, o.nestedGroups(name)...)
		case len([]rune(name)) == 1:
			layout.letters[strings.ToUpper(name)] = struct{}{}
			layout.groups = append(layout.groups, o.nestedGroups(name)...)
		default:
			layout.groups = append(layout.groups, mirrorGroup{name: name})
		}
	}
	// Longest group names first so "Batman" wins over a hypothetical "Bat".
	sort.Slice(layout.groups, func(i, j int) bool {
		if len(layout.groups[i].name) != len(layout.groups[j].name) {
			return len(layout.groups[i].name) > len(layout.groups[j].name)
		}
		return layout.groups[i].name < layout.groups[j].name
	})
	if set, err := subdivide.SetFromLabels(labels); err == nil {
		layout.ranges = set
	}
	return layout
}

// nestedGroups lists the group directories inside one alphabetic bucket.
func (o *Organizer) nestedGroups(bucket string) []mirrorGroup {
	entries, err := os.ReadDir(filepath.Join(o.cfg.Paths.LinksDir, bucket))
	if err != nil {
		return nil
	}
	var groups []mirrorGroup
	for _, entry := range entries {
		if entry.IsDir() {
			groups = append(groups, mirrorGroup{name: entry.Name(), parent: bucket})
		}
	}
	return groups
}
