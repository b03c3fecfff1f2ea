package contentid

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"cinetree/internal/quality"
	"cinetree/internal/textutil"
)

// ConflictKind classifies a destination collision.
type ConflictKind string

const (
	// Duplicate: bit-identical content. Always safe to discard the
	// incoming copy.
	Duplicate ConflictKind = "duplicate"
	// NameCollision: same target path, different content. Requires a
	// keep-old/keep-new/keep-both decision, never a silent overwrite.
	NameCollision ConflictKind = "name-collision"
	// SimilarContent: two different destinations that appear to carry the
	// same underlying title. A heuristic signal surfaced for side-by-side
	// comparison, not an automatic decision.
	SimilarContent ConflictKind = "similar-content"
)

// SimilarTitleCutoff is the title-similarity score at or above which two
// distinct destinations are flagged as SimilarContent. Chosen between the
// auto-validate uniqueness threshold (85) and the override (95).
const SimilarTitleCutoff = 88.0

// ConflictInfo is the structured decision handed to the caller when a
// transfer hits an existing file. Transient; computed at transfer time.
type ConflictInfo struct {
	Kind         ConflictKind
	IncomingPath string
	ExistingPath string
	IncomingHash Hash
	ExistingHash Hash
	// Quality breakdowns are attached by the caller when it has probe
	// data; nil means not analyzed.
	IncomingQuality *quality.Score
	ExistingQuality *quality.Score
}

// Classify compares an incoming file against an existing file occupying
// the same destination path. Identical fingerprints mean Duplicate;
// differing content at the same path is a NameCollision. Hashing errors
// (including a vanished source) propagate so the caller never mistakes
// them for "no conflict".
func Classify(incomingPath, existingPath string) (ConflictInfo, error) {
	incoming, err := HashFile(incomingPath)
	if err != nil {
		return ConflictInfo{}, err
	}
	existing, err := HashFile(existingPath)
	if err != nil {
		return ConflictInfo{}, err
	}
	info := ConflictInfo{
		IncomingPath: incomingPath,
		ExistingPath: existingPath,
		IncomingHash: incoming,
		ExistingHash: existing,
	}
	if incoming == existing {
		info.Kind = Duplicate
	} else {
		info.Kind = NameCollision
	}
	return info, nil
}

// SimilarTitles reports whether two destination titles likely represent
// the same underlying work ("Title" vs "Title (2021)"), using the
// token-sort similarity at SimilarTitleCutoff. Parenthesized years and
// bracketed release tags are ignored; differing significant words
// ("Part Two") are not, so a sequel never reads as the same work just
// because it shares the base title.
func SimilarTitles(a, b string) bool {
	return textutil.TokenSortRatio(trimTitle(a), trimTitle(b)) >= SimilarTitleCutoff
}

var annotationPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

func trimTitle(s string) string {
	base := filepath.Base(s)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(annotationPattern.ReplaceAllString(base, " "))
}

// Comparison is the side-by-side summary surfaced for a SimilarContent
// decision: counts, sizes, and technical characteristics of both sides.
type Comparison struct {
	Path       string
	FileCount  int
	TotalBytes int64
	Resolution int
	VideoCodec string
}

// Summarize builds a Comparison for a path, which may be a single file or
// a directory of files. Probe data is optional.
func Summarize(path string, info *quality.MediaInfo) (Comparison, error) {
	cmp := Comparison{Path: path}
	st, err := os.Stat(path)
	if err != nil {
		return cmp, err
	}
	if !st.IsDir() {
		cmp.FileCount = 1
		cmp.TotalBytes = st.Size()
	} else {
		err := filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			cmp.FileCount++
			cmp.TotalBytes += fi.Size()
			return nil
		})
		if err != nil {
			return cmp, err
		}
	}
	if info != nil {
		cmp.Resolution = info.Height
		cmp.VideoCodec = info.VideoCodec
	}
	return cmp, nil
}

// HumanSize renders the total size for display.
func (c Comparison) HumanSize() string {
	return humanize.IBytes(uint64(c.TotalBytes))
}
