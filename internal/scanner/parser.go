// Package scanner parses video filenames into the structured query the
// matcher scores against: title, year, episode numbering, and technical
// hints left behind by release names.
package scanner

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cinetree/internal/match"
)

var (
	episodeSEPattern = regexp.MustCompile(`(?i)\bS(\d{1,2})\s*E(\d{1,3})\b`)
	episodeXPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	yearPattern      = regexp.MustCompile(`[\(\[\. ](19\d{2}|20\d{2})[\)\]\. ]?`)
	resolutionHint   = regexp.MustCompile(`(?i)\b(\d{3,4})[pi]\b`)
	videoCodecHint   = regexp.MustCompile(`(?i)\b(x26[45]|h\.?26[45]|hevc|av1|avc|vp9|xvid|divx)\b`)
	audioCodecHint   = regexp.MustCompile(`(?i)\b(atmos|truehd|dts(?:-?hd)?(?:-?ma)?|e?ac3|ddp?|aac|flac|opus|mp3)\b`)

	// releaseTokens matches everything after which a release name stops
	// being a title: sources, codecs, resolutions, rip groups.
	releaseTokens = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|576p|480p|4k|uhd|bluray|blu-ray|bdrip|brrip|remux|web-?dl|webrip|web|hdtv|dvdrip|dvd|hdr10\+?|dolby\s?vision|dovi|hdr|x26[45]|h\.?26[45]|hevc|av1|avc|vp9|xvid|divx|atmos|truehd|dts(?:-?hd)?(?:-?ma)?|e?ac3|ddp?|aac|flac|opus|mp3|multi|vostfr|vf|subbed|dubbed|proper|repack|extended|remastered|internal|limited)\b.*$`)

	spaceCollapse = regexp.MustCompile(`\s+`)
)

var titleCaser = cases.Title(language.Und)

// Parse extracts a ParsedFilename from a file path. It never fails: a name
// that resists parsing yields a best-effort title and KindUnknown hints.
func Parse(path string) match.ParsedFilename {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	parsed := match.ParsedFilename{Kind: match.KindMovie}

	if m := resolutionHint.FindStringSubmatch(name); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			parsed.Resolution = v
		}
	}
	if m := videoCodecHint.FindString(name); m != "" {
		parsed.VideoCodec = strings.ToUpper(strings.ReplaceAll(m, ".", ""))
	}
	if m := audioCodecHint.FindString(name); m != "" {
		parsed.AudioCodec = strings.ToUpper(m)
	}

	working := name
	if m := episodeSEPattern.FindStringSubmatchIndex(working); m != nil {
		parsed.Kind = match.KindSeries
		parsed.Season = atoiSub(working, m, 1)
		parsed.Episode = atoiSub(working, m, 2)
		working = working[:m[0]]
	} else if m := episodeXPattern.FindStringSubmatchIndex(working); m != nil {
		parsed.Kind = match.KindSeries
		parsed.Season = atoiSub(working, m, 1)
		parsed.Episode = atoiSub(working, m, 2)
		working = working[:m[0]]
	}

	if m := yearPattern.FindStringSubmatchIndex(working); m != nil {
		if v, err := strconv.Atoi(working[m[2]:m[3]]); err == nil {
			parsed.Year = v
		}
		working = working[:m[0]]
	}

	working = releaseTokens.ReplaceAllString(working, "")
	parsed.Title = cleanTitle(working)
	return parsed
}

func atoiSub(s string, idx []int, group int) int {
	v, err := strconv.Atoi(s[idx[2*group]:idx[2*group+1]])
	if err != nil {
		return 0
	}
	return v
}

// cleanTitle turns dotted/underscored release naming into a displayable
// title: separators become spaces, leftover brackets drop, casing is
// normalized only when the input was shouty or all-lower.
func cleanTitle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '_', '-', '[', ']', '(', ')', '{', '}':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	title := strings.TrimSpace(spaceCollapse.ReplaceAllString(b.String(), " "))
	if title == "" {
		return title
	}
	if title == strings.ToUpper(title) || title == strings.ToLower(title) {
		title = titleCaser.String(strings.ToLower(title))
	}
	return title
}
