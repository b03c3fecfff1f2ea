// Package quality scores a media file's technical merit so conflict
// resolution can recommend which of two encodes to keep. Five weighted
// components, each 0-100: resolution, video codec, bitrate, audio, and
// size efficiency.
package quality

import "strings"

// Component weights. Size efficiency is deliberately a tiebreaker, not a
// dominant factor.
const (
	resolutionWeight = 0.30
	codecWeight      = 0.25
	bitrateWeight    = 0.20
	audioWeight      = 0.15
	sizeWeight       = 0.10
)

// MediaInfo is the technical metadata extracted from a file by the probe
// collaborator. A nil MediaInfo means extraction failed; scoring then
// degrades to a defined neutral result instead of erroring.
type MediaInfo struct {
	Width      int
	Height     int
	VideoCodec string
	Audio      []AudioTrack
}

// AudioTrack describes one audio stream.
type AudioTrack struct {
	Codec    string
	Channels int
}

// Score is the derived per-file quality breakdown. Recomputed on demand,
// never persisted.
type Score struct {
	Resolution     float64
	VideoCodec     float64
	Bitrate        float64
	Audio          float64
	SizeEfficiency float64
	Total          float64
}

// resolutionSteps anchors the step function on common vertical pixel
// counts; intermediate heights interpolate between neighbors.
var resolutionSteps = []struct {
	height int
	score  float64
}{
	{2160, 100},
	{1440, 85},
	{1080, 75},
	{720, 50},
	{576, 30},
	{480, 25},
}

// codecScores ranks video codecs, modern above legacy. Unrecognized codecs
// get a low-but-nonzero default: unknown is not proven inferior.
var codecScores = map[string]float64{
	"av1":   100,
	"hevc":  90,
	"h265":  90,
	"x265":  90,
	"vp9":   85,
	"h264":  70,
	"x264":  70,
	"avc":   70,
	"vc1":   50,
	"mpeg4": 40,
	"xvid":  40,
	"divx":  40,
	"mpeg2": 30,
}

const unknownCodecScore = 40

// audioCodecScores ranks audio codecs per track; the best track wins.
var audioCodecScores = map[string]float64{
	"atmos":   100,
	"truehd":  95,
	"dtshdma": 95,
	"dtsx":    95,
	"dtshd":   90,
	"flac":    90,
	"pcm":     85,
	"dts":     80,
	"eac3":    70,
	"ddp":     70,
	"ac3":     60,
	"dd":      60,
	"opus":    55,
	"aac":     50,
	"vorbis":  45,
	"mp3":     30,
	"mp2":     25,
}

const unknownAudioScore = 40

// expectedBitrateKbps gives the reference bitrate per resolution tier used
// by the bitrate component.
var expectedBitrateKbps = []struct {
	height int
	kbps   float64
}{
	{2160, 16000},
	{1440, 10000},
	{1080, 8000},
	{720, 4000},
	{576, 2500},
	{0, 2000},
}

// referenceMBPerMinute anchors the size-efficiency component: the MB/min a
// well-encoded file of each tier lands near.
var referenceMBPerMinute = []struct {
	height int
	mbMin  float64
}{
	{2160, 120},
	{1440, 80},
	{1080, 60},
	{720, 30},
	{576, 18},
	{0, 15},
}

// neutralSizeScore is the size-efficiency midpoint used when media info is
// missing, so unanalyzable files still compare without crashing.
const neutralSizeScore = 50

// Compute scores a file from its technical metadata, byte size, and
// duration. A nil info yields the defined degraded result: zero
// resolution/codec/bitrate/audio components and a neutral size component.
func Compute(info *MediaInfo, sizeBytes int64, durationS int) Score {
	if info == nil {
		s := Score{SizeEfficiency: neutralSizeScore}
		s.Total = total(s)
		return s
	}
	s := Score{
		Resolution:     ResolutionScore(info.Height),
		VideoCodec:     CodecScore(info.VideoCodec),
		Bitrate:        BitrateScore(info.Height, sizeBytes, durationS),
		Audio:          AudioScore(info.Audio),
		SizeEfficiency: SizeEfficiencyScore(info.Height, sizeBytes, durationS),
	}
	s.Total = total(s)
	return s
}

func total(s Score) float64 {
	return clamp(resolutionWeight*s.Resolution +
		codecWeight*s.VideoCodec +
		bitrateWeight*s.Bitrate +
		audioWeight*s.Audio +
		sizeWeight*s.SizeEfficiency)
}

// ResolutionScore is a step function on vertical pixel count with linear
// interpolation between the anchor heights. Unknown (non-positive) heights
// score 0.
func ResolutionScore(height int) float64 {
	if height <= 0 {
		return 0
	}
	steps := resolutionSteps
	if height >= steps[0].height {
		return steps[0].score
	}
	last := steps[len(steps)-1]
	if height <= last.height {
		// Interpolate downward toward zero below the lowest anchor.
		return clamp(last.score * float64(height) / float64(last.height))
	}
	for i := 1; i < len(steps); i++ {
		upper, lower := steps[i-1], steps[i]
		if height >= lower.height {
			span := float64(upper.height - lower.height)
			frac := float64(height-lower.height) / span
			return clamp(lower.score + frac*(upper.score-lower.score))
		}
	}
	return 0
}

// CodecScore looks up the video codec tier. Matching is case-insensitive
// and tolerant of dotted names ("h.265").
func CodecScore(codec string) float64 {
	key := normalizeToken(codec)
	if key == "" {
		return 0
	}
	if score, ok := codecScores[key]; ok {
		return score
	}
	return unknownCodecScore
}

// BitrateScore compares the observed bitrate (size*8/duration) against the
// resolution-appropriate expectation. Observed bitrate is capped at 200%
// of expected so bloat is never rewarded; at or above the expectation the
// component is full.
func BitrateScore(height int, sizeBytes int64, durationS int) float64 {
	if sizeBytes <= 0 || durationS <= 0 {
		return 0
	}
	expected := expectedFor(height)
	observed := float64(sizeBytes) * 8 / float64(durationS) / 1000 // kbps
	if observed > 2*expected {
		observed = 2 * expected
	}
	return clamp(100 * observed / expected)
}

// AudioScore takes the best of all tracks: 70% codec tier, 30% channel
// count. One excellent track is not penalized by a mediocre companion.
// No tracks scores 0.
func AudioScore(tracks []AudioTrack) float64 {
	best := 0.0
	for _, track := range tracks {
		codec := float64(unknownAudioScore)
		if key := normalizeToken(track.Codec); key != "" {
			if s, ok := audioCodecScores[key]; ok {
				codec = s
			}
		}
		score := 0.7*codec + 0.3*channelScore(track.Channels)
		if score > best {
			best = score
		}
	}
	return clamp(best)
}

// SizeEfficiencyScore rewards smaller files against a resolution-tier
// MB-per-minute reference. At the reference it is the neutral midpoint;
// leaner files climb toward 100, files at double the reference or worse
// fall to 0.
func SizeEfficiencyScore(height int, sizeBytes int64, durationS int) float64 {
	if sizeBytes <= 0 || durationS <= 0 {
		return neutralSizeScore
	}
	ref := referenceFor(height)
	mbPerMin := float64(sizeBytes) / (1024 * 1024) / (float64(durationS) / 60)
	if mbPerMin <= ref {
		return clamp(100 - 50*mbPerMin/ref)
	}
	return clamp(50 - 50*(mbPerMin-ref)/ref)
}

func channelScore(channels int) float64 {
	switch {
	case channels >= 8:
		return 100
	case channels >= 6:
		return 85
	case channels >= 3:
		return 70
	case channels == 2:
		return 50
	case channels == 1:
		return 30
	default:
		return 0
	}
}

func expectedFor(height int) float64 {
	for _, tier := range expectedBitrateKbps {
		if height >= tier.height {
			return tier.kbps
		}
	}
	return expectedBitrateKbps[len(expectedBitrateKbps)-1].kbps
}

func referenceFor(height int) float64 {
	for _, tier := range referenceMBPerMinute {
		if height >= tier.height {
			return tier.mbMin
		}
	}
	return referenceMBPerMinute[len(referenceMBPerMinute)-1].mbMin
}

func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
