package model

import (
	"time"
)

// DownloadMode selects between full video and audio-only downloads.
type DownloadMode string

const (
	ModeVideo     DownloadMode = "video"
	ModeAudioOnly DownloadMode = "audio"
)

// String returns the string representation of the mode.
func (m DownloadMode) String() string {
	return string(m)
}

// QualityTier is a named video-quality ceiling used to select among
// available formats.
type QualityTier string

const (
	TierBest  QualityTier = "best"
	Tier1080p QualityTier = "1080p"
	Tier720p  QualityTier = "720p"
	Tier480p  QualityTier = "480p"
	Tier360p  QualityTier = "360p"
)

// Default pacing between items. Exists to keep a live status feed
// readable, not for rate limiting.
const DefaultPacing = 1 * time.Second

// TierOptions returns the selectable quality tiers in display order.
func TierOptions() []QualityTier {
	return []QualityTier{TierBest, Tier1080p, Tier720p, Tier480p, Tier360p}
}

// Ceiling returns the maximum video height for the tier, or 0 when the
// tier has no ceiling (best available).
func (t QualityTier) Ceiling() int {
	switch t {
	case Tier1080p:
		return 1080
	case Tier720p:
		return 720
	case Tier480p:
		return 480
	case Tier360p:
		return 360
	default:
		return 0
	}
}

// ParseTier maps a stored string onto a known tier, defaulting to best.
func ParseTier(s string) QualityTier {
	switch QualityTier(s) {
	case Tier1080p, Tier720p, Tier480p, Tier360p:
		return QualityTier(s)
	default:
		return TierBest
	}
}

// DownloadOptions configures one batch invocation. Constructed once per
// batch and immutable while it runs.
type DownloadOptions struct {
	Mode      DownloadMode
	Tier      QualityTier
	OutputDir string
	Pacing    time.Duration
}
