package extract

import (
	"errors"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/playlist-downloader/internal/model"
)

const (
	// FallbackExtension is used when a format carries no usable MIME type.
	FallbackExtension = "bin"
)

var (
	// ErrNoVideoFormat means no progressive (audio+video) format exists.
	ErrNoVideoFormat = errors.New("no progressive audio+video format available")
	// ErrNoAudioFormat means no audio-only format exists.
	ErrNoAudioFormat = errors.New("no audio-only format available")
)

// selectFormat picks the stream format for an entry according to the
// download mode and quality tier.
//
// Video mode only considers progressive formats, i.e. those carrying
// both audio channels and video dimensions, so no muxing step is
// needed afterwards. Within the tier's height ceiling the tallest
// format wins; when every format exceeds the ceiling, the closest one
// above it is used instead.
func selectFormat(video *youtube.Video, opts model.DownloadOptions) (*youtube.Format, error) {
	candidates := make([]*youtube.Format, 0, len(video.Formats))
	for i := range video.Formats {
		format := &video.Formats[i]

		if opts.Mode == model.ModeAudioOnly {
			if format.AudioChannels == 0 {
				continue
			}
			if format.Width != 0 || format.Height != 0 {
				continue
			}
		} else {
			if format.AudioChannels == 0 || format.Width == 0 || format.Height == 0 {
				continue
			}
		}

		candidates = append(candidates, format)
	}

	if len(candidates) == 0 {
		if opts.Mode == model.ModeAudioOnly {
			return nil, ErrNoAudioFormat
		}
		return nil, ErrNoVideoFormat
	}

	if opts.Mode == model.ModeAudioOnly {
		return pickAudioFormat(candidates), nil
	}
	return pickVideoFormat(candidates, opts.Tier.Ceiling()), nil
}

// pickVideoFormat applies the height ceiling to progressive candidates.
func pickVideoFormat(candidates []*youtube.Format, ceiling int) *youtube.Format {
	if ceiling == 0 {
		var best *youtube.Format
		for _, f := range candidates {
			if best == nil || betterVideoFormat(f, best) {
				best = f
			}
		}
		return best
	}

	var best *youtube.Format
	for _, f := range candidates {
		if f.Height > ceiling {
			continue
		}
		if best == nil || f.Height > best.Height || (f.Height == best.Height && f.Bitrate > best.Bitrate) {
			best = f
		}
	}

	if best == nil {
		// Nothing under the ceiling: take the closest one above it.
		for _, f := range candidates {
			if best == nil || f.Height < best.Height || (f.Height == best.Height && f.Bitrate > best.Bitrate) {
				best = f
			}
		}
	}

	return best
}

// pickAudioFormat returns the audio-only candidate with the highest
// bitrate.
func pickAudioFormat(candidates []*youtube.Format) *youtube.Format {
	var best *youtube.Format
	for _, f := range candidates {
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

// betterVideoFormat reports whether a should be preferred over b when
// no height ceiling applies.
func betterVideoFormat(a, b *youtube.Format) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	return a.Bitrate > b.Bitrate
}

// extensionForFormat derives a file extension from the format's MIME
// type, e.g. "video/mp4; codecs=..." becomes "mp4".
func extensionForFormat(format *youtube.Format) string {
	mime := format.MimeType
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	parts := strings.Split(strings.TrimSpace(mime), "/")
	if len(parts) != 2 || parts[1] == "" {
		return FallbackExtension
	}
	switch parts[1] {
	case "3gpp":
		return "3gp"
	default:
		return parts[1]
	}
}
