package model

import (
	"fmt"
	"strings"
)

// URL templates
const (
	VideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Duration display constants
const (
	UnknownDurationLabel = "—"
	SecondsPerHour       = 3600
	SecondsPerMinute     = 60
)

// PlaylistEntry is one playlist item's metadata prior to download.
// The ordered entry list defines Index identity; entries are immutable
// once resolved.
type PlaylistEntry struct {
	Index           int
	ID              string
	Title           string
	DurationSeconds int // 0 means unknown
	URL             string
}

// Playlist is the resolved metadata for one playlist URL. The Entries
// slice is replaced wholesale whenever a new playlist URL is submitted.
type Playlist struct {
	ID       string
	Title    string
	Uploader string
	URL      string
	Entries  []PlaylistEntry
}

// NewEntry creates a PlaylistEntry with its canonical watch URL.
func NewEntry(index int, id, title string, durationSeconds int) PlaylistEntry {
	return PlaylistEntry{
		Index:           index,
		ID:              id,
		Title:           title,
		DurationSeconds: durationSeconds,
		URL:             fmt.Sprintf(VideoURLTemplate, id),
	}
}

// DurationString returns the duration formatted as mm:ss or hh:mm:ss,
// or a placeholder when the duration is unknown.
func (e PlaylistEntry) DurationString() string {
	if e.DurationSeconds <= 0 {
		return UnknownDurationLabel
	}
	hours := e.DurationSeconds / SecondsPerHour
	minutes := (e.DurationSeconds % SecondsPerHour) / SecondsPerMinute
	seconds := e.DurationSeconds % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// DisplayTitle returns the title, falling back to the entry URL when the
// title is empty.
func (e PlaylistEntry) DisplayTitle() string {
	if strings.TrimSpace(e.Title) != "" {
		return e.Title
	}
	return e.URL
}
