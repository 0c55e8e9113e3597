package platform

import (
	"fmt"
	"regexp"
	"strings"
)

// URL parameters
const (
	PlaylistURLParam       = "list="
	PlaylistParamSeparator = "&"
)

// playlistURLPattern matches a YouTube playlist URL: optional scheme,
// optional www., a recognized host, the /playlist path, and a non-empty
// list= query value.
var playlistURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/playlist\?.*\blist=[A-Za-z0-9_-]+`)

// IsValidPlaylistURL reports whether the candidate string has the shape
// of a YouTube playlist URL. Pure function, no network access.
func IsValidPlaylistURL(url string) bool {
	return playlistURLPattern.MatchString(strings.TrimSpace(url))
}

// ExtractPlaylistID extracts the playlist ID from a playlist URL: the
// value of the list= parameter, up to the next parameter separator.
func ExtractPlaylistID(url string) (string, error) {
	if !strings.Contains(url, PlaylistURLParam) {
		return "", fmt.Errorf("URL does not contain playlist parameter: %s", url)
	}

	parts := strings.SplitN(url, PlaylistURLParam, 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	playlistID := parts[1]
	if idx := strings.Index(playlistID, PlaylistParamSeparator); idx >= 0 {
		playlistID = playlistID[:idx]
	}
	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID in URL: %s", url)
	}
	return playlistID, nil
}
