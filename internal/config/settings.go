package config

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/platform"
)

// DirMode selects where downloads are written.
type DirMode string

const (
	// DirModeUser writes into a subfolder of the user's Downloads
	// directory.
	DirModeUser DirMode = "user"
	// DirModeApp writes next to the application binary.
	DirModeApp DirMode = "app"
	// DirModeCustom writes into a user-chosen directory.
	DirModeCustom DirMode = "custom"
)

// Settings keys for Fyne preferences
const (
	KeyDirMode        = "download_dir_mode"
	KeyCustomDir      = "custom_download_directory"
	KeyDownloadMode   = "download_mode"
	KeyQualityTier    = "quality_tier"
	KeyPacingMillis   = "pacing_millis"
	KeyHistoryEnabled = "history_enabled"
)

// Default values
const (
	DefaultDirMode        = DirModeUser
	DefaultHistoryEnabled = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDirMode returns the configured download location mode
func (s *Settings) GetDirMode() DirMode {
	mode := s.app.Preferences().String(KeyDirMode)
	switch DirMode(mode) {
	case DirModeUser, DirModeApp, DirModeCustom:
		return DirMode(mode)
	default:
		s.SetDirMode(DefaultDirMode)
		return DefaultDirMode
	}
}

// SetDirMode sets the download location mode
func (s *Settings) SetDirMode(mode DirMode) {
	s.app.Preferences().SetString(KeyDirMode, string(mode))
}

// GetCustomDirectory returns the custom download directory
func (s *Settings) GetCustomDirectory() string {
	return s.app.Preferences().String(KeyCustomDir)
}

// SetCustomDirectory sets the custom download directory
func (s *Settings) SetCustomDirectory(dir string) {
	s.app.Preferences().SetString(KeyCustomDir, dir)
}

// ResolveDownloadDirectory maps the configured mode to a concrete
// path. A custom mode without a stored path falls back to the user
// Downloads location.
func (s *Settings) ResolveDownloadDirectory() string {
	switch s.GetDirMode() {
	case DirModeApp:
		if dir, err := platform.GetAppDownloadsDir(); err == nil {
			return dir
		}
		return userDownloadsOrFallback()
	case DirModeCustom:
		if dir := s.GetCustomDirectory(); dir != "" {
			return dir
		}
		return userDownloadsOrFallback()
	default:
		return userDownloadsOrFallback()
	}
}

// userDownloadsOrFallback resolves the user Downloads location, or the
// app-local folder when the home directory is unavailable.
func userDownloadsOrFallback() string {
	if dir, err := platform.GetUserDownloadsDir(); err == nil {
		return dir
	}
	if dir, err := platform.GetAppDownloadsDir(); err == nil {
		return dir
	}
	return platform.AppDownloadsFolder
}

// GetDownloadMode returns the configured download mode
func (s *Settings) GetDownloadMode() model.DownloadMode {
	mode := s.app.Preferences().String(KeyDownloadMode)
	if mode == string(model.ModeAudioOnly) {
		return model.ModeAudioOnly
	}
	if mode == "" {
		s.SetDownloadMode(model.ModeVideo)
	}
	return model.ModeVideo
}

// SetDownloadMode sets the download mode
func (s *Settings) SetDownloadMode(mode model.DownloadMode) {
	s.app.Preferences().SetString(KeyDownloadMode, string(mode))
}

// GetQualityTier returns the configured quality tier
func (s *Settings) GetQualityTier() model.QualityTier {
	tier := s.app.Preferences().String(KeyQualityTier)
	if tier == "" {
		s.SetQualityTier(model.TierBest)
		return model.TierBest
	}
	return model.ParseTier(tier)
}

// SetQualityTier sets the quality tier
func (s *Settings) SetQualityTier(tier model.QualityTier) {
	s.app.Preferences().SetString(KeyQualityTier, string(tier))
}

// GetPacing returns the pause between batch items
func (s *Settings) GetPacing() time.Duration {
	millis := s.app.Preferences().Int(KeyPacingMillis)
	if millis <= 0 {
		return model.DefaultPacing
	}
	return time.Duration(millis) * time.Millisecond
}

// SetPacing sets the pause between batch items
func (s *Settings) SetPacing(pacing time.Duration) {
	if pacing < 0 {
		pacing = 0
	}
	s.app.Preferences().SetInt(KeyPacingMillis, int(pacing.Milliseconds()))
}

// GetHistoryEnabled returns whether finished batches are recorded
func (s *Settings) GetHistoryEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyHistoryEnabled, DefaultHistoryEnabled)
}

// SetHistoryEnabled sets whether finished batches are recorded
func (s *Settings) SetHistoryEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyHistoryEnabled, enabled)
}

// DownloadOptions builds the batch options from the stored settings.
func (s *Settings) DownloadOptions() model.DownloadOptions {
	return model.DownloadOptions{
		Mode:      s.GetDownloadMode(),
		Tier:      s.GetQualityTier(),
		OutputDir: s.ResolveDownloadDirectory(),
		Pacing:    s.GetPacing(),
	}
}

// GetDirModeOptions returns the selectable download locations
func (s *Settings) GetDirModeOptions() []DirMode {
	return []DirMode{DirModeUser, DirModeApp, DirModeCustom}
}
