package ui

import (
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/playlist-downloader/internal/config"
	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/transcode"
)

// Download location labels shown in the dialog
const (
	labelDirUser   = "User Downloads folder"
	labelDirApp    = "Next to the application"
	labelDirCustom = "Custom directory"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings   *config.Settings
	transcoder transcode.Transcoder
	window     fyne.Window
	dialog     *dialog.ConfirmDialog

	// UI components
	dirModeRadio   *widget.RadioGroup
	customDirEntry *widget.Entry
	browseBtn      *widget.Button
	modeSelect     *widget.Select
	tierSelect     *widget.Select
	pacingEntry    *widget.Entry
	historyCheck   *widget.Check
	ffmpegLabel    *widget.Label
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, transcoder transcode.Transcoder, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:   settings,
		transcoder: transcoder,
		window:     window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	// Download location
	sd.dirModeRadio = widget.NewRadioGroup(
		[]string{labelDirUser, labelDirApp, labelDirCustom},
		func(selected string) {
			if selected == labelDirCustom {
				sd.customDirEntry.Enable()
				sd.browseBtn.Enable()
			} else {
				sd.customDirEntry.Disable()
				sd.browseBtn.Disable()
			}
		},
	)

	sd.customDirEntry = widget.NewEntry()
	sd.customDirEntry.SetPlaceHolder("Custom download directory")
	sd.browseBtn = widget.NewButton("Browse", sd.onBrowseDirectory)
	customDirRow := container.NewBorder(nil, nil, nil, sd.browseBtn, sd.customDirEntry)

	// Download mode
	sd.modeSelect = widget.NewSelect([]string{string(model.ModeVideo), string(model.ModeAudioOnly)}, nil)

	// Quality tier
	tierOptions := []string{}
	for _, tier := range model.TierOptions() {
		tierOptions = append(tierOptions, string(tier))
	}
	sd.tierSelect = widget.NewSelect(tierOptions, nil)

	// Pacing between items
	sd.pacingEntry = widget.NewEntry()
	sd.pacingEntry.SetPlaceHolder("Pause between items, ms")

	// History toggle
	sd.historyCheck = widget.NewCheck("Record finished batches", nil)

	// ffmpeg availability note for audio mode
	sd.ffmpegLabel = widget.NewLabel("")

	form := container.NewVBox(
		widget.NewLabel("Download Location"),
		widget.NewSeparator(),
		sd.dirModeRadio,
		customDirRow,

		widget.NewSeparator(),
		widget.NewLabel("Download Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Mode:"),
		sd.modeSelect,
		sd.ffmpegLabel,

		widget.NewLabel("Quality:"),
		sd.tierSelect,

		widget.NewLabel("Pacing (ms):"),
		sd.pacingEntry,

		widget.NewSeparator(),
		sd.historyCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	switch sd.settings.GetDirMode() {
	case config.DirModeApp:
		sd.dirModeRadio.SetSelected(labelDirApp)
	case config.DirModeCustom:
		sd.dirModeRadio.SetSelected(labelDirCustom)
	default:
		sd.dirModeRadio.SetSelected(labelDirUser)
	}
	sd.customDirEntry.SetText(sd.settings.GetCustomDirectory())

	sd.modeSelect.SetSelected(string(sd.settings.GetDownloadMode()))
	sd.tierSelect.SetSelected(string(sd.settings.GetQualityTier()))
	sd.pacingEntry.SetText(strconv.FormatInt(sd.settings.GetPacing().Milliseconds(), 10))
	sd.historyCheck.SetChecked(sd.settings.GetHistoryEnabled())

	if sd.transcoder != nil && sd.transcoder.Available() {
		sd.ffmpegLabel.SetText("ffmpeg found: audio downloads convert to MP3")
	} else {
		sd.ffmpegLabel.SetText("ffmpeg not found: audio downloads keep their native format")
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.customDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	switch sd.dirModeRadio.Selected {
	case labelDirApp:
		sd.settings.SetDirMode(config.DirModeApp)
	case labelDirCustom:
		sd.settings.SetDirMode(config.DirModeCustom)
		if sd.customDirEntry.Text != "" {
			sd.settings.SetCustomDirectory(sd.customDirEntry.Text)
		}
	default:
		sd.settings.SetDirMode(config.DirModeUser)
	}

	if sd.modeSelect.Selected != "" {
		sd.settings.SetDownloadMode(model.DownloadMode(sd.modeSelect.Selected))
	}
	if sd.tierSelect.Selected != "" {
		sd.settings.SetQualityTier(model.ParseTier(sd.tierSelect.Selected))
	}
	if millis, err := strconv.Atoi(sd.pacingEntry.Text); err == nil && millis >= 0 {
		sd.settings.SetPacing(time.Duration(millis) * time.Millisecond)
	}
	sd.settings.SetHistoryEnabled(sd.historyCheck.Checked)

	dialog.ShowInformation("Settings", "Settings saved successfully!", sd.window)
}
