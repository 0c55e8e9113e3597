package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/playlist-downloader/internal/batch"
	"github.com/ytget/playlist-downloader/internal/config"
	"github.com/ytget/playlist-downloader/internal/event"
	"github.com/ytget/playlist-downloader/internal/extract"
	"github.com/ytget/playlist-downloader/internal/history"
	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/platform"
	"github.com/ytget/playlist-downloader/internal/thumbs"
	"github.com/ytget/playlist-downloader/internal/transcode"
)

// RootUI represents the main UI structure
type RootUI struct {
	window   fyne.Window
	settings *config.Settings

	extractor    extract.Extractor
	transcoder   transcode.Transcoder
	historyStore *history.Store
	thumbFetcher *thumbs.Fetcher

	// UI components
	urlEntry    *widget.Entry
	loadBtn     *widget.Button
	downloadBtn *widget.Button
	cancelBtn   *widget.Button
	modeSelect  *widget.Select
	tierSelect  *widget.Select

	playlistView *PlaylistView
	console      *StatusConsole

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite

	// Batch state
	playlist  *model.Playlist
	selection *model.Selection
	runMutex  sync.Mutex
	runCancel context.CancelFunc
}

// NewRootUI creates and initializes the main UI. The history store may
// be nil when history is unavailable.
func NewRootUI(window fyne.Window, app fyne.App, extractor extract.Extractor, transcoder transcode.Transcoder, historyStore *history.Store) *RootUI {
	settings := config.NewSettings(app)

	ui := &RootUI{
		window:       window,
		settings:     settings,
		extractor:    extractor,
		transcoder:   transcoder,
		historyStore: historyStore,
		thumbFetcher: thumbs.NewFetcher(),
		selection:    model.NewSelection(),
	}

	window.SetTitle("Playlist Downloader")

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	// URL entry row
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a YouTube playlist URL")
	ui.urlEntry.Validator = ui.validatePlaylistURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onLoadClick()
	}

	ui.loadBtn = widget.NewButton("Load", ui.onLoadClick)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.loadBtn, ui.urlEntry)

	// Notification panel under the URL input (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	// Playlist view with shared selection
	ui.playlistView = NewPlaylistView(ui.selection, ui.thumbFetcher)
	ui.playlistView.SetOnSelectionChange(ui.updateDownloadButton)

	// Batch controls
	ui.modeSelect = widget.NewSelect([]string{string(model.ModeVideo), string(model.ModeAudioOnly)}, func(selected string) {
		ui.settings.SetDownloadMode(model.DownloadMode(selected))
	})
	ui.modeSelect.SetSelected(string(ui.settings.GetDownloadMode()))

	tierOptions := []string{}
	for _, tier := range model.TierOptions() {
		tierOptions = append(tierOptions, string(tier))
	}
	ui.tierSelect = widget.NewSelect(tierOptions, func(selected string) {
		ui.settings.SetQualityTier(model.ParseTier(selected))
	})
	ui.tierSelect.SetSelected(string(ui.settings.GetQualityTier()))

	ui.downloadBtn = widget.NewButton("Download selected", ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()

	ui.cancelBtn = widget.NewButton("Cancel", ui.onCancelClick)
	ui.cancelBtn.Hide()

	ui.console = NewStatusConsole()

	bottomPanel := container.NewVBox(
		ui.console.Container(),
		container.NewHBox(ui.modeSelect, ui.tierSelect, ui.downloadBtn, ui.cancelBtn),
	)

	content := container.NewBorder(
		topCombined,
		bottomPanel,
		nil,
		nil,
		ui.playlistView.Container(),
	)

	ui.window.SetContent(content)
}

// validatePlaylistURL validates the entered URL
func (ui *RootUI) validatePlaylistURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}
	if !platform.IsValidPlaylistURL(strings.TrimSpace(input)) {
		return fmt.Errorf("not a YouTube playlist URL")
	}
	return nil
}

// onLoadClick resolves the entered playlist URL in the background.
func (ui *RootUI) onLoadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification("Please enter a playlist URL", false)
		return
	}
	if !platform.IsValidPlaylistURL(urlText) {
		ui.showNotification("Invalid playlist URL. Expected youtube.com/playlist?list=...", false)
		return
	}

	log.Printf("Resolving playlist URL: %s", urlText)
	ui.showNotification("Loading playlist...", true)
	ui.loadBtn.Disable()

	go func() {
		playlist, err := ui.extractor.ResolvePlaylist(context.Background(), urlText)

		fyne.Do(func() {
			ui.loadBtn.Enable()
			if err != nil {
				log.Printf("Playlist resolution failed: %v", err)
				ui.showNotification("Could not load playlist: "+err.Error(), false)
				return
			}

			log.Printf("Playlist resolved: %s (%d entries)", playlist.Title, len(playlist.Entries))

			ui.playlist = playlist
			ui.playlistView.SetPlaylist(playlist)
			ui.urlEntry.SetText("")
			ui.hideNotification()
			ui.console.Hide()
			ui.updateDownloadButton()
		})

		// Thumbnails load after the list is visible; rows refresh as
		// the cache fills.
		ids := make([]string, 0, len(playlist.Entries))
		if err == nil {
			for _, entry := range playlist.Entries {
				ids = append(ids, entry.ID)
			}
			ui.thumbFetcher.Prefetch(context.Background(), ids)
			fyne.Do(func() {
				ui.playlistView.Refresh()
			})
		}
	}()
}

// onDownloadClick starts a batch over the selected entries.
func (ui *RootUI) onDownloadClick() {
	ui.runMutex.Lock()
	defer ui.runMutex.Unlock()

	if ui.playlist == nil || ui.runCancel != nil {
		return
	}
	if ui.selection.Len() == 0 {
		ui.showNotification("Select at least one video first", false)
		return
	}

	opts := ui.settings.DownloadOptions()

	ctx, cancel := context.WithCancel(context.Background())
	ui.runCancel = cancel

	ui.playlistView.ResetStatuses()
	ui.playlistView.SetLocked(true)
	ui.downloadBtn.Disable()
	ui.cancelBtn.Show()
	ui.hideNotification()

	for _, idx := range ui.selection.SortedIndices() {
		ui.playlistView.SetEntryStatus(idx, IconQueued+" queued", widget.MediumImportance)
	}

	publisher := event.NewPublisher(event.DefaultBufferSize)
	go ui.consumeEvents(publisher.Events())

	orchestrator := batch.NewOrchestrator(ui.extractor, ui.transcoder, publisher)
	if ui.historyStore != nil && ui.settings.GetHistoryEnabled() {
		orchestrator.SetRecorder(history.NewBatchRecorder(ui.historyStore, ui.playlist.Title, ui.playlist.URL, opts.Mode))
	}

	playlist := ui.playlist
	go func() {
		defer publisher.Close()

		_, err := orchestrator.Run(ctx, playlist.Entries, ui.selection, opts)
		if err != nil {
			log.Printf("Batch failed before starting: %v", err)
			fyne.Do(func() {
				ui.showNotification("Download failed: "+err.Error(), false)
			})
		}

		fyne.Do(ui.finishRun)
	}()
}

// consumeEvents drives the UI from the batch event stream.
func (ui *RootUI) consumeEvents(events <-chan event.Event) {
	for e := range events {
		switch e.Type {
		case event.TypeBatchStarted:
			fyne.Do(func() {
				ui.console.ShowBatchStarted(e.Total)
			})
		case event.TypeItemStarted:
			fyne.Do(func() {
				ui.console.ShowItemStarted(e.Position, e.Total, e.Title)
				ui.playlistView.SetEntryStatus(e.EntryIndex, IconActive+" downloading", widget.HighImportance)
			})
		case event.TypeItemProgress:
			fyne.Do(func() {
				ui.console.ShowProgress(e.Progress)
			})
		case event.TypeItemFinished:
			outcome := e.Outcome
			fyne.Do(func() {
				ui.console.ShowItemFinished(outcome)
				if outcome == nil {
					return
				}
				if outcome.Status == model.OutcomeSuccess {
					ui.playlistView.SetEntryStatus(outcome.EntryIndex, IconDone+" done", widget.SuccessImportance)
				} else {
					ui.playlistView.SetEntryStatus(outcome.EntryIndex, IconError+" failed", widget.DangerImportance)
				}
			})
		case event.TypeBatchFinished:
			summary := e.Summary
			fyne.Do(func() {
				ui.console.ShowBatchFinished(summary)
			})
			if summary != nil {
				ui.sendCompletionNotification(summary)
			}
		}
	}
}

// finishRun restores the idle UI state after a batch ends.
func (ui *RootUI) finishRun() {
	ui.runMutex.Lock()
	if ui.runCancel != nil {
		ui.runCancel()
		ui.runCancel = nil
	}
	ui.runMutex.Unlock()

	ui.playlistView.SetLocked(false)
	ui.cancelBtn.Hide()
	ui.updateDownloadButton()
}

// onCancelClick asks the running batch to stop.
func (ui *RootUI) onCancelClick() {
	ui.runMutex.Lock()
	defer ui.runMutex.Unlock()

	if ui.runCancel != nil {
		log.Printf("Cancelling running batch")
		ui.runCancel()
		ui.cancelBtn.Disable()
	}
}

// updateDownloadButton syncs the download button with the selection.
func (ui *RootUI) updateDownloadButton() {
	ui.cancelBtn.Enable()
	if ui.playlist == nil || ui.selection.Len() == 0 {
		ui.downloadBtn.Disable()
		return
	}

	ui.runMutex.Lock()
	running := ui.runCancel != nil
	ui.runMutex.Unlock()
	if running {
		return
	}

	ui.downloadBtn.SetText(fmt.Sprintf("Download %d selected", ui.selection.Len()))
	ui.downloadBtn.Enable()
}

// sendCompletionNotification sends a system notification for the
// finished batch.
func (ui *RootUI) sendCompletionNotification(summary *model.BatchSummary) {
	var content string
	switch summary.Classification() {
	case model.BatchFullSuccess:
		content = fmt.Sprintf("All %d downloads completed", summary.Succeeded)
	case model.BatchPartialSuccess:
		content = fmt.Sprintf("Completed %d of %d downloads", summary.Succeeded, summary.Total)
	default:
		content = "All downloads failed"
	}

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   "Playlist Downloader",
		Content: content,
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	sd := NewSettingsDialog(ui.settings, ui.transcoder, ui.window)
	sd.Show()
}

// showNotification displays a message in the notification panel under
// the URL input. When spinning is true, a spinner indicates background
// activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()
	ui.notificationContainer.Refresh()
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}
