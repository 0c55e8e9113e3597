package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/playlist-downloader/internal/model"
)

// StatusConsole shows batch progress under the playlist: the current
// item, its progress bar, and the final summary line.
type StatusConsole struct {
	currentLabel *widget.Label
	progressBar  *widget.ProgressBar
	summaryLabel *widget.Label
	root         *fyne.Container
}

// NewStatusConsole creates the console, hidden until a batch starts.
func NewStatusConsole() *StatusConsole {
	sc := &StatusConsole{
		currentLabel: widget.NewLabel(""),
		progressBar:  widget.NewProgressBar(),
		summaryLabel: widget.NewLabel(""),
	}
	sc.summaryLabel.TextStyle = fyne.TextStyle{Bold: true}
	sc.root = container.NewVBox(sc.currentLabel, sc.progressBar, sc.summaryLabel)
	sc.root.Hide()
	return sc
}

// Container returns the root container for embedding.
func (sc *StatusConsole) Container() fyne.CanvasObject {
	return sc.root
}

// ShowBatchStarted resets the console for a new batch.
func (sc *StatusConsole) ShowBatchStarted(total int) {
	sc.currentLabel.SetText(fmt.Sprintf("Starting %d downloads", total))
	sc.progressBar.SetValue(0)
	sc.summaryLabel.SetText("")
	sc.root.Show()
}

// ShowItemStarted announces the current item.
func (sc *StatusConsole) ShowItemStarted(position, total int, title string) {
	sc.currentLabel.SetText(fmt.Sprintf("[%d/%d] %s", position, total, title))
	sc.progressBar.SetValue(0)
}

// ShowProgress updates the current item's progress bar.
func (sc *StatusConsole) ShowProgress(update model.ProgressUpdate) {
	if update.Percent >= 0 {
		sc.progressBar.SetValue(update.Percent / 100)
	}

	text := sc.currentLabel.Text
	if update.Speed != "" {
		// Trim any previous speed suffix before appending.
		if i := strings.Index(text, MiddleDotSeparator); i >= 0 {
			text = text[:i]
		}
		sc.currentLabel.SetText(text + MiddleDotSeparator + update.Speed)
	}
}

// ShowItemFinished marks the current item done.
func (sc *StatusConsole) ShowItemFinished(outcome *model.DownloadOutcome) {
	if outcome == nil {
		return
	}
	if outcome.Status == model.OutcomeSuccess {
		sc.progressBar.SetValue(1)
	}
}

// ShowBatchFinished renders the terminal summary line.
func (sc *StatusConsole) ShowBatchFinished(summary *model.BatchSummary) {
	if summary == nil {
		return
	}

	switch summary.Classification() {
	case model.BatchFullSuccess:
		sc.summaryLabel.Importance = widget.SuccessImportance
		sc.summaryLabel.SetText(fmt.Sprintf("All %d downloads completed", summary.Succeeded))
	case model.BatchPartialSuccess:
		sc.summaryLabel.Importance = widget.WarningImportance
		sc.summaryLabel.SetText(fmt.Sprintf("Completed %d of %d, %d failed", summary.Succeeded, summary.Total, summary.Failed))
	default:
		sc.summaryLabel.Importance = widget.DangerImportance
		sc.summaryLabel.SetText(fmt.Sprintf("All %d downloads failed", summary.Total))
	}
	sc.currentLabel.SetText("")
	sc.progressBar.SetValue(1)
}

// ShowMessage shows a one-off status message.
func (sc *StatusConsole) ShowMessage(message string) {
	sc.currentLabel.SetText(message)
	sc.summaryLabel.SetText("")
	sc.root.Show()
}

// Hide hides the console.
func (sc *StatusConsole) Hide() {
	sc.root.Hide()
}
