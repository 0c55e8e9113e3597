package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/playlist-downloader/internal/model"
)

// EntryRow represents one playlist entry in the list: selection
// checkbox, thumbnail, title, duration and per-item status.
type EntryRow struct {
	widget.BaseWidget

	entryIndex int

	// UI components
	check         *widget.Check
	thumb         *canvas.Image
	titleLabel    *widget.Label
	durationLabel *widget.Label
	statusLabel   *widget.Label

	// Callbacks
	onToggle func(index int, selected bool)
}

// NewEntryRow creates a placeholder entry row for list templates.
func NewEntryRow() *EntryRow {
	er := &EntryRow{entryIndex: -1}
	er.ExtendBaseWidget(er)
	er.createUI()
	return er
}

// SetOnToggle sets the selection callback.
func (er *EntryRow) SetOnToggle(onToggle func(index int, selected bool)) {
	er.onToggle = onToggle
}

// createUI creates the UI components
func (er *EntryRow) createUI() {
	er.check = widget.NewCheck("", func(checked bool) {
		if er.onToggle != nil && er.entryIndex >= 0 {
			er.onToggle(er.entryIndex, checked)
		}
	})

	er.thumb = canvas.NewImageFromImage(nil)
	er.thumb.FillMode = canvas.ImageFillContain
	er.thumb.SetMinSize(fyne.NewSize(ThumbDisplayWidth, ThumbDisplayHeight))

	er.titleLabel = widget.NewLabel("")
	er.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	er.titleLabel.Wrapping = fyne.TextWrapWord
	er.titleLabel.Truncation = fyne.TextTruncateEllipsis

	er.durationLabel = widget.NewLabel("")
	er.durationLabel.Alignment = fyne.TextAlignTrailing
	er.durationLabel.TextStyle = fyne.TextStyle{Monospace: true}

	er.statusLabel = widget.NewLabel("")
	er.statusLabel.Alignment = fyne.TextAlignTrailing
}

// SetEntry updates the row with entry data. thumbData may be nil, in
// which case a placeholder block is shown.
func (er *EntryRow) SetEntry(entry model.PlaylistEntry, selected bool, thumbData []byte) {
	er.entryIndex = entry.Index

	er.titleLabel.SetText(fmt.Sprintf("%d. %s", entry.Index+1, entry.DisplayTitle()))
	er.durationLabel.SetText(entry.DurationString())

	// Avoid firing the toggle callback while syncing state.
	er.check.OnChanged = nil
	er.check.SetChecked(selected)
	er.check.OnChanged = func(checked bool) {
		if er.onToggle != nil && er.entryIndex >= 0 {
			er.onToggle(er.entryIndex, checked)
		}
	}

	if thumbData != nil {
		er.thumb.Resource = fyne.NewStaticResource(entry.ID+".jpg", thumbData)
		er.thumb.Image = nil
	} else {
		er.thumb.Resource = nil
	}
	er.thumb.Refresh()
}

// SetStatus updates the per-item status text.
func (er *EntryRow) SetStatus(text string, importance widget.Importance) {
	er.statusLabel.Importance = importance
	er.statusLabel.SetText(text)
}

// SetEnabled enables or disables the selection checkbox, used while a
// batch is running.
func (er *EntryRow) SetEnabled(enabled bool) {
	if enabled {
		er.check.Enable()
	} else {
		er.check.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (er *EntryRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	rightSide := container.NewHBox(
		fixedWidth(DurationLabelWidth, er.durationLabel),
		fixedWidth(StatusLabelWidth, er.statusLabel),
	)

	mainContent := container.NewBorder(
		nil, widget.NewSeparator(),
		container.NewHBox(er.check, er.thumb), rightSide,
		er.titleLabel,
	)

	return widget.NewSimpleRenderer(mainContent)
}
