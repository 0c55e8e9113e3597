package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/thumbs"
)

// entryStatus is the per-item display state shown in the list.
type entryStatus struct {
	text       string
	importance widget.Importance
}

// PlaylistView shows the resolved playlist: header with title and
// selection controls, then the entry list.
type PlaylistView struct {
	titleLabel    *widget.Label
	uploaderLabel *widget.Label
	selectedLabel *widget.Label
	selectAllBtn  *widget.Button
	clearBtn      *widget.Button
	entryList     *widget.List
	root          *fyne.Container

	playlist  *model.Playlist
	selection *model.Selection
	fetcher   *thumbs.Fetcher
	statuses  map[int]entryStatus
	locked    bool

	onSelectionChange func()
}

// NewPlaylistView creates the playlist view. The selection is shared
// with the caller, which reads it when a batch starts.
func NewPlaylistView(selection *model.Selection, fetcher *thumbs.Fetcher) *PlaylistView {
	pv := &PlaylistView{
		selection: selection,
		fetcher:   fetcher,
		statuses:  make(map[int]entryStatus),
	}
	pv.createUI()
	return pv
}

// SetOnSelectionChange sets the callback fired whenever the selected
// set changes.
func (pv *PlaylistView) SetOnSelectionChange(callback func()) {
	pv.onSelectionChange = callback
}

// createUI creates the UI components
func (pv *PlaylistView) createUI() {
	pv.titleLabel = widget.NewLabel("")
	pv.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	pv.titleLabel.Truncation = fyne.TextTruncateEllipsis

	pv.uploaderLabel = widget.NewLabel("")
	pv.selectedLabel = widget.NewLabel("")
	pv.selectedLabel.Alignment = fyne.TextAlignTrailing

	pv.selectAllBtn = widget.NewButton("Select all", func() {
		if pv.playlist == nil || pv.locked {
			return
		}
		pv.selection.SelectAll(len(pv.playlist.Entries))
		pv.refreshSelection()
	})
	pv.clearBtn = widget.NewButton("Clear", func() {
		if pv.locked {
			return
		}
		pv.selection.ClearAll()
		pv.refreshSelection()
	})

	pv.entryList = widget.NewList(
		func() int {
			if pv.playlist == nil {
				return 0
			}
			return len(pv.playlist.Entries)
		},
		func() fyne.CanvasObject {
			row := NewEntryRow()
			row.SetOnToggle(pv.onEntryToggle)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			pv.updateRow(id, obj)
		},
	)

	header := container.NewBorder(
		nil, nil,
		container.NewHBox(pv.titleLabel, pv.uploaderLabel),
		container.NewHBox(pv.selectedLabel, pv.selectAllBtn, pv.clearBtn),
	)

	pv.root = container.NewBorder(header, nil, nil, nil, pv.entryList)
	pv.root.Hide()
}

// Container returns the root container for embedding.
func (pv *PlaylistView) Container() fyne.CanvasObject {
	return pv.root
}

// SetPlaylist replaces the displayed playlist. Replacing the entry
// list always resets the selection to empty; selecting everything is
// an explicit user action via the Select all button.
func (pv *PlaylistView) SetPlaylist(playlist *model.Playlist) {
	pv.playlist = playlist
	pv.statuses = make(map[int]entryStatus)
	pv.selection.ClearAll()

	pv.titleLabel.SetText(playlist.Title)
	if playlist.Uploader != "" {
		pv.uploaderLabel.SetText(MiddleDotSeparator + playlist.Uploader)
	} else {
		pv.uploaderLabel.SetText("")
	}

	pv.refreshSelection()
	pv.root.Show()
	pv.entryList.Refresh()
}

// SetLocked prevents selection changes while a batch runs.
func (pv *PlaylistView) SetLocked(locked bool) {
	pv.locked = locked
	pv.entryList.Refresh()
}

// SetEntryStatus updates one entry's status column.
func (pv *PlaylistView) SetEntryStatus(index int, text string, importance widget.Importance) {
	pv.statuses[index] = entryStatus{text: text, importance: importance}
	pv.entryList.RefreshItem(index)
}

// ResetStatuses clears all per-item statuses.
func (pv *PlaylistView) ResetStatuses() {
	pv.statuses = make(map[int]entryStatus)
	pv.entryList.Refresh()
}

// Refresh redraws the entry list, picking up newly cached thumbnails.
func (pv *PlaylistView) Refresh() {
	pv.refreshSelection()
	pv.entryList.Refresh()
}

// onEntryToggle handles a checkbox change on one row.
func (pv *PlaylistView) onEntryToggle(index int, selected bool) {
	if pv.locked {
		return
	}
	pv.selection.Set(index, selected)
	pv.refreshSelection()
}

// updateRow binds a playlist entry to a recycled list row.
func (pv *PlaylistView) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if pv.playlist == nil || id >= len(pv.playlist.Entries) {
		return
	}

	row, ok := obj.(*EntryRow)
	if !ok {
		return
	}

	entry := pv.playlist.Entries[id]
	var thumbData []byte
	if pv.fetcher != nil {
		thumbData, _ = pv.fetcher.Cached(entry.ID)
	}

	row.SetOnToggle(pv.onEntryToggle)
	row.SetEntry(entry, pv.selection.Has(entry.Index), thumbData)
	row.SetEnabled(!pv.locked)

	if status, ok := pv.statuses[entry.Index]; ok {
		row.SetStatus(status.text, status.importance)
	} else {
		row.SetStatus("", widget.MediumImportance)
	}
}

// refreshSelection updates the selected-count label and notifies the
// owner.
func (pv *PlaylistView) refreshSelection() {
	total := 0
	if pv.playlist != nil {
		total = len(pv.playlist.Entries)
	}
	pv.selectedLabel.SetText(fmt.Sprintf("%d/%d selected", pv.selection.Len(), total))
	pv.entryList.Refresh()

	if pv.onSelectionChange != nil {
		pv.onSelectionChange()
	}
}
