// Package event carries the ordered stream of progress events a batch
// run publishes and the presentation layer consumes.
package event

import (
	"github.com/ytget/playlist-downloader/internal/model"
)

// Type identifies the kind of batch event.
type Type string

const (
	// TypeBatchStarted is emitted once, before the first item.
	TypeBatchStarted Type = "batch_started"

	// TypeItemStarted is emitted when an item's download begins.
	TypeItemStarted Type = "item_started"

	// TypeItemProgress carries a streaming update for the current item.
	// Progress events are lossy: delivery may be skipped when the
	// subscriber lags.
	TypeItemProgress Type = "item_progress"

	// TypeItemFinished is emitted with the item's outcome.
	TypeItemFinished Type = "item_finished"

	// TypeBatchFinished is emitted once, with the terminal summary.
	TypeBatchFinished Type = "batch_finished"
)

// Event is one element of the per-batch event stream. Which fields are
// populated depends on Type.
type Event struct {
	Type Type

	// Position is the 1-based position within the batch; Total is the
	// batch size. Set for item events and batch_started.
	Position int
	Total    int

	// EntryIndex and Title identify the playlist entry for item events.
	EntryIndex int
	Title      string

	// Completed is the number of items finished so far.
	Completed int

	// Progress is set for item_progress events.
	Progress model.ProgressUpdate

	// Outcome is set for item_finished events.
	Outcome *model.DownloadOutcome

	// Summary is set for batch_finished events.
	Summary *model.BatchSummary
}
