package batch

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ytget/playlist-downloader/internal/event"
	"github.com/ytget/playlist-downloader/internal/extract"
	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/platform"
	"github.com/ytget/playlist-downloader/internal/transcode"
)

// Error messages
const (
	CancelledMessage = "cancelled before download started"
)

// Recorder persists finished batch summaries. It is optional.
type Recorder interface {
	Record(summary *model.BatchSummary) error
}

// Orchestrator runs a batch of downloads over the selected playlist
// entries.
type Orchestrator struct {
	extractor  extract.Extractor
	transcoder transcode.Transcoder
	publisher  *event.Publisher
	recorder   Recorder
}

// NewOrchestrator creates a new batch orchestrator. The transcoder and
// publisher may be nil.
func NewOrchestrator(extractor extract.Extractor, transcoder transcode.Transcoder, publisher *event.Publisher) *Orchestrator {
	return &Orchestrator{
		extractor:  extractor,
		transcoder: transcoder,
		publisher:  publisher,
	}
}

// SetRecorder sets the summary recorder.
func (o *Orchestrator) SetRecorder(recorder Recorder) {
	o.recorder = recorder
}

// Run downloads the selected entries one at a time in ascending
// playlist order and returns the batch summary.
//
// Preflight failures (empty selection, out-of-range index, unwritable
// output directory) return a zero-outcome summary and an error before
// any download starts. Once the loop starts, every selected index gets
// exactly one outcome, including entries skipped after cancellation.
func (o *Orchestrator) Run(ctx context.Context, entries []model.PlaylistEntry, selection *model.Selection, opts model.DownloadOptions) (*model.BatchSummary, error) {
	indices := selection.SortedIndices()

	if len(indices) == 0 {
		return model.NewBatchSummary(0), fmt.Errorf("no entries selected")
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(entries) {
			return model.NewBatchSummary(0), fmt.Errorf("selected index %d out of range (%d entries)", idx, len(entries))
		}
	}
	if err := platform.EnsureWritableDir(opts.OutputDir); err != nil {
		return model.NewBatchSummary(0), fmt.Errorf("output directory is not writable: %w", err)
	}

	pacing := opts.Pacing
	if pacing == 0 {
		pacing = model.DefaultPacing
	}

	// Lifecycle events must reach the subscriber even after the batch
	// context is cancelled; only the downloads themselves stop.
	eventCtx := context.WithoutCancel(ctx)

	summary := model.NewBatchSummary(len(indices))
	o.publish(eventCtx, event.Event{Type: event.TypeBatchStarted, Total: len(indices)})

	for pos, idx := range indices {
		entry := entries[idx]

		if ctx.Err() != nil {
			outcome := model.DownloadOutcome{
				EntryIndex:   idx,
				Title:        entry.Title,
				Status:       model.OutcomeFailed,
				ErrorMessage: CancelledMessage,
			}
			summary.Append(outcome)
			o.publish(eventCtx, event.Event{
				Type:       event.TypeItemFinished,
				Position:   pos + 1,
				Total:      len(indices),
				EntryIndex: idx,
				Title:      entry.Title,
				Completed:  pos + 1,
				Outcome:    &outcome,
			})
			continue
		}

		o.publish(eventCtx, event.Event{
			Type:       event.TypeItemStarted,
			Position:   pos + 1,
			Total:      len(indices),
			EntryIndex: idx,
			Title:      entry.Title,
		})

		outcome := o.downloadEntry(ctx, entry, opts, pos+1, len(indices))
		summary.Append(outcome)

		o.publish(eventCtx, event.Event{
			Type:       event.TypeItemFinished,
			Position:   pos + 1,
			Total:      len(indices),
			EntryIndex: idx,
			Title:      entry.Title,
			Completed:  pos + 1,
			Outcome:    &outcome,
		})

		if pacing > 0 && pos < len(indices)-1 {
			select {
			case <-time.After(pacing):
			case <-ctx.Done():
			}
		}
	}

	o.publish(eventCtx, event.Event{Type: event.TypeBatchFinished, Total: len(indices), Completed: len(indices), Summary: summary})

	if o.recorder != nil {
		if err := o.recorder.Record(summary); err != nil {
			log.Printf("Failed to record batch summary: %v", err)
		}
	}

	return summary, nil
}

// downloadEntry downloads one entry, optionally extracts audio, and
// verifies the output file exists on disk.
func (o *Orchestrator) downloadEntry(ctx context.Context, entry model.PlaylistEntry, opts model.DownloadOptions, position, total int) model.DownloadOutcome {
	outcome := model.DownloadOutcome{
		EntryIndex: entry.Index,
		Title:      entry.Title,
	}

	onProgress := func(update model.ProgressUpdate) {
		if o.publisher == nil {
			return
		}
		o.publisher.TryPublish(event.Event{
			Type:       event.TypeItemProgress,
			Position:   position,
			Total:      total,
			EntryIndex: entry.Index,
			Title:      entry.Title,
			Progress:   update,
		})
	}

	result, err := o.extractor.DownloadOne(ctx, entry, opts, onProgress)
	if err != nil {
		outcome.Status = model.OutcomeFailed
		outcome.ErrorMessage = err.Error()
		return outcome
	}

	outputPath := result.OutputPath
	if opts.Mode == model.ModeAudioOnly && o.transcoder != nil && o.transcoder.Available() {
		mp3Path, err := o.transcoder.ExtractAudio(ctx, outputPath, onProgress)
		if err != nil {
			// The downloaded stream is intact; keep it in its
			// native container.
			log.Printf("Audio extraction failed for %s: %v", outputPath, err)
		} else {
			os.Remove(outputPath)
			outputPath = mp3Path
		}
	}

	// The file on disk is the sole success criterion.
	info, err := os.Stat(outputPath)
	if err != nil {
		outcome.Status = model.OutcomeFailed
		outcome.ErrorMessage = fmt.Sprintf("output file missing after download: %v", err)
		return outcome
	}

	outcome.Status = model.OutcomeSuccess
	outcome.OutputPath = outputPath
	outcome.BytesWritten = info.Size()
	return outcome
}

// publish delivers a lifecycle event when a publisher is attached.
func (o *Orchestrator) publish(ctx context.Context, e event.Event) {
	if o.publisher == nil {
		return
	}
	o.publisher.Publish(ctx, e)
}
