package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ytget/playlist-downloader/internal/event"
	"github.com/ytget/playlist-downloader/internal/extract"
	"github.com/ytget/playlist-downloader/internal/model"
)

// fakeExtractor writes a real file per entry so the on-disk success
// check passes.
type fakeExtractor struct {
	mu          sync.Mutex
	calls       []int
	failIndices map[int]bool
	skipWrite   map[int]bool
	onDownload  func(entry model.PlaylistEntry)
}

func (f *fakeExtractor) ResolvePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeExtractor) DownloadOne(ctx context.Context, entry model.PlaylistEntry, opts model.DownloadOptions, onProgress extract.ProgressFunc) (*extract.DownloadResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, entry.Index)
	f.mu.Unlock()

	if f.onDownload != nil {
		f.onDownload(entry)
	}
	if f.failIndices[entry.Index] {
		return nil, fmt.Errorf("simulated download failure for entry %d", entry.Index)
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("entry-%d.mp4", entry.Index))
	if !f.skipWrite[entry.Index] {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			return nil, err
		}
	}
	if onProgress != nil {
		onProgress(model.ProgressUpdate{Phase: model.PhaseDownloading, Percent: 50})
	}
	return &extract.DownloadResult{OutputPath: path, BytesWritten: 4}, nil
}

func (f *fakeExtractor) callIndices() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

// fakeTranscoder converts the file by renaming its extension.
type fakeTranscoder struct {
	available bool
	failAll   bool
	called    bool
}

func (f *fakeTranscoder) Available() bool {
	return f.available
}

func (f *fakeTranscoder) ExtractAudio(ctx context.Context, inputPath string, onProgress func(model.ProgressUpdate)) (string, error) {
	f.called = true
	if f.failAll {
		return "", errors.New("simulated transcode failure")
	}
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".mp3"
	if err := os.WriteFile(outputPath, []byte("mp3"), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

type fakeRecorder struct {
	recorded *model.BatchSummary
}

func (f *fakeRecorder) Record(summary *model.BatchSummary) error {
	f.recorded = summary
	return nil
}

func testEntries(n int) []model.PlaylistEntry {
	entries := make([]model.PlaylistEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, model.NewEntry(i, fmt.Sprintf("vid%d", i), fmt.Sprintf("Video %d", i), 60))
	}
	return entries
}

func selectionOf(indices ...int) *model.Selection {
	s := model.NewSelection()
	s.Replace(indices)
	return s
}

func testOptions(t *testing.T) model.DownloadOptions {
	t.Helper()
	return model.DownloadOptions{
		Mode:      model.ModeVideo,
		Tier:      model.TierBest,
		OutputDir: t.TempDir(),
		Pacing:    -1,
	}
}

func TestRun_FullSuccess(t *testing.T) {
	extractor := &fakeExtractor{}
	o := NewOrchestrator(extractor, nil, nil)

	summary, err := o.Run(context.Background(), testEntries(4), selectionOf(0, 1, 2, 3), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.Succeeded != 4 || summary.Failed != 0 {
		t.Errorf("Expected 4 succeeded, 0 failed, got %d/%d", summary.Succeeded, summary.Failed)
	}
	if got := summary.Classification(); got != model.BatchFullSuccess {
		t.Errorf("Expected %s, got %s", model.BatchFullSuccess, got)
	}
	for _, outcome := range summary.Outcomes {
		if outcome.OutputPath == "" {
			t.Errorf("Entry %d: expected output path", outcome.EntryIndex)
		}
		if outcome.BytesWritten == 0 {
			t.Errorf("Entry %d: expected non-zero bytes", outcome.EntryIndex)
		}
	}
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	extractor := &fakeExtractor{failIndices: map[int]bool{1: true}}
	o := NewOrchestrator(extractor, nil, nil)

	summary, err := o.Run(context.Background(), testEntries(3), selectionOf(0, 1, 2), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Errorf("Expected 2 succeeded, 1 failed, got %d/%d", summary.Succeeded, summary.Failed)
	}
	if got := summary.Classification(); got != model.BatchPartialSuccess {
		t.Errorf("Expected %s, got %s", model.BatchPartialSuccess, got)
	}

	// The failure must not stop later entries.
	calls := extractor.callIndices()
	if len(calls) != 3 {
		t.Fatalf("Expected 3 download attempts, got %d", len(calls))
	}

	failed := summary.Outcomes[1]
	if failed.Status != model.OutcomeFailed {
		t.Errorf("Expected entry 1 to fail, got %s", failed.Status)
	}
	if failed.ErrorMessage == "" {
		t.Error("Expected error message on failed outcome")
	}
}

func TestRun_TotalFailure(t *testing.T) {
	extractor := &fakeExtractor{failIndices: map[int]bool{0: true, 1: true}}
	o := NewOrchestrator(extractor, nil, nil)

	summary, err := o.Run(context.Background(), testEntries(2), selectionOf(0, 1), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := summary.Classification(); got != model.BatchTotalFailure {
		t.Errorf("Expected %s, got %s", model.BatchTotalFailure, got)
	}
	if summary.Err() == nil {
		t.Error("Expected aggregated error for total failure")
	}
}

func TestRun_AscendingOrder(t *testing.T) {
	extractor := &fakeExtractor{}
	o := NewOrchestrator(extractor, nil, nil)

	summary, err := o.Run(context.Background(), testEntries(6), selectionOf(5, 1, 3), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []int{1, 3, 5}
	calls := extractor.callIndices()
	if len(calls) != len(expected) {
		t.Fatalf("Expected %d attempts, got %d", len(expected), len(calls))
	}
	for i, idx := range expected {
		if calls[i] != idx {
			t.Errorf("Attempt %d: expected entry %d, got %d", i, idx, calls[i])
		}
		if summary.Outcomes[i].EntryIndex != idx {
			t.Errorf("Outcome %d: expected entry %d, got %d", i, idx, summary.Outcomes[i].EntryIndex)
		}
	}
}

func TestRun_PreflightFailures(t *testing.T) {
	tests := []struct {
		name      string
		entries   []model.PlaylistEntry
		selection *model.Selection
		outputDir string
		wantMsg   string
	}{
		{
			name:      "empty selection",
			entries:   testEntries(3),
			selection: model.NewSelection(),
			wantMsg:   "no entries selected",
		},
		{
			name:      "index out of range",
			entries:   testEntries(2),
			selection: selectionOf(0, 5),
			wantMsg:   "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &fakeExtractor{}
			o := NewOrchestrator(extractor, nil, nil)

			opts := testOptions(t)
			if tt.outputDir != "" {
				opts.OutputDir = tt.outputDir
			}

			summary, err := o.Run(context.Background(), tt.entries, tt.selection, opts)
			if err == nil {
				t.Fatal("Expected preflight error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected %q in error, got: %v", tt.wantMsg, err)
			}
			if summary == nil {
				t.Fatal("Expected a zero-outcome summary on preflight failure")
			}
			if len(summary.Outcomes) != 0 || summary.Total != 0 {
				t.Errorf("Expected zero outcomes on preflight failure, got total=%d outcomes=%d",
					summary.Total, len(summary.Outcomes))
			}
			if len(extractor.callIndices()) != 0 {
				t.Error("Expected no download attempts after preflight failure")
			}
		})
	}
}

func TestRun_UnwritableOutputDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission checks do not apply")
	}

	dir := t.TempDir()
	readOnly := filepath.Join(dir, "readonly")
	if err := os.Mkdir(readOnly, 0o555); err != nil {
		t.Fatalf("Failed to create read-only dir: %v", err)
	}

	extractor := &fakeExtractor{}
	o := NewOrchestrator(extractor, nil, nil)

	opts := testOptions(t)
	opts.OutputDir = filepath.Join(readOnly, "out")

	summary, err := o.Run(context.Background(), testEntries(1), selectionOf(0), opts)
	if err == nil {
		t.Fatal("Expected error for unwritable output directory")
	}
	if summary == nil || len(summary.Outcomes) != 0 {
		t.Error("Expected a zero-outcome summary for unwritable output directory")
	}
	if len(extractor.callIndices()) != 0 {
		t.Error("Expected no download attempts")
	}
}

func TestRun_MissingOutputFileIsFailure(t *testing.T) {
	extractor := &fakeExtractor{skipWrite: map[int]bool{0: true}}
	o := NewOrchestrator(extractor, nil, nil)

	summary, err := o.Run(context.Background(), testEntries(1), selectionOf(0), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.Failed != 1 {
		t.Fatalf("Expected 1 failure, got %d", summary.Failed)
	}
	if !strings.Contains(summary.Outcomes[0].ErrorMessage, "missing") {
		t.Errorf("Expected missing-file error, got: %s", summary.Outcomes[0].ErrorMessage)
	}
}

func TestRun_CancellationSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	extractor := &fakeExtractor{}
	extractor.onDownload = func(entry model.PlaylistEntry) {
		if entry.Index == 0 {
			cancel()
		}
	}
	o := NewOrchestrator(extractor, nil, nil)

	summary, err := o.Run(ctx, testEntries(3), selectionOf(0, 1, 2), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// One outcome per selected index, even after cancellation.
	if len(summary.Outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(summary.Outcomes))
	}
	if summary.Outcomes[0].Status != model.OutcomeSuccess {
		t.Errorf("Expected first entry to succeed, got %s", summary.Outcomes[0].Status)
	}
	for _, outcome := range summary.Outcomes[1:] {
		if outcome.Status != model.OutcomeFailed {
			t.Errorf("Entry %d: expected failure after cancellation, got %s", outcome.EntryIndex, outcome.Status)
		}
		if outcome.ErrorMessage != CancelledMessage {
			t.Errorf("Entry %d: expected %q, got %q", outcome.EntryIndex, CancelledMessage, outcome.ErrorMessage)
		}
	}

	// Cancelled entries must not be downloaded.
	if calls := extractor.callIndices(); len(calls) != 1 {
		t.Errorf("Expected 1 download attempt, got %d", len(calls))
	}
}

func TestRun_EventSequence(t *testing.T) {
	publisher := event.NewPublisher(64)
	extractor := &fakeExtractor{failIndices: map[int]bool{1: true}}
	o := NewOrchestrator(extractor, nil, publisher)

	summary, err := o.Run(context.Background(), testEntries(2), selectionOf(0, 1), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	publisher.Close()

	var lifecycle []event.Type
	var finished []*model.DownloadOutcome
	var terminal *model.BatchSummary
	for e := range publisher.Events() {
		if e.Type == event.TypeItemProgress {
			continue
		}
		lifecycle = append(lifecycle, e.Type)
		if e.Type == event.TypeItemFinished {
			finished = append(finished, e.Outcome)
		}
		if e.Type == event.TypeBatchFinished {
			terminal = e.Summary
		}
	}

	expected := []event.Type{
		event.TypeBatchStarted,
		event.TypeItemStarted, event.TypeItemFinished,
		event.TypeItemStarted, event.TypeItemFinished,
		event.TypeBatchFinished,
	}
	if len(lifecycle) != len(expected) {
		t.Fatalf("Expected %d lifecycle events, got %d: %v", len(expected), len(lifecycle), lifecycle)
	}
	for i, typ := range expected {
		if lifecycle[i] != typ {
			t.Errorf("Event %d: expected %s, got %s", i, typ, lifecycle[i])
		}
	}

	if len(finished) != 2 || finished[0] == nil || finished[1] == nil {
		t.Fatal("Expected outcomes on item_finished events")
	}
	if finished[0].Status != model.OutcomeSuccess || finished[1].Status != model.OutcomeFailed {
		t.Errorf("Unexpected outcome statuses: %s, %s", finished[0].Status, finished[1].Status)
	}
	if terminal == nil {
		t.Fatal("Expected summary on batch_finished event")
	}
	if terminal.Succeeded != summary.Succeeded || terminal.Failed != summary.Failed {
		t.Error("Terminal event summary does not match returned summary")
	}
}

func TestRun_AudioModeTranscodes(t *testing.T) {
	extractor := &fakeExtractor{}
	transcoder := &fakeTranscoder{available: true}
	o := NewOrchestrator(extractor, transcoder, nil)

	opts := testOptions(t)
	opts.Mode = model.ModeAudioOnly

	summary, err := o.Run(context.Background(), testEntries(1), selectionOf(0), opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !transcoder.called {
		t.Fatal("Expected transcoder to be invoked in audio mode")
	}
	outcome := summary.Outcomes[0]
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("Expected success, got %s: %s", outcome.Status, outcome.ErrorMessage)
	}
	if filepath.Ext(outcome.OutputPath) != ".mp3" {
		t.Errorf("Expected .mp3 output, got %s", outcome.OutputPath)
	}

	// The intermediate download must be cleaned up.
	intermediate := strings.TrimSuffix(outcome.OutputPath, ".mp3") + ".mp4"
	if _, err := os.Stat(intermediate); !os.IsNotExist(err) {
		t.Errorf("Expected intermediate file %s to be removed", intermediate)
	}
}

func TestRun_AudioModeWithoutTranscoderKeepsOriginal(t *testing.T) {
	extractor := &fakeExtractor{}
	transcoder := &fakeTranscoder{available: false}
	o := NewOrchestrator(extractor, transcoder, nil)

	opts := testOptions(t)
	opts.Mode = model.ModeAudioOnly

	summary, err := o.Run(context.Background(), testEntries(1), selectionOf(0), opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	outcome := summary.Outcomes[0]
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("Expected success, got %s", outcome.Status)
	}
	if filepath.Ext(outcome.OutputPath) != ".mp4" {
		t.Errorf("Expected original container to be kept, got %s", outcome.OutputPath)
	}
}

func TestRun_TranscodeFailureKeepsOriginal(t *testing.T) {
	extractor := &fakeExtractor{}
	transcoder := &fakeTranscoder{available: true, failAll: true}
	o := NewOrchestrator(extractor, transcoder, nil)

	opts := testOptions(t)
	opts.Mode = model.ModeAudioOnly

	summary, err := o.Run(context.Background(), testEntries(1), selectionOf(0), opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	outcome := summary.Outcomes[0]
	if outcome.Status != model.OutcomeSuccess {
		t.Fatalf("Expected success with original file, got %s", outcome.Status)
	}
	if filepath.Ext(outcome.OutputPath) != ".mp4" {
		t.Errorf("Expected original container after transcode failure, got %s", outcome.OutputPath)
	}
}

func TestRun_RecorderReceivesSummary(t *testing.T) {
	extractor := &fakeExtractor{}
	recorder := &fakeRecorder{}
	o := NewOrchestrator(extractor, nil, nil)
	o.SetRecorder(recorder)

	summary, err := o.Run(context.Background(), testEntries(2), selectionOf(0, 1), testOptions(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if recorder.recorded != summary {
		t.Error("Expected recorder to receive the batch summary")
	}
}
