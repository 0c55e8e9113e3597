package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ytget/playlist-downloader/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func summaryWith(succeeded, failed int) model.BatchSummary {
	s := model.NewBatchSummary(succeeded + failed)
	for i := 0; i < succeeded; i++ {
		s.Append(model.DownloadOutcome{EntryIndex: i, Status: model.OutcomeSuccess})
	}
	for i := 0; i < failed; i++ {
		s.Append(model.DownloadOutcome{EntryIndex: succeeded + i, Status: model.OutcomeFailed, ErrorMessage: "failed"})
	}
	return *s
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)

	first, err := store.Append(Record{
		PlaylistTitle: "First",
		PlaylistURL:   "https://www.youtube.com/playlist?list=PL1",
		Mode:          model.ModeVideo,
		Summary:       summaryWith(2, 0),
	})
	if err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if first == "" {
		t.Fatal("Expected non-empty record ID")
	}

	time.Sleep(2 * time.Millisecond) // UUID v7 keys are time ordered

	second, err := store.Append(Record{
		PlaylistTitle: "Second",
		PlaylistURL:   "https://www.youtube.com/playlist?list=PL2",
		Mode:          model.ModeAudioOnly,
		Summary:       summaryWith(1, 1),
	})
	if err != nil {
		t.Fatalf("Failed to append: %v", err)
	}

	records, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Failed to read records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	// Newest first.
	if records[0].ID != second || records[1].ID != first {
		t.Errorf("Expected order [%s %s], got [%s %s]", second, first, records[0].ID, records[1].ID)
	}
	if records[0].Classification != model.BatchPartialSuccess {
		t.Errorf("Expected %s, got %s", model.BatchPartialSuccess, records[0].Classification)
	}
	if records[1].Classification != model.BatchFullSuccess {
		t.Errorf("Expected %s, got %s", model.BatchFullSuccess, records[1].Classification)
	}
	if records[0].FinishedAt.IsZero() {
		t.Error("Expected FinishedAt to be set")
	}
}

func TestRecent_Limit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if _, err := store.Append(Record{PlaylistTitle: "Run", Summary: summaryWith(1, 0)}); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	records, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Failed to read records: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	store := openTestStore(t)

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Failed to read records: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestBatchRecorder(t *testing.T) {
	store := openTestStore(t)

	recorder := NewBatchRecorder(store, "My Playlist", "https://www.youtube.com/playlist?list=PL3", model.ModeAudioOnly)
	summary := summaryWith(3, 1)
	if err := recorder.Record(&summary); err != nil {
		t.Fatalf("Failed to record: %v", err)
	}

	records, err := store.Recent(1)
	if err != nil {
		t.Fatalf("Failed to read records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.PlaylistTitle != "My Playlist" {
		t.Errorf("Expected playlist title to be stored, got %q", record.PlaylistTitle)
	}
	if record.Mode != model.ModeAudioOnly {
		t.Errorf("Expected audio mode, got %s", record.Mode)
	}
	if record.Summary.Succeeded != 3 || record.Summary.Failed != 1 {
		t.Errorf("Expected 3/1 counts, got %d/%d", record.Summary.Succeeded, record.Summary.Failed)
	}
}
