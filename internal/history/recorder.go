package history

import (
	"github.com/ytget/playlist-downloader/internal/model"
)

// BatchRecorder adapts a Store for one playlist run, carrying the
// playlist metadata that a bare summary lacks.
type BatchRecorder struct {
	store         *Store
	playlistTitle string
	playlistURL   string
	mode          model.DownloadMode
}

// NewBatchRecorder creates a recorder bound to a playlist and mode.
func NewBatchRecorder(store *Store, playlistTitle, playlistURL string, mode model.DownloadMode) *BatchRecorder {
	return &BatchRecorder{
		store:         store,
		playlistTitle: playlistTitle,
		playlistURL:   playlistURL,
		mode:          mode,
	}
}

// Record persists a finished batch summary.
func (r *BatchRecorder) Record(summary *model.BatchSummary) error {
	_, err := r.store.Append(Record{
		PlaylistTitle: r.playlistTitle,
		PlaylistURL:   r.playlistURL,
		Mode:          r.mode,
		Summary:       *summary,
	})
	return err
}
