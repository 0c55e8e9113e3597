package extract

import (
	"context"

	"github.com/ytget/playlist-downloader/internal/model"
)

// ProgressFunc receives streaming updates while an entry downloads.
// It may be nil.
type ProgressFunc func(model.ProgressUpdate)

// DownloadResult describes a completed single-entry download.
type DownloadResult struct {
	OutputPath   string
	BytesWritten int64
}

// Extractor defines the interface for playlist resolution and
// single-entry downloads.
type Extractor interface {
	ResolvePlaylist(ctx context.Context, url string) (*model.Playlist, error)
	DownloadOne(ctx context.Context, entry model.PlaylistEntry, opts model.DownloadOptions, onProgress ProgressFunc) (*DownloadResult, error)
}
