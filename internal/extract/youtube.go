package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/platform"
)

// Timeout constants
const (
	DefaultResolveTimeout = 60 * time.Second
)

// Playlist title fallback
const (
	DefaultPlaylistTitle = "Playlist"
)

// Progress reporting constants
const (
	progressInterval = 250 * time.Millisecond
	bytesPerMegabyte = 1024 * 1024
)

// YouTubeExtractor resolves playlists and downloads entries.
type YouTubeExtractor struct {
	client         youtube.Client
	resolveTimeout time.Duration
}

// NewYouTubeExtractor creates a new extractor.
func NewYouTubeExtractor() *YouTubeExtractor {
	return &YouTubeExtractor{
		resolveTimeout: DefaultResolveTimeout,
	}
}

// SetResolveTimeout sets the timeout for playlist resolution.
func (e *YouTubeExtractor) SetResolveTimeout(timeout time.Duration) {
	e.resolveTimeout = timeout
}

// ResolvePlaylist fetches playlist metadata and its entry list.
func (e *YouTubeExtractor) ResolvePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if !platform.IsValidPlaylistURL(url) {
		return nil, fmt.Errorf("invalid playlist URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, e.resolveTimeout)
	defer cancel()

	playlist, err := e.client.GetPlaylistContext(ctx, url)
	if err != nil {
		// Entry durations are not available from the fallback
		// resolver, they stay unknown.
		return e.resolveFallback(ctx, url, err)
	}
	if len(playlist.Videos) == 0 {
		return nil, fmt.Errorf("playlist has no entries: %s", url)
	}

	entries := make([]model.PlaylistEntry, 0, len(playlist.Videos))
	for i, v := range playlist.Videos {
		entries = append(entries, model.NewEntry(i, v.ID, v.Title, int(v.Duration.Seconds())))
	}

	title := playlist.Title
	if title == "" {
		title = DefaultPlaylistTitle
	}

	return &model.Playlist{
		ID:       playlist.ID,
		Title:    title,
		Uploader: playlist.Author,
		URL:      url,
		Entries:  entries,
	}, nil
}

// resolveFallback enumerates playlist entries through the ytdlp
// library when the primary client fails.
func (e *YouTubeExtractor) resolveFallback(ctx context.Context, url string, primaryErr error) (*model.Playlist, error) {
	playlistID, err := platform.ExtractPlaylistID(url)
	if err != nil {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %w", err)
	}

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve playlist (primary: %v): %v", primaryErr, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("playlist has no entries: %s", url)
	}

	entries := make([]model.PlaylistEntry, 0, len(items))
	for i, it := range items {
		entries = append(entries, model.NewEntry(i, it.VideoID, it.Title, 0))
	}

	return &model.Playlist{
		ID:      playlistID,
		Title:   DefaultPlaylistTitle,
		URL:     url,
		Entries: entries,
	}, nil
}

// DownloadOne downloads a single playlist entry into opts.OutputDir and
// returns the written file's path and size. The callback receives
// throttled downloading updates followed by exactly one terminal
// finished or error update.
func (e *YouTubeExtractor) DownloadOne(ctx context.Context, entry model.PlaylistEntry, opts model.DownloadOptions, onProgress ProgressFunc) (result *DownloadResult, err error) {
	defer func() {
		if err != nil {
			reportError(onProgress)
		}
	}()

	video, err := e.client.GetVideoContext(ctx, entry.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}

	format, err := selectFormat(video, opts)
	if err != nil {
		return nil, err
	}

	title := entry.Title
	if title == "" {
		title = video.Title
	}
	filename := platform.SanitizeFilename(title) + "." + extensionForFormat(format)
	outputPath := filepath.Join(opts.OutputDir, filename)

	stream, size, err := e.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to start stream: %w", err)
	}
	defer stream.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	writer := newProgressWriter(file, size, onProgress)
	written, err := copyWithContext(ctx, writer, stream)
	closeErr := file.Close()
	if err != nil {
		// Partial files are removed so a leftover fragment never
		// counts as a completed download.
		os.Remove(outputPath)
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if closeErr != nil {
		os.Remove(outputPath)
		return nil, fmt.Errorf("failed to finalize output file: %w", closeErr)
	}

	reportFinished(onProgress, outputPath)

	return &DownloadResult{
		OutputPath:   outputPath,
		BytesWritten: written,
	}, nil
}

// reportFinished signals a completed transfer with its final path.
func reportFinished(onProgress ProgressFunc, outputPath string) {
	if onProgress == nil {
		return
	}
	onProgress(model.ProgressUpdate{
		Phase:      model.PhaseFinished,
		Percent:    100,
		ETASec:     0,
		OutputPath: outputPath,
	})
}

// reportError signals a failed transfer.
func reportError(onProgress ProgressFunc) {
	if onProgress == nil {
		return
	}
	onProgress(model.ProgressUpdate{
		Phase:   model.PhaseError,
		Percent: -1,
		ETASec:  -1,
	})
}

// progressWriter forwards writes to the underlying writer and emits
// throttled progress updates.
type progressWriter struct {
	dst        io.Writer
	total      int64
	written    int64
	started    time.Time
	lastUpdate time.Time
	onProgress ProgressFunc
}

func newProgressWriter(dst io.Writer, total int64, onProgress ProgressFunc) *progressWriter {
	return &progressWriter{
		dst:        dst,
		total:      total,
		started:    time.Now(),
		onProgress: onProgress,
	}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.written += int64(n)

	if w.onProgress != nil && time.Since(w.lastUpdate) >= progressInterval {
		w.lastUpdate = time.Now()
		w.onProgress(w.snapshot())
	}

	return n, err
}

// snapshot builds the current progress update.
func (w *progressWriter) snapshot() model.ProgressUpdate {
	update := model.ProgressUpdate{
		Phase:   model.PhaseDownloading,
		Percent: -1,
		ETASec:  -1,
	}

	elapsed := time.Since(w.started).Seconds()
	if elapsed > 0 {
		bytesPerSecond := float64(w.written) / elapsed
		update.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/bytesPerMegabyte)

		if w.total > 0 && bytesPerSecond > 0 {
			remaining := float64(w.total - w.written)
			update.ETASec = int(remaining / bytesPerSecond)
		}
	}

	if w.total > 0 {
		update.Percent = float64(w.written) / float64(w.total) * 100
	}

	return update
}

// copyWithContext copies src to dst, checking for cancellation between
// chunks.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			if wn < n {
				return written, io.ErrShortWrite
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
