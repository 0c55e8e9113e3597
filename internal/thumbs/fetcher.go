// Package thumbs fetches and caches playlist entry thumbnails. A
// missing thumbnail is never an error for the caller; entries without
// one simply render a placeholder.
package thumbs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Thumbnail host constants
const (
	DefaultBaseURL   = "https://i.ytimg.com"
	ThumbURLTemplate = "%s/vi/%s/%s.jpg"
)

// HTTP client constants
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "playlist-downloader/1.0"
)

// Image processing constants
const (
	MaxThumbWidth  = 160
	MaxThumbHeight = 90
	JPEGQuality    = 90
)

// PrefetchConcurrency bounds concurrent thumbnail requests.
const PrefetchConcurrency = 4

// qualities is the fallback chain, best first. Not every video has a
// maxresdefault rendition.
var qualities = []string{"maxresdefault", "hqdefault", "mqdefault"}

// Fetcher downloads thumbnails and keeps a per-video cache of the
// resized JPEG bytes.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string

	mu    sync.Mutex
	cache map[string][]byte
}

// NewFetcher creates a new thumbnail fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		cache:     make(map[string][]byte),
	}
}

// Fetch returns the resized thumbnail for a video, trying each quality
// rendition in turn. Results are cached, including across Prefetch.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) ([]byte, error) {
	f.mu.Lock()
	if data, ok := f.cache[videoID]; ok {
		f.mu.Unlock()
		return data, nil
	}
	f.mu.Unlock()

	var lastErr error
	for _, quality := range qualities {
		data, err := f.fetchQuality(ctx, videoID, quality)
		if err != nil {
			lastErr = err
			continue
		}

		resized, err := resizeJPEG(data, MaxThumbWidth, MaxThumbHeight)
		if err != nil {
			lastErr = err
			continue
		}

		f.mu.Lock()
		f.cache[videoID] = resized
		f.mu.Unlock()
		return resized, nil
	}

	return nil, fmt.Errorf("no thumbnail available for %s: %w", videoID, lastErr)
}

// Prefetch warms the cache for a set of videos. Individual failures
// are ignored; the affected entries fall back to a placeholder.
func (f *Fetcher) Prefetch(ctx context.Context, videoIDs []string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(PrefetchConcurrency)

	for _, id := range videoIDs {
		id := id
		g.Go(func() error {
			f.Fetch(ctx, id)
			return nil
		})
	}

	g.Wait()
}

// Cached returns the cached thumbnail for a video, if present.
func (f *Fetcher) Cached(videoID string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.cache[videoID]
	return data, ok
}

// fetchQuality downloads one rendition of a video's thumbnail.
func (f *Fetcher) fetchQuality(ctx context.Context, videoID, quality string) ([]byte, error) {
	url := fmt.Sprintf(ThumbURLTemplate, f.baseURL, videoID, quality)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail request returned %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// resizeJPEG scales image data down to fit the maximum dimensions,
// preserving aspect ratio, and re-encodes it as JPEG.
func resizeJPEG(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
