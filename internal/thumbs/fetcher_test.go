package thumbs

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// testJPEG builds an in-memory JPEG of the given size.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestFetcher(server *httptest.Server) *Fetcher {
	f := NewFetcher()
	f.baseURL = server.URL
	f.client = server.Client()
	return f
}

func TestFetch_QualityFallback(t *testing.T) {
	imageData := testJPEG(t, 320, 180)

	// Only the lowest rendition exists.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "mqdefault") {
			w.Write(imageData)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(server)
	data, err := f.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Expected thumbnail bytes")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Result is not a decodable image: %v", err)
	}
	if img.Bounds().Dx() > MaxThumbWidth || img.Bounds().Dy() > MaxThumbHeight {
		t.Errorf("Expected at most %dx%d, got %dx%d",
			MaxThumbWidth, MaxThumbHeight, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestFetch_AllRenditionsMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newTestFetcher(server)
	if _, err := f.Fetch(context.Background(), "missing"); err == nil {
		t.Fatal("Expected error when no rendition exists")
	}
}

func TestFetch_CachesResult(t *testing.T) {
	imageData := testJPEG(t, 120, 90)
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write(imageData)
	}))
	defer server.Close()

	f := newTestFetcher(server)
	first, err := f.Fetch(context.Background(), "cached")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, err := f.Fetch(context.Background(), "cached")
	if err != nil {
		t.Fatalf("Unexpected error on cached fetch: %v", err)
	}

	if requests.Load() != 1 {
		t.Errorf("Expected 1 upstream request, got %d", requests.Load())
	}
	if !bytes.Equal(first, second) {
		t.Error("Expected identical cached bytes")
	}

	if _, ok := f.Cached("cached"); !ok {
		t.Error("Expected Cached to report a hit")
	}
	if _, ok := f.Cached("unknown"); ok {
		t.Error("Expected Cached miss for unknown video")
	}
}

func TestPrefetch_WarmsCache(t *testing.T) {
	imageData := testJPEG(t, 320, 180)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(imageData)
	}))
	defer server.Close()

	f := newTestFetcher(server)
	f.Prefetch(context.Background(), []string{"one", "two", "bad", "three"})

	for _, id := range []string{"one", "two", "three"} {
		if _, ok := f.Cached(id); !ok {
			t.Errorf("Expected %s to be cached after prefetch", id)
		}
	}
	if _, ok := f.Cached("bad"); ok {
		t.Error("Expected failed thumbnail to stay uncached")
	}
}
