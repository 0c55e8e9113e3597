package transcode

import (
	"context"

	"github.com/ytget/playlist-downloader/internal/model"
)

// Transcoder defines the interface for audio extraction.
type Transcoder interface {
	// Available reports whether ffmpeg can be invoked on this system.
	Available() bool

	// ExtractAudio converts the input file to MP3 and returns the
	// output path.
	ExtractAudio(ctx context.Context, inputPath string, onProgress func(model.ProgressUpdate)) (string, error)
}
