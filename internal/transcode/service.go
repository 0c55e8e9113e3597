// Package transcode converts downloaded media with ffmpeg. The service
// probes for ffmpeg once and degrades gracefully when it is missing.
package transcode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/playlist-downloader/internal/model"
)

// FFmpeg constants for audio extraction
const (
	// Audio codec settings
	AudioCodec   = "libmp3lame"
	AudioBitrate = "192k"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	JobIDPrefix         = "transcode-"
	OutputExtensionMP3  = ".mp3"

	microsecondsPerSecond = 1000000.0
)

// Service extracts MP3 audio from downloaded media files.
type Service struct {
	probeOnce sync.Once
	available bool
}

// NewService creates a new transcode service.
func NewService() *Service {
	return &Service{}
}

// Available reports whether ffmpeg is present. The probe runs once and
// is cached for the lifetime of the service.
func (s *Service) Available() bool {
	s.probeOnce.Do(func() {
		cmd := exec.Command(FFmpegCommand, "-version")
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		s.available = cmd.Run() == nil
	})
	return s.available
}

// ExtractAudio converts the input file to MP3 next to it and returns
// the output path. A partial output file is removed on error or
// cancellation.
func (s *Service) ExtractAudio(ctx context.Context, inputPath string, onProgress func(model.ProgressUpdate)) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("ffmpeg is not available")
	}

	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input file does not exist: %s", inputPath)
	}

	jobID := generateJobID()
	outputPath := OutputPath(inputPath)

	// Duration is only needed for percentage reporting; extraction
	// proceeds without it.
	duration, err := s.getMediaDuration(inputPath)
	if err != nil {
		log.Printf("Failed to get media duration for %s: %v", inputPath, err)
		duration = 0
	}

	args := s.BuildFFmpegArgs(inputPath, outputPath)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	log.Printf("Started audio extraction %s: %s", jobID, inputPath)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.monitorProgress(stderr, duration, onProgress)
	}()

	err = cmd.Wait()
	<-done

	if ctx.Err() != nil {
		os.Remove(outputPath)
		return "", ctx.Err()
	}
	if err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg failed: %w", err)
	}

	return outputPath, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",              // Drop the video stream
		"-c:a", AudioCodec, // Audio codec
		"-b:a", AudioBitrate, // Audio bitrate
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// getMediaDuration gets the duration of a media file using ffprobe
func (s *Service) getMediaDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// monitorProgress monitors ffmpeg progress output
func (s *Service) monitorProgress(stderr io.ReadCloser, totalDuration float64, onProgress func(model.ProgressUpdate)) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if !strings.HasPrefix(line, ProgressTimePrefix) {
			continue
		}
		timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
		timeMicroseconds, err := strconv.ParseInt(timeStr, 10, 64)
		if err != nil {
			continue
		}

		if totalDuration <= 0 || onProgress == nil {
			continue
		}

		timeSeconds := float64(timeMicroseconds) / microsecondsPerSecond
		percent := timeSeconds / totalDuration * 100
		if percent > 100 {
			percent = 100
		}

		onProgress(model.ProgressUpdate{
			Phase:   model.PhaseTranscoding,
			Percent: percent,
			ETASec:  -1,
		})
	}
}

// OutputPath returns the MP3 path for an input file.
func OutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)
	return baseName + OutputExtensionMP3
}

// generateJobID generates a unique job ID using UUID v7 for better uniqueness and time ordering
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
