// Command playlist-dl downloads a YouTube playlist from the terminal.
// It resolves the playlist, selects entries by index and runs the same
// batch pipeline as the desktop app, rendering progress with a
// progress bar instead of widgets.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ytget/playlist-downloader/internal/batch"
	"github.com/ytget/playlist-downloader/internal/event"
	"github.com/ytget/playlist-downloader/internal/extract"
	"github.com/ytget/playlist-downloader/internal/history"
	"github.com/ytget/playlist-downloader/internal/model"
	"github.com/ytget/playlist-downloader/internal/platform"
	"github.com/ytget/playlist-downloader/internal/transcode"
)

const (
	FlagOut     = "out"
	FlagMode    = "mode"
	FlagQuality = "quality"
	FlagPacing  = "pacing"
	FlagItems   = "items"
	FlagDB      = "db"
	FlagLimit   = "limit"

	ExitPartialFailure = 2

	DefaultHistoryLimit = 20
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.App{
		Name:      "playlist-dl",
		Usage:     "download videos from a YouTube playlist",
		ArgsUsage: "PLAYLIST_URL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  FlagOut,
				Value: ".",
				Usage: "save downloads to `DIR`",
			},
			&cli.StringFlag{
				Name:  FlagMode,
				Value: string(model.ModeVideo),
				Usage: "download mode: video or audio",
			},
			&cli.StringFlag{
				Name:  FlagQuality,
				Value: string(model.TierBest),
				Usage: "quality ceiling: best, 1080p, 720p, 480p or 360p",
			},
			&cli.DurationFlag{
				Name:  FlagPacing,
				Value: model.DefaultPacing,
				Usage: "pause between downloads",
			},
			&cli.StringFlag{
				Name:  FlagItems,
				Usage: "comma-separated 1-based entry numbers, e.g. 1,3,7 (default: all)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one playlist URL argument")
			}
			return run(ctx, logger, c)
		},
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "list recent batches recorded in a history store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     FlagDB,
						Usage:    "history store `FILE`",
						Required: true,
					},
					&cli.IntFlag{
						Name:  FlagLimit,
						Value: DefaultHistoryLimit,
						Usage: "maximum number of batches to list",
					},
				},
				Action: showHistory,
			},
		},
		HideHelpCommand: true,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(ctx context.Context, logger *zap.Logger, c *cli.Context) error {
	url := c.Args().First()

	outDir := c.String(FlagOut)
	if err := platform.CreateDirectoryIfNotExists(outDir); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	mode, err := parseMode(c.String(FlagMode))
	if err != nil {
		return err
	}

	opts := model.DownloadOptions{
		Mode:      mode,
		Tier:      model.ParseTier(c.String(FlagQuality)),
		OutputDir: outDir,
		Pacing:    c.Duration(FlagPacing),
	}

	extractor := extract.NewYouTubeExtractor()

	logger.Sugar().Infof("Resolving playlist %s", url)
	playlist, err := extractor.ResolvePlaylist(ctx, url)
	if err != nil {
		return fmt.Errorf("resolve playlist: %w", err)
	}
	logger.Sugar().Infof("Playlist %q has %d entries", playlist.Title, len(playlist.Entries))

	selection, err := parseSelection(c.String(FlagItems), len(playlist.Entries))
	if err != nil {
		return err
	}

	transcoder := transcode.NewService()
	if mode == model.ModeAudioOnly && !transcoder.Available() {
		logger.Warn("ffmpeg not found, keeping native audio containers")
	}

	publisher := event.NewPublisher(event.DefaultBufferSize)
	orchestrator := batch.NewOrchestrator(extractor, transcoder, publisher)

	done := make(chan struct{})
	go func() {
		defer close(done)
		renderEvents(publisher.Events())
	}()

	summary, err := orchestrator.Run(ctx, playlist.Entries, selection, opts)
	publisher.Close()
	<-done
	if err != nil {
		return err
	}

	switch summary.Classification() {
	case model.BatchFullSuccess:
		return nil
	case model.BatchPartialSuccess:
		logger.Sugar().Warnf("%d of %d downloads failed", summary.Failed, summary.Total)
		return cli.Exit("", ExitPartialFailure)
	default:
		return fmt.Errorf("all %d downloads failed", summary.Total)
	}
}

// showHistory lists recent batches from a history store file.
func showHistory(c *cli.Context) error {
	store, err := history.Open(c.String(FlagDB))
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(c.Int(FlagLimit))
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No batches recorded.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-14s %d/%d ok  %s (%s)\n",
			r.FinishedAt.Format("2006-01-02 15:04"),
			r.Classification,
			r.Summary.Succeeded, r.Summary.Total,
			r.PlaylistTitle, r.Mode)
	}
	return nil
}

// parseMode maps the mode flag to a download mode.
func parseMode(value string) (model.DownloadMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "video":
		return model.ModeVideo, nil
	case "audio":
		return model.ModeAudioOnly, nil
	default:
		return "", fmt.Errorf("unknown mode %q, expected video or audio", value)
	}
}

// parseSelection turns the items flag into a selection over total
// entries. An empty flag selects everything. Numbers are 1-based on
// the command line and 0-based internally.
func parseSelection(items string, total int) (*model.Selection, error) {
	selection := model.NewSelection()
	if strings.TrimSpace(items) == "" {
		selection.SelectAll(total)
		return selection, nil
	}

	for _, part := range strings.Split(items, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid entry number %q", part)
		}
		if n < 1 || n > total {
			return nil, fmt.Errorf("entry number %d out of range 1..%d", n, total)
		}
		selection.Set(n-1, true)
	}
	if selection.Len() == 0 {
		return nil, fmt.Errorf("no entries selected")
	}
	return selection, nil
}

// renderEvents drains the batch event stream, driving one progress bar
// per item and printing the terminal summary.
func renderEvents(events <-chan event.Event) {
	var bar *progressbar.ProgressBar

	for e := range events {
		switch e.Type {
		case event.TypeItemStarted:
			bar = progressbar.NewOptions(100,
				progressbar.OptionSetDescription(fmt.Sprintf("[%d/%d] %s", e.Position, e.Total, e.Title)),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionThrottle(100*time.Millisecond),
			)
		case event.TypeItemProgress:
			if bar != nil && e.Progress.Percent >= 0 {
				_ = bar.Set(int(e.Progress.Percent))
			}
		case event.TypeItemFinished:
			if bar != nil {
				_ = bar.Finish()
				fmt.Println()
				bar = nil
			}
			if e.Outcome != nil && e.Outcome.Status == model.OutcomeFailed {
				fmt.Printf("  failed: %s\n", e.Outcome.ErrorMessage)
			}
		case event.TypeBatchFinished:
			if e.Summary != nil {
				fmt.Printf("Done: %d succeeded, %d failed of %d\n",
					e.Summary.Succeeded, e.Summary.Failed, e.Summary.Total)
			}
		}
	}
}
