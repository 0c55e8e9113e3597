package main

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/playlist-downloader/internal/config"
	"github.com/ytget/playlist-downloader/internal/extract"
	"github.com/ytget/playlist-downloader/internal/history"
	"github.com/ytget/playlist-downloader/internal/platform"
	"github.com/ytget/playlist-downloader/internal/transcode"
	"github.com/ytget/playlist-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.playlist-downloader"
	AppName = "Playlist Downloader"

	HistoryFileName = "history.db"
)

func main() {
	// Log version information
	fmt.Printf("Playlist Downloader v%s starting...\n", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(ui.WindowDefaultWidth, ui.WindowDefaultHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	downloadsDir := settings.ResolveDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		fmt.Printf("failed to ensure downloads dir: %v\n", err)
	}

	extractor := extract.NewYouTubeExtractor()
	transcoder := transcode.NewService()

	// History lives in the app storage dir; the UI runs without it
	// when the store cannot be opened.
	historyPath := filepath.Join(myApp.Storage().RootURI().Path(), HistoryFileName)
	store, err := history.Open(historyPath)
	if err != nil {
		fmt.Printf("failed to open history store: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	// Create and setup UI
	ui.NewRootUI(myWindow, myApp, extractor, transcoder, store)

	// Show and run
	myWindow.ShowAndRun()
}
