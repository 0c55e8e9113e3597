package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// Download location folder names
const (
	UserDownloadsSubfolder = "YouTubePlaylistDownloads"
	AppDownloadsFolder     = "downloads"
)

// Writability probe file pattern
const writeProbePattern = ".write-probe-*"

// Filename sanitization
const (
	MaxFilenameLength   = 180
	FilenameReplacement = "_"
)

var illegalFilenameChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\x00"}

// CreateDirectoryIfNotExists creates the directory if it doesn't exist.
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureWritableDir creates the directory if absent and probes it with a
// temporary file. Used as the batch pre-flight check so an unwritable
// output location aborts before any download starts.
func EnsureWritableDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dirPath, err)
	}
	probe, err := os.CreateTemp(dirPath, writeProbePattern)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dirPath, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// GetHomeDownloadsDir returns the user's standard Downloads directory.
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// GetUserDownloadsDir returns the app's subfolder inside the user's
// Downloads directory, creating it if necessary.
func GetUserDownloadsDir() (string, error) {
	downloads, err := GetHomeDownloadsDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(downloads, UserDownloadsSubfolder)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// GetAppDownloadsDir returns a downloads folder next to the executable,
// creating it if necessary. Falls back to the working directory when the
// executable path cannot be determined.
func GetAppDownloadsDir() (string, error) {
	base := "."
	if exe, err := os.Executable(); err == nil {
		base = filepath.Dir(exe)
	}
	dir := filepath.Join(base, AppDownloadsFolder)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// SanitizeFilename makes a video title safe to use as a file name:
// illegal characters are replaced, surrounding whitespace trimmed, and
// overly long names truncated.
func SanitizeFilename(name string) string {
	for _, c := range illegalFilenameChars {
		name = strings.ReplaceAll(name, c, FilenameReplacement)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = FilenameReplacement
	}
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}
	return name
}

// OpenFileInManager opens the file in the system file manager and
// highlights it where the platform supports selection.
func OpenFileInManager(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		// File selection is not standardized on Linux; open the parent dir.
		return exec.Command(XDGOpenCommand, filepath.Dir(absPath)).Run()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
