package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Fatalf("Expected no error creating directory, got %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to exist, got %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}

	// Second call on an existing directory is a no-op.
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Errorf("Expected no error for existing directory, got %v", err)
	}
}

func TestEnsureWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	if err := EnsureWritableDir(dir); err != nil {
		t.Fatalf("Expected writable directory, got %v", err)
	}

	// No probe files should be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty directory after probe, found %d entries", len(entries))
	}
}

func TestEnsureWritableDir_NotWritable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}

	dir := filepath.Join(t.TempDir(), "readonly")
	if err := os.MkdirAll(dir, 0555); err != nil {
		t.Fatalf("Failed to create read-only directory: %v", err)
	}

	if err := EnsureWritableDir(dir); err == nil {
		t.Error("Expected error for read-only directory, got nil")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Plain Title", "Plain Title"},
		{"a/b\\c:d", "a_b_c_d"},
		{"What? <Really> \"Yes\" | No*", "What_ _Really_ _Yes_ _ No_"},
		{"  padded  ", "padded"},
		{"", "_"},
	}

	for _, test := range tests {
		result := SanitizeFilename(test.input)
		if result != test.expected {
			t.Errorf("SanitizeFilename(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("x", MaxFilenameLength+50)
	result := SanitizeFilename(long)
	if len(result) != MaxFilenameLength {
		t.Errorf("Expected truncation to %d characters, got %d", MaxFilenameLength, len(result))
	}
}
