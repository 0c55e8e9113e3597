package platform

import (
	"testing"
)

func TestIsValidPlaylistURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "full https playlist URL",
			url:      "https://www.youtube.com/playlist?list=PL123",
			expected: true,
		},
		{
			name:     "http scheme",
			url:      "http://www.youtube.com/playlist?list=PLrENygEx3ZZlv0132vVd6nO1nO0WCbR9V",
			expected: true,
		},
		{
			name:     "scheme-less input",
			url:      "youtube.com/playlist?list=PL_abc-123",
			expected: true,
		},
		{
			name:     "no www",
			url:      "https://youtube.com/playlist?list=PL123",
			expected: true,
		},
		{
			name:     "youtu.be host",
			url:      "https://youtu.be/playlist?list=PL123",
			expected: true,
		},
		{
			name:     "trailing query parameters",
			url:      "https://www.youtube.com/playlist?list=PL123&feature=share",
			expected: true,
		},
		{
			name:     "plain video URL without list",
			url:      "https://www.youtube.com/watch?v=abc123",
			expected: false,
		},
		{
			name:     "watch URL with list parameter but no playlist path",
			url:      "https://www.youtube.com/watch?v=abc123&list=PL123",
			expected: false,
		},
		{
			name:     "unrecognized host",
			url:      "https://vimeo.com/playlist?list=PL123",
			expected: false,
		},
		{
			name:     "empty list value",
			url:      "https://www.youtube.com/playlist?list=",
			expected: false,
		},
		{
			name:     "empty string",
			url:      "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPlaylistURL(tt.url); got != tt.expected {
				t.Errorf("IsValidPlaylistURL(%q) = %v, expected %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expected    string
		expectError bool
	}{
		{
			name:     "simple playlist URL",
			url:      "https://www.youtube.com/playlist?list=PL123",
			expected: "PL123",
		},
		{
			name:     "list followed by more parameters",
			url:      "https://www.youtube.com/playlist?list=PL123&index=2",
			expected: "PL123",
		},
		{
			name:        "missing list parameter",
			url:         "https://www.youtube.com/watch?v=abc",
			expectError: true,
		},
		{
			name:        "empty list value",
			url:         "https://www.youtube.com/playlist?list=",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractPlaylistID(tt.url)
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error for %q, got id %q", tt.url, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if id != tt.expected {
				t.Errorf("ExtractPlaylistID(%q) = %q, expected %q", tt.url, id, tt.expected)
			}
		})
	}
}
