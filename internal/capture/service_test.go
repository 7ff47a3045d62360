package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAudio(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"audio/webm", true},
		{"audio/mpeg", true},
		{"audio/wav", true},
		{"video/webm", true},
		{"video/mp4", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, isAudio(tt.contentType))
		})
	}
}

func TestIsCardScan(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"application/pdf", true},
		{"text/plain", true},
		{"audio/webm", false},
		{"application/json", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, isCardScan(tt.contentType))
		})
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		leadType string
		want     string
	}{
		{"plain name kept", "clip.webm", "voice", "clip.webm"},
		{"directory stripped", "../../etc/passwd", "voice", "passwd"},
		{"windows path stripped", `C:\Users\kiosk\card.jpg`, "image", "card.jpg"},
		{"empty voice default", "", "voice", "capture.webm"},
		{"empty image default", "", "image", "capture.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeFilename(tt.in, tt.leadType))
		})
	}
}
