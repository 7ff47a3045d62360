// Package vision reads business-card photos. Backends implement
// Provider; the worker picks one from config.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/llm"
)

// ImageInput represents a card image for extraction.
type ImageInput struct {
	// Exactly one of these should be set
	URL      string `json:"url,omitempty"`       // public URL
	Base64   string `json:"base64,omitempty"`    // base64-encoded image data
	FilePath string `json:"file_path,omitempty"` // local file path
	MimeType string `json:"mime_type,omitempty"` // image/png, image/jpeg, etc.
}

// CardExtraction is a backend's best effort at one card. Fields may
// be empty when the backend only does plain OCR; the caller then runs
// the shared field parser over OCRText. Usage is nil for backends
// that do not bill per call.
type CardExtraction struct {
	Fields  extraction.CandidateFields
	OCRText string
	Usage   *llm.ChatResponse
}

// Provider is the interface for card-reading backends.
type Provider interface {
	ExtractCard(ctx context.Context, img ImageInput) (*CardExtraction, error)
	Name() string
}

func resolveImage(img ImageInput) (string, error) {
	if img.URL != "" {
		return img.URL, nil
	}

	if img.Base64 != "" {
		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return fmt.Sprintf("data:%s;base64,%s", mimeType, img.Base64), nil
	}

	if img.FilePath != "" {
		data, err := os.ReadFile(img.FilePath)
		if err != nil {
			return "", fmt.Errorf("read image file: %w", err)
		}

		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = mimeFromExtension(filepath.Ext(img.FilePath))
		}

		encoded := base64.StdEncoding.EncodeToString(data)
		return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), nil
	}

	return "", fmt.Errorf("image input must have url, base64, or file_path")
}

func mimeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
