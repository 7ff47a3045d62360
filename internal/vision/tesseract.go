package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tesseract shells out to the tesseract binary for plain OCR. It
// produces no structured fields; the worker runs the shared field
// parser over the text. Useful where card images must stay on-box.
type Tesseract struct {
	binPath string
}

func NewTesseract() *Tesseract {
	path, _ := exec.LookPath("tesseract")
	if path == "" {
		path = "tesseract"
	}
	return &Tesseract{binPath: path}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) IsAvailable() bool {
	cmd := exec.Command(t.binPath, "--version")
	return cmd.Run() == nil
}

func (t *Tesseract) ExtractCard(ctx context.Context, img ImageInput) (*CardExtraction, error) {
	imagePath := img.FilePath
	if imagePath == "" {
		if img.Base64 == "" {
			return nil, fmt.Errorf("tesseract needs base64 data or a file path")
		}
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		tmp, err := os.CreateTemp("", "card-*"+extFromMime(img.MimeType))
		if err != nil {
			return nil, fmt.Errorf("temp image: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("write temp image: %w", err)
		}
		tmp.Close()
		imagePath = tmp.Name()
	}

	cmd := exec.CommandContext(ctx, t.binPath, imagePath, "stdout", "-l", "eng")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR: %w", err)
	}

	return &CardExtraction{
		OCRText: strings.TrimSpace(string(output)),
	}, nil
}

func extFromMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
