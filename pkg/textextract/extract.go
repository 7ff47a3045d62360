// Package textextract pulls embedded text out of non-image card uploads.
// Scanned badge sheets and lead forms often arrive as PDFs with a real text
// layer; that text is a far better extraction signal than re-OCRing pixels.
package textextract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

type ExtractedText struct {
	Content string
	Pages   int
}

// Extract returns the embedded text for a supported content type. An empty
// Content with no error means the document genuinely has no text layer.
func Extract(data io.ReaderAt, size int64, contentType string) (*ExtractedText, error) {
	switch normalizeType(contentType) {
	case "pdf":
		return extractPDF(data, size)
	case "txt":
		return extractTXT(data, size)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// Supported reports whether Extract can handle the content type.
func Supported(contentType string) bool {
	t := normalizeType(contentType)
	return t == "pdf" || t == "txt"
}

func normalizeType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case ".pdf", "pdf", "application/pdf":
		return "pdf"
	case ".txt", "txt", "text/plain":
		return "txt"
	default:
		return ""
	}
}

func extractPDF(data io.ReaderAt, size int64) (*ExtractedText, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &ExtractedText{
		Content: strings.TrimSpace(buf.String()),
		Pages:   numPages,
	}, nil
}

func extractTXT(data io.ReaderAt, size int64) (*ExtractedText, error) {
	buf := make([]byte, size)
	_, err := data.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read TXT: %w", err)
	}

	return &ExtractedText{
		Content: string(bytes.TrimSpace(buf)),
		Pages:   1,
	}, nil
}
