package textextract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTXT(t *testing.T) {
	data := []byte("  Jane Smith\nAcme Corp\njane@acme.com  \n")
	r := bytes.NewReader(data)

	got, err := Extract(r, int64(len(data)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith\nAcme Corp\njane@acme.com", got.Content)
	assert.Equal(t, 1, got.Pages)
}

func TestExtractRejectsUnknownType(t *testing.T) {
	data := []byte{0xFF, 0xD8}
	_, err := Extract(bytes.NewReader(data), 2, "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestSupported(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"pdf", true},
		{".pdf", true},
		{"text/plain", true},
		{"TXT", true},
		{"image/png", false},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.contentType))
		})
	}
}
