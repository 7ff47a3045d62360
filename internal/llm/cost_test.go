package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
	}{
		{"gpt-4o", "gpt-4o", 1000, 1000, 0.02},
		{"gpt-4o-mini", "gpt-4o-mini", 2000, 500, 0.0006},
		{"embedding input only", "text-embedding-3-small", 5000, 0, 0.0001},
		{"unknown model is free", "secret-model-9000", 1000, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateCost(tt.model, tt.input, tt.output), 1e-9)
		})
	}
}

func TestCalculateAudioCost(t *testing.T) {
	assert.InDelta(t, 0.009, CalculateAudioCost("whisper-1", 90), 1e-9)
	assert.Zero(t, CalculateAudioCost("unknown-stt", 90))
}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMedia string
		wantData  string
		wantOK    bool
	}{
		{"jpeg data url", "data:image/jpeg;base64,/9j/4AAQ", "image/jpeg", "/9j/4AAQ", true},
		{"png data url", "data:image/png;base64,iVBOR", "image/png", "iVBOR", true},
		{"https url", "https://example.com/card.jpg", "", "", false},
		{"missing payload", "data:image/png;base64,", "", "", false},
		{"not base64 encoded", "data:text/plain,hello", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, data, ok := parseDataURL(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMedia, media)
			assert.Equal(t, tt.wantData, data)
		})
	}
}
