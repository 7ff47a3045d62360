// Package stt transcribes booth voice memos. Backends implement
// Provider; the worker picks one from config.
package stt

import (
	"context"
	"io"

	"github.com/boothiq/leadcapture/internal/extraction"
)

// TranscriptionRequest holds one complete audio clip. Audio is read
// once; callers own closing the underlying source.
type TranscriptionRequest struct {
	Audio    io.Reader
	Filename string
	Language string
	Prompt   string
}

// Segment is one contiguous span of recognized speech.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Word is one recognized word with its onset timestamp.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
}

// TranscriptionResponse holds the transcription result. Everything
// past Text is optional: backends without verbose output leave it
// zero and scoring degrades to field presence alone.
type TranscriptionResponse struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments,omitempty"`
	Words    []Word    `json:"words,omitempty"`
}

// Metadata converts the verbose transcription evidence into the
// scorer's shape, or nil when the backend produced none. The result
// is always fully populated or absent, never partial.
func (r *TranscriptionResponse) Metadata() *extraction.Metadata {
	if r.Duration <= 0 && len(r.Segments) == 0 && len(r.Words) == 0 {
		return nil
	}

	meta := &extraction.Metadata{
		DurationSeconds: r.Duration,
		LanguageCode:    r.Language,
	}
	for _, s := range r.Segments {
		meta.Segments = append(meta.Segments, extraction.Segment{
			Text:         s.Text,
			StartSeconds: s.Start,
			EndSeconds:   s.End,
		})
	}
	for _, w := range r.Words {
		meta.Words = append(meta.Words, extraction.Word{
			Text:             w.Word,
			TimestampSeconds: w.Start,
		})
	}
	return meta
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	Name() string
	// Model reports the configured model identifier, for usage accounting.
	Model() string
}
