package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribeParsesVerboseResponse(t *testing.T) {
	var gotModel, gotFormat string
	var gotGranularities []string
	var gotAudio string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotGranularities = r.MultipartForm.Value["timestamp_granularities[]"]

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, f)
		gotAudio = buf.String()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"text": "met jane smith from acme",
			"language": "english",
			"duration": 8.4,
			"segments": [
				{"text": " met jane smith", "start": 0.0, "end": 3.1},
				{"text": " from acme", "start": 3.1, "end": 5.0}
			],
			"words": [
				{"word": "met", "start": 0.0, "end": 0.3},
				{"word": "jane", "start": 0.35, "end": 0.8}
			]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAISTT(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	resp, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("fake-audio-bytes"),
		Filename: "clip.mp3",
	})
	require.NoError(t, err)

	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "verbose_json", gotFormat)
	assert.ElementsMatch(t, []string{"segment", "word"}, gotGranularities)
	assert.Equal(t, "fake-audio-bytes", gotAudio)

	assert.Equal(t, "met jane smith from acme", resp.Text)
	assert.InDelta(t, 8.4, resp.Duration, 1e-9)
	require.Len(t, resp.Segments, 2)
	assert.Equal(t, " met jane smith", resp.Segments[0].Text)
	require.Len(t, resp.Words, 2)
	assert.Equal(t, "jane", resp.Words[1].Word)
	assert.InDelta(t, 0.35, resp.Words[1].Start, 1e-9)
}

func TestTranscribeSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid file format"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewOpenAISTT(OpenAIConfig{BaseURL: srv.URL})
	_, err := client.Transcribe(context.Background(), TranscriptionRequest{
		Audio:    strings.NewReader("x"),
		Filename: "clip.webm",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestMetadataMapping(t *testing.T) {
	resp := &TranscriptionResponse{
		Text:     "hello there",
		Language: "english",
		Duration: 6.5,
		Segments: []Segment{{Text: " hello there", Start: 0, End: 2}},
		Words:    []Word{{Word: "hello", Start: 0}, {Word: "there", Start: 0.5}},
	}

	meta := resp.Metadata()
	require.NotNil(t, meta)
	assert.InDelta(t, 6.5, meta.DurationSeconds, 1e-9)
	assert.Equal(t, "english", meta.LanguageCode)
	require.Len(t, meta.Segments, 1)
	assert.Equal(t, " hello there", meta.Segments[0].Text)
	assert.InDelta(t, 2, meta.Segments[0].EndSeconds, 1e-9)
	require.Len(t, meta.Words, 2)
	assert.InDelta(t, 0.5, meta.Words[1].TimestampSeconds, 1e-9)
}

func TestMetadataAbsentWithoutVerboseOutput(t *testing.T) {
	resp := &TranscriptionResponse{Text: "bare text only"}
	assert.Nil(t, resp.Metadata())
}
