package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothiq/leadcapture/internal/llm"
)

type fakeGateway struct {
	resp  *llm.ChatResponse
	err   error
	calls []llm.ChatRequest
}

func (f *fakeGateway) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func (f *fakeGateway) Embed(context.Context, llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, nil
}

func TestLLMVisionExtractCard(t *testing.T) {
	gw := &fakeGateway{resp: &llm.ChatResponse{Content: "```json\n" +
		`{"name":"John Doe","email":null,"phone":"  ","company":"Tech Inc","interest":"VP Engineering","ocr_text":"JOHN DOE\nVP ENGINEERING\nTECH INC"}` +
		"\n```"}}
	v := NewLLMVision(gw, "gpt-4o")

	got, err := v.ExtractCard(context.Background(), ImageInput{Base64: "aGVsbG8=", MimeType: "image/jpeg"})
	require.NoError(t, err)

	require.Len(t, gw.calls, 1)
	req := gw.calls[0]
	assert.Equal(t, "gpt-4o", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", req.Messages[1].ImageURL)
	assert.Contains(t, req.Messages[0].Content, `"ocr_text"`)

	require.NotNil(t, got.Fields.Name)
	assert.Equal(t, "John Doe", *got.Fields.Name)
	assert.Nil(t, got.Fields.Email)
	assert.Nil(t, got.Fields.Phone, "whitespace-only values normalize to nil")
	assert.Equal(t, "JOHN DOE\nVP ENGINEERING\nTECH INC", got.OCRText)
	assert.NotNil(t, got.Usage)
}

func TestLLMVisionRejectsProseAnswer(t *testing.T) {
	gw := &fakeGateway{resp: &llm.ChatResponse{Content: "This card shows John Doe of Tech Inc."}}
	v := NewLLMVision(gw, "")

	_, err := v.ExtractCard(context.Background(), ImageInput{Base64: "aGVsbG8="})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode card")
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name    string
		img     ImageInput
		want    string
		wantErr bool
	}{
		{"public url passes through", ImageInput{URL: "https://cdn.example.com/card.jpg"}, "https://cdn.example.com/card.jpg", false},
		{"base64 with mime", ImageInput{Base64: "QUJD", MimeType: "image/webp"}, "data:image/webp;base64,QUJD", false},
		{"base64 defaults to png", ImageInput{Base64: "QUJD"}, "data:image/png;base64,QUJD", false},
		{"nothing set", ImageInput{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveImage(tt.img)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
