package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/pkg/tokenizer"
)

// maxParseTokens caps the raw text sent to the parse model. A rambling
// voice capture or a badge scan of a brochure can outrun the model's
// context window.
const maxParseTokens = 6000

// FieldParser structures raw transcript or OCR text into candidate
// fields through a chat model. The model's answer is never trusted
// beyond "these are candidate strings": callers that hit a parse
// error proceed with empty fields and let the fallback path keep the
// raw text.
type FieldParser struct {
	gateway llm.Gateway
	model   string
}

func NewFieldParser(gw llm.Gateway, model string) *FieldParser {
	return &FieldParser{gateway: gw, model: model}
}

// Parse extracts candidate fields from rawText. The returned
// ChatResponse is non-nil whenever the model answered, even if its
// answer did not decode, so callers can still record usage.
func (p *FieldParser) Parse(ctx context.Context, rawText string) (CandidateFields, *llm.ChatResponse, error) {
	if strings.TrimSpace(rawText) == "" {
		return CandidateFields{}, nil, nil
	}

	// Contact details almost always lead the capture, so keep the head.
	if tokenizer.EstimateTokens(rawText) > maxParseTokens {
		words := strings.Fields(rawText)
		rawText = strings.Join(words[:maxParseTokens*3/4], " ")
	}

	resp, err := p.gateway.Chat(ctx, llm.ChatRequest{
		Model: p.model,
		Messages: []llm.Message{
			{Role: "system", Content: ParseSystemPrompt()},
			{Role: "user", Content: ParseUserPrompt(rawText)},
		},
		Temperature: 0,
	})
	if err != nil {
		return CandidateFields{}, nil, fmt.Errorf("parse fields: %w", err)
	}

	var fields CandidateFields
	if err := DecodeModelJSON(resp.Content, &fields); err != nil {
		return CandidateFields{}, resp, fmt.Errorf("decode fields: %w", err)
	}

	return fields.Normalize(), resp, nil
}

// DecodeModelJSON strips the code fences chat models wrap JSON in and
// unmarshals the remainder into target.
func DecodeModelJSON(content string, target any) error {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), target); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return nil
}
