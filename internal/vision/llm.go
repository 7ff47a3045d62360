package vision

import (
	"context"
	"fmt"

	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/llm"
)

// LLMVision reads cards with a vision-capable chat model. The answer
// is treated as potentially hallucinated: it is decoded leniently and
// scored like any other extraction.
type LLMVision struct {
	gateway llm.Gateway
	model   string // must be a vision-capable model (gpt-4o, claude-3, llava, ...)
}

func NewLLMVision(gw llm.Gateway, model string) *LLMVision {
	if model == "" {
		model = "gpt-4o"
	}
	return &LLMVision{gateway: gw, model: model}
}

func (v *LLMVision) Name() string { return "llm-vision" }

// cardPayload is the JSON contract the model is asked for: the
// candidate fields plus the raw text dump.
type cardPayload struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Interest *string `json:"interest"`
	OCRText  string  `json:"ocr_text"`
}

func (v *LLMVision) ExtractCard(ctx context.Context, img ImageInput) (*CardExtraction, error) {
	dataURL, err := resolveImage(img)
	if err != nil {
		return nil, fmt.Errorf("resolve image: %w", err)
	}

	resp, err := v.gateway.Chat(ctx, llm.ChatRequest{
		Model: v.model,
		Messages: []llm.Message{
			{Role: "system", Content: extraction.CardSystemPrompt()},
			{Role: "user", Content: extraction.CardUserPrompt(), ImageURL: dataURL},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("vision extract: %w", err)
	}

	var payload cardPayload
	if err := extraction.DecodeModelJSON(resp.Content, &payload); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}

	fields := extraction.CandidateFields{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Company:  payload.Company,
		Interest: payload.Interest,
	}

	return &CardExtraction{
		Fields:  fields.Normalize(),
		OCRText: payload.OCRText,
		Usage:   resp,
	}, nil
}
