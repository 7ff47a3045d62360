package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/internal/models"
)

type Service struct {
	gateway llm.Gateway
	model   string
}

func NewService(gw llm.Gateway, model string) *Service {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Service{gateway: gw, model: model}
}

func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Batch in groups of 100 for API limits
	const batchSize = 100
	var allEmbeddings [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}

		allEmbeddings = append(allEmbeddings, resp.Embeddings...)
	}

	return allEmbeddings, nil
}

func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedLead turns a lead's contact identity into a vector for duplicate
// detection. Returns (nil, nil) when the lead has no identity fields at all,
// in which case there is nothing useful to compare against.
func (s *Service) EmbedLead(ctx context.Context, lead *models.Lead) ([]float32, error) {
	text := LeadIdentityText(lead)
	if text == "" {
		return nil, nil
	}
	return s.EmbedSingle(ctx, text)
}

// LeadIdentityText flattens the contact fields used for duplicate detection
// into a stable embedding input. Field order is fixed so two captures of the
// same attendee produce near-identical text.
func LeadIdentityText(lead *models.Lead) string {
	parts := make([]string, 0, 4)
	for _, f := range []*string{lead.Name, lead.Company, lead.Email, lead.Phone} {
		if f == nil {
			continue
		}
		if v := strings.TrimSpace(*f); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}
