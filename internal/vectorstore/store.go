package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

type SearchOptions struct {
	ExhibitorID uuid.UUID
	// Exclude drops one lead from the results, normally the lead the
	// caller is comparing against.
	Exclude  uuid.UUID
	TopK     int
	MinScore float64
}

type SimilarLead struct {
	LeadID  uuid.UUID `json:"lead_id"`
	Name    *string   `json:"name"`
	Email   *string   `json:"email"`
	Company *string   `json:"company"`
	Score   float64   `json:"score"`
}

type VectorStore interface {
	UpsertLeadEmbedding(ctx context.Context, exhibitorID, leadID uuid.UUID, embedding []float32) error
	LeadEmbedding(ctx context.Context, exhibitorID, leadID uuid.UUID) ([]float32, error)
	SimilarLeads(ctx context.Context, query []float32, opts SearchOptions) ([]SimilarLead, error)
}
