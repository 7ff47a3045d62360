package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ErrNoEmbedding reports that a lead has not been embedded yet, either
// because extraction produced no identity fields or the embed call failed
// and was skipped.
var ErrNoEmbedding = errors.New("lead has no embedding")

type PgVectorStore struct {
	db *pgxpool.Pool
}

func NewPgVectorStore(db *pgxpool.Pool) *PgVectorStore {
	return &PgVectorStore{db: db}
}

func (s *PgVectorStore) UpsertLeadEmbedding(ctx context.Context, exhibitorID, leadID uuid.UUID, embedding []float32) error {
	vec := pgvector.NewVector(embedding)

	tag, err := s.db.Exec(ctx,
		"UPDATE leads SET embedding = $1, updated_at = now() WHERE id = $2 AND exhibitor_id = $3",
		vec, leadID, exhibitorID,
	)
	if err != nil {
		return fmt.Errorf("upsert lead embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lead %s not found for exhibitor %s", leadID, exhibitorID)
	}
	return nil
}

func (s *PgVectorStore) LeadEmbedding(ctx context.Context, exhibitorID, leadID uuid.UUID) ([]float32, error) {
	var vec *pgvector.Vector
	err := s.db.QueryRow(ctx,
		"SELECT embedding FROM leads WHERE id = $1 AND exhibitor_id = $2",
		leadID, exhibitorID,
	).Scan(&vec)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lead %s: %w", leadID, ErrNoEmbedding)
	}
	if err != nil {
		return nil, fmt.Errorf("load lead embedding: %w", err)
	}
	if vec == nil {
		return nil, fmt.Errorf("lead %s: %w", leadID, ErrNoEmbedding)
	}
	return vec.Slice(), nil
}

func (s *PgVectorStore) SimilarLeads(ctx context.Context, query []float32, opts SearchOptions) ([]SimilarLead, error) {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	embedding := pgvector.NewVector(query)

	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, company,
		        1 - (embedding <=> $1) AS score
		 FROM leads
		 WHERE exhibitor_id = $2 AND id <> $3 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $4`,
		embedding, opts.ExhibitorID, opts.Exclude, opts.TopK,
	)
	if err != nil {
		return nil, fmt.Errorf("similar leads: %w", err)
	}
	defer rows.Close()

	var results []SimilarLead
	for rows.Next() {
		var r SimilarLead
		if err := rows.Scan(&r.LeadID, &r.Name, &r.Email, &r.Company, &r.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if opts.MinScore > 0 && r.Score < opts.MinScore {
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
