package lead

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/boothiq/leadcapture/internal/models"
)

// Worker-facing methods. Queue tasks carry explicit IDs instead of an
// authenticated request context, so scoping is by argument here.

func (s *Service) GetForExtraction(ctx context.Context, leadID, exhibitorID uuid.UUID) (*models.Lead, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1 AND exhibitor_id = $2`,
		leadID, exhibitorID,
	)
	return scanLead(row)
}

func (s *Service) UpdateStatus(ctx context.Context, leadID, exhibitorID uuid.UUID, status string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE leads SET status = $1, updated_at = now() WHERE id = $2 AND exhibitor_id = $3",
		status, leadID, exhibitorID,
	)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteExtraction writes everything the pipeline produced onto the
// pending row in one statement: candidate fields, raw text, score, fallback
// remarks, the refreshed audio link, and the ready status.
func (s *Service) CompleteExtraction(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE leads
		 SET status = $1, name = $2, email = $3, phone = $4, company = $5, interest = $6,
		     transcript = $7, ocr_text = $8, raw_audio_url = $9, confidence = $10, remarks = $11,
		     updated_at = now()
		 WHERE id = $12 AND exhibitor_id = $13
		 RETURNING `+leadColumns,
		lead.Status, lead.Name, lead.Email, lead.Phone, lead.Company, lead.Interest,
		lead.Transcript, lead.OCRText, lead.RawAudioURL, lead.Confidence, lead.Remarks,
		lead.ID, lead.ExhibitorID,
	)

	updated, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("complete extraction: %w", err)
	}
	return updated, nil
}
