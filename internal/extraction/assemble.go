package extraction

import (
	"github.com/google/uuid"

	"github.com/boothiq/leadcapture/internal/models"
)

// AssembleInput is everything one completed extraction attempt knows.
// Artifact URLs are opaque strings threaded through unchanged; the
// booth is always caller-assigned, never inferred here.
type AssembleInput struct {
	ExhibitorID uuid.UUID
	BoothID     string
	CapturedBy  *uuid.UUID
	Type        string
	Fields      CandidateFields
	RawText     string
	Source      string
	RawAudioURL *string
	Confidence  float64
	Decision    FallbackDecision
}

// Assemble folds candidate fields, the confidence score, and the
// fallback decision into a Lead. Fields pass through even below the
// threshold: reviewers get the structured guesses and the remarks
// string carries an independent copy, so a wrong low-confidence field
// can be checked against the raw signal instead of vanishing.
func Assemble(in AssembleInput) *models.Lead {
	fields := in.Fields.Normalize()

	lead := &models.Lead{
		ExhibitorID: in.ExhibitorID,
		BoothID:     in.BoothID,
		CapturedBy:  in.CapturedBy,
		Type:        in.Type,
		Status:      models.LeadStatusReady,
		Name:        fields.Name,
		Email:       fields.Email,
		Phone:       fields.Phone,
		Company:     fields.Company,
		Interest:    fields.Interest,
		Source:      in.Source,
		RawAudioURL: in.RawAudioURL,
		Confidence:  in.Confidence,
		Remarks:     in.Decision.Remarks,
	}

	if raw := in.RawText; raw != "" {
		switch in.Type {
		case models.LeadTypeVoice:
			lead.Transcript = &raw
		case models.LeadTypeImage:
			lead.OCRText = &raw
		}
	}

	return lead
}
