package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead is one captured booth contact. The five candidate fields stay
// nullable end to end: an absent value is NULL in the row and null in
// JSON, never an empty string.
type Lead struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ExhibitorID uuid.UUID  `json:"exhibitor_id" db:"exhibitor_id"`
	BoothID     string     `json:"booth_id" db:"booth_id"`
	Type        string     `json:"type" db:"type"`
	Status      string     `json:"status" db:"status"`
	Name        *string    `json:"name" db:"name"`
	Email       *string    `json:"email" db:"email"`
	Phone       *string    `json:"phone" db:"phone"`
	Company     *string    `json:"company" db:"company"`
	Interest    *string    `json:"interest" db:"interest"`
	Transcript  *string    `json:"transcript,omitempty" db:"transcript"`
	OCRText     *string    `json:"ocr_text,omitempty" db:"ocr_text"`
	Source      string     `json:"source" db:"source"`
	RawAudioURL *string    `json:"raw_audio_url,omitempty" db:"raw_audio_url"`
	Confidence  float64    `json:"confidence" db:"confidence"`
	Remarks     *string    `json:"remarks" db:"remarks"`
	CapturedBy  *uuid.UUID `json:"captured_by,omitempty" db:"captured_by"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

const (
	LeadTypeVoice  = "voice"
	LeadTypeImage  = "image"
	LeadTypeManual = "manual"
)

const (
	LeadStatusPending    = "pending"
	LeadStatusProcessing = "processing"
	LeadStatusReady      = "ready"
	LeadStatusFailed     = "failed"
)
