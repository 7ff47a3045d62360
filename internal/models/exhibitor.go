package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Exhibitor struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Slug      string          `json:"slug" db:"slug"`
	Settings  json.RawMessage `json:"settings" db:"settings"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

type Role struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ExhibitorID uuid.UUID       `json:"exhibitor_id" db:"exhibitor_id"`
	Name        string          `json:"name" db:"name"`
	Permissions json.RawMessage `json:"permissions" db:"permissions"`
}
