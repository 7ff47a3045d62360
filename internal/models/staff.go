package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a booth worker or exhibitor admin signing in with a JWT.
type Staff struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ExhibitorID uuid.UUID  `json:"exhibitor_id" db:"exhibitor_id"`
	RoleID      *uuid.UUID `json:"role_id,omitempty" db:"role_id"`
	Email       string     `json:"email" db:"email"`
	FullName    string     `json:"full_name,omitempty" db:"full_name"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// APIKey authenticates unattended capture devices (kiosks, badge
// scanners) that cannot hold a staff session.
type APIKey struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ExhibitorID uuid.UUID  `json:"exhibitor_id" db:"exhibitor_id"`
	StaffID     *uuid.UUID `json:"staff_id,omitempty" db:"staff_id"`
	KeyHash     string     `json:"-" db:"key_hash"`
	Name        string     `json:"name" db:"name"`
	Scopes      []string   `json:"scopes" db:"scopes"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
