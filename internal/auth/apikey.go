package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boothiq/leadcapture/internal/exhibitor"
	"github.com/boothiq/leadcapture/internal/models"
)

// APIKeyMiddleware authenticates kiosk capture devices. Keys are stored
// hashed; a request either carries no key (and falls through to JWT auth)
// or must match one.
type APIKeyMiddleware struct {
	db         *pgxpool.Pool
	headerName string
	exhibitors *exhibitor.Service
}

func NewAPIKeyMiddleware(db *pgxpool.Pool, headerName string, es *exhibitor.Service) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		db:         db,
		headerName: headerName,
		exhibitors: es,
	}
}

func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(m.headerName)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		hash := HashAPIKey(key)

		var ak models.APIKey
		var scopesJSON json.RawMessage
		err := m.db.QueryRow(r.Context(),
			`SELECT id, exhibitor_id, staff_id, key_hash, name, scopes, expires_at, created_at
			 FROM api_keys WHERE key_hash = $1`, hash,
		).Scan(&ak.ID, &ak.ExhibitorID, &ak.StaffID, &ak.KeyHash, &ak.Name, &scopesJSON, &ak.ExpiresAt, &ak.CreatedAt)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		if err := json.Unmarshal(scopesJSON, &ak.Scopes); err != nil {
			writeError(w, http.StatusInternalServerError, "invalid scopes")
			return
		}

		if ak.ExpiresAt != nil && ak.ExpiresAt.Before(time.Now()) {
			writeError(w, http.StatusUnauthorized, "API key expired")
			return
		}

		if subtle.ConstantTimeCompare([]byte(ak.KeyHash), []byte(hash)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		// Touch last_used_at off the request path. The request context dies
		// with the response, so this uses its own deadline.
		go func(id interface{}) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			m.db.Exec(ctx, "UPDATE api_keys SET last_used_at = $1 WHERE id = $2", time.Now(), id)
		}(ak.ID)

		exh, err := m.exhibitors.GetByID(r.Context(), ak.ExhibitorID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "exhibitor not found")
			return
		}

		ctx := exhibitor.WithExhibitor(r.Context(), exh)

		if ak.StaffID != nil {
			staff, err := m.exhibitors.GetStaffByID(r.Context(), *ak.StaffID)
			if err == nil {
				ctx = exhibitor.WithStaff(ctx, staff)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func HashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

func GenerateAPIKeyPrefix() string {
	return fmt.Sprintf("blc_%d", time.Now().UnixNano())
}
