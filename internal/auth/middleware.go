package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/boothiq/leadcapture/internal/exhibitor"
)

type Claims struct {
	Sub         string `json:"sub"`
	Email       string `json:"email"`
	ExhibitorID string `json:"exhibitor_id"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

type JWTMiddleware struct {
	secret     []byte
	exhibitors *exhibitor.Service
}

func NewJWTMiddleware(secret string, es *exhibitor.Service) *JWTMiddleware {
	return &JWTMiddleware{
		secret:     []byte(secret),
		exhibitors: es,
	}
}

func (m *JWTMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// An earlier middleware (API key) may have authenticated already.
		if exhibitor.FromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}

		staffID, err := uuid.Parse(claims.Sub)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid staff ID in token")
			return
		}

		ctx := r.Context()

		staff, err := m.exhibitors.GetStaffByID(ctx, staffID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "staff not found")
			return
		}

		// A token minted for one exhibitor must not reach another's data,
		// even if the staff row moved since issuance.
		if claims.ExhibitorID != "" && claims.ExhibitorID != staff.ExhibitorID.String() {
			writeError(w, http.StatusUnauthorized, "token exhibitor mismatch")
			return
		}

		exh, err := m.exhibitors.GetByID(ctx, staff.ExhibitorID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "exhibitor not found")
			return
		}

		ctx = exhibitor.WithExhibitor(ctx, exh)
		ctx = exhibitor.WithStaff(ctx, staff)
		ctx = context.WithValue(ctx, claimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey string

const claimsKey ctxKey = "claims"

func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
