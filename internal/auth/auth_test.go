package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"no header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"bare token", "abc.def.ghi", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearerToken(r))
		})
	}
}

func TestHashAPIKey(t *testing.T) {
	h := HashAPIKey("blc_1712000000000000000_secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashAPIKey("blc_1712000000000000000_secret"))
	assert.NotEqual(t, h, HashAPIKey("blc_other"))
}

func TestClaimsRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := &Claims{
		Sub:         "8a2f1f6e-5c1d-4f4a-9b1a-2f9d51f1b111",
		Email:       "staff@acme.com",
		ExhibitorID: "f0a7e1f2-0000-4000-8000-000000000001",
		Role:        "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	parsed := &Claims{}
	token, err := jwt.ParseWithClaims(signed, parsed, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.ExhibitorID, parsed.ExhibitorID)
	assert.Equal(t, "admin", parsed.Role)
}
