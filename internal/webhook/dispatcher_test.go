package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	payload := []byte(`{"event":"lead.created","lead_id":"abc"}`)
	secret := "whsec_0123456789abcdef"

	got := Sign(payload, secret)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, got)
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, got)
}

func TestSignDiffersPerSecret(t *testing.T) {
	payload := []byte(`{"event":"lead.created"}`)
	assert.NotEqual(t, Sign(payload, "whsec_a"), Sign(payload, "whsec_b"))
}

func TestGenerateSecret(t *testing.T) {
	s1, err := generateSecret()
	assert.NoError(t, err)
	assert.Regexp(t, `^whsec_[0-9a-f]{64}$`, s1)

	s2, _ := generateSecret()
	assert.NotEqual(t, s1, s2)
}
