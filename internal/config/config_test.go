package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "DB_MAX_CONNS", "REDIS_ADDR", "STORAGE_BUCKET",
		"EXTRACTION_CONFIDENCE_THRESHOLD", "QUEUE_CONCURRENCY", "CARD_VISION_BACKEND",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20, cfg.Database.MaxConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "captures", cfg.Storage.Bucket)
	assert.Equal(t, 3600, cfg.Storage.SignedURLExpirySec)
	assert.InDelta(t, 0.6, cfg.Extraction.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "llm", cfg.Extraction.VisionBackend)
	assert.Equal(t, 10, cfg.Queue.Concurrency)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EXTRACTION_CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("QUEUE_CONCURRENCY", "4")
	t.Setenv("CARD_VISION_BACKEND", "tesseract")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.75, cfg.Extraction.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 4, cfg.Queue.Concurrency)
	assert.Equal(t, "tesseract", cfg.Extraction.VisionBackend)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("EXTRACTION_CONFIDENCE_THRESHOLD", "very confident")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"complete", func(c *Config) {}, ""},
		{"missing database url", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL"},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "SUPABASE_JWT_SECRET"},
		{"threshold too high", func(c *Config) { c.Extraction.ConfidenceThreshold = 1.5 }, "EXTRACTION_CONFIDENCE_THRESHOLD"},
		{"threshold zero", func(c *Config) { c.Extraction.ConfidenceThreshold = 0 }, "EXTRACTION_CONFIDENCE_THRESHOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database:   DatabaseConfig{URL: "postgres://localhost/leads"},
				Auth:       AuthConfig{JWTSecret: "secret"},
				Extraction: ExtractionConfig{ConfidenceThreshold: 0.6},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
