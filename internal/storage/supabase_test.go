package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSendsObjectWithContentType(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key")
	err := s.Upload(context.Background(), "captures", "exh-1/clip.webm", strings.NewReader("audio-bytes"), "audio/webm")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/captures/exh-1/clip.webm", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "audio/webm", gotType)
	assert.Equal(t, "audio-bytes", gotBody)
}

func TestUploadSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"bucket not found"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key")
	err := s.Upload(context.Background(), "missing", "x", strings.NewReader("y"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "bucket not found")
}

func TestCreateSignedURL(t *testing.T) {
	var gotPath string
	var gotExpiry int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			ExpiresIn int `json:"expiresIn"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotExpiry = body.ExpiresIn
		json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/object/sign/captures/exh-1/clip.webm?token=abc123",
		})
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key")
	url, err := s.CreateSignedURL(context.Background(), "captures", "exh-1/clip.webm", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/sign/captures/exh-1/clip.webm", gotPath)
	assert.Equal(t, 3600, gotExpiry)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/captures/exh-1/clip.webm?token=abc123", url)
}

func TestCreateSignedURLRejectsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "service-key")
	_, err := s.CreateSignedURL(context.Background(), "captures", "clip.webm", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing signedURL")
}

func TestGetPublicURL(t *testing.T) {
	s := NewSupabaseStorage("https://proj.supabase.co", "k")
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/captures/exh-1/card.jpg",
		s.GetPublicURL("captures", "exh-1/card.jpg"))
}
