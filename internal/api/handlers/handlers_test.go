package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothiq/leadcapture/internal/capture"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestReadyzWithoutBackends(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Empty(t, body["checks"])
}

func TestWebhookCreateValidation(t *testing.T) {
	h := NewWebhookHandler(nil)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"invalid json", "{not json", "invalid request body"},
		{"missing url", `{"events":["lead.created"]}`, "url and events required"},
		{"empty events", `{"url":"https://crm.example.com/hook","events":[]}`, "url and events required"},
		{"unknown event", `{"url":"https://crm.example.com/hook","events":["lead.archived"]}`, "unknown event: lead.archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantErr, decodeBody(t, rec)["error"])
		})
	}
}

func TestLeadRoutesRejectBadID(t *testing.T) {
	h := NewLeadHandler(nil, nil, nil, nil, nil)

	r := chi.NewRouter()
	r.Get("/leads/{id}", h.Get)
	r.Patch("/leads/{id}", h.Review)
	r.Delete("/leads/{id}", h.Delete)
	r.Get("/leads/{id}/similar", h.Similar)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/leads/not-a-uuid"},
		{http.MethodPatch, "/leads/not-a-uuid"},
		{http.MethodDelete, "/leads/not-a-uuid"},
		{http.MethodGet, "/leads/not-a-uuid/similar"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid lead ID", decodeBody(t, rec)["error"])
		})
	}
}

func multipartUpload(t *testing.T, filename, contentType string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	require.NoError(t, mw.WriteField("booth_id", "B-14"))
	if withFile {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("payload"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func TestCaptureVoiceRejectsContentType(t *testing.T) {
	svc := capture.NewService(nil, nil, nil, "")
	h := NewCaptureHandler(svc, nil)

	body, formType := multipartUpload(t, "note.txt", "text/plain", true)
	req := httptest.NewRequest(http.MethodPost, "/captures/voice", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()

	h.Voice(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unsupported audio content type")
}

func TestCaptureCardRejectsContentType(t *testing.T) {
	svc := capture.NewService(nil, nil, nil, "")
	h := NewCaptureHandler(svc, nil)

	body, formType := multipartUpload(t, "memo.webm", "audio/webm", true)
	req := httptest.NewRequest(http.MethodPost, "/captures/card", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()

	h.Card(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unsupported card content type")
}

func TestCaptureRequiresFile(t *testing.T) {
	svc := capture.NewService(nil, nil, nil, "")
	h := NewCaptureHandler(svc, nil)

	body, formType := multipartUpload(t, "", "", false)
	req := httptest.NewRequest(http.MethodPost, "/captures/voice", body)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()

	h.Voice(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file required", decodeBody(t, rec)["error"])
}

func TestFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/leads?booth_id=B-1&type=voice&status=ready&min_confidence=0.7&limit=10&offset=20", nil)

	f := filterFromQuery(req)

	assert.Equal(t, "B-1", f.BoothID)
	assert.Equal(t, "voice", f.Type)
	assert.Equal(t, "ready", f.Status)
	assert.InDelta(t, 0.7, f.MinConfidence, 1e-9)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "10.1.2.3:55012"
	assert.Equal(t, "10.1.2.3", clientIP(req))

	req.RemoteAddr = "10.1.2.3"
	assert.Equal(t, "10.1.2.3", clientIP(req))
}
