package handlers

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/boothiq/leadcapture/internal/audit"
	"github.com/boothiq/leadcapture/internal/capture"
	"github.com/boothiq/leadcapture/internal/models"
)

// maxUploadBytes bounds one capture artifact. Voice memos run well under
// a megabyte a minute; card photos a few MB.
const maxUploadBytes = 32 << 20

type CaptureHandler struct {
	svc      *capture.Service
	auditSvc *audit.Service
}

func NewCaptureHandler(svc *capture.Service, auditSvc *audit.Service) *CaptureHandler {
	return &CaptureHandler{svc: svc, auditSvc: auditSvc}
}

// Voice accepts a multipart voice memo and responds 202 with the pending
// lead. Extraction happens in the worker; clients poll the lead or rely on
// the lead.created webhook.
func (h *CaptureHandler) Voice(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseUpload(w, r)
	if !ok {
		return
	}
	req.Language = r.FormValue("language")

	pending, err := h.svc.Voice(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.logCapture(r, pending)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"lead_id": pending.ID.String(),
		"status":  pending.Status,
	})
}

// Card accepts a card scan (image, PDF, or text) the same way.
func (h *CaptureHandler) Card(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseUpload(w, r)
	if !ok {
		return
	}

	pending, err := h.svc.Card(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.logCapture(r, pending)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"lead_id": pending.ID.String(),
		"status":  pending.Status,
	})
}

func (h *CaptureHandler) parseUpload(w http.ResponseWriter, r *http.Request) (capture.UploadRequest, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return capture.UploadRequest{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return capture.UploadRequest{}, false
	}
	// Not closed here: the service reads it during upload, and the server
	// removes multipart temp files once the handler returns.

	return capture.UploadRequest{
		BoothID:     r.FormValue("booth_id"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}, true
}

func (h *CaptureHandler) logCapture(r *http.Request, pending *models.Lead) {
	err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       audit.ActionCaptureCreated,
		ResourceType: "lead",
		ResourceID:   &pending.ID,
		Details:      map[string]interface{}{"booth_id": pending.BoothID, "type": pending.Type},
		IPAddress:    clientIP(r),
	})
	if err != nil {
		slog.Warn("audit log failed", "action", audit.ActionCaptureCreated, "error", err)
	}
}

// clientIP strips the port RemoteAddr carries on direct connections; the
// audit table stores a bare address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
