package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/boothiq/leadcapture/internal/audit"
	"github.com/boothiq/leadcapture/internal/embedding"
	"github.com/boothiq/leadcapture/internal/exhibitor"
	"github.com/boothiq/leadcapture/internal/lead"
	"github.com/boothiq/leadcapture/internal/vectorstore"
	"github.com/boothiq/leadcapture/internal/webhook"
)

type LeadHandler struct {
	svc      *lead.Service
	auditSvc *audit.Service
	embedder *embedding.Service
	vectors  vectorstore.VectorStore
	webhooks *webhook.Service
}

func NewLeadHandler(svc *lead.Service, auditSvc *audit.Service, embedder *embedding.Service, vectors vectorstore.VectorStore, webhooks *webhook.Service) *LeadHandler {
	return &LeadHandler{
		svc:      svc,
		auditSvc: auditSvc,
		embedder: embedder,
		vectors:  vectors,
		webhooks: webhooks,
	}
}

// Create inserts a manually-entered lead. No extraction pipeline runs, so
// the row is ready immediately; dedupe embedding and the created webhook
// fire inline.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req lead.ManualCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	created, err := h.svc.CreateManual(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if h.embedder != nil && h.vectors != nil {
		if vec, err := h.embedder.EmbedLead(r.Context(), created); err != nil {
			slog.Warn("lead embedding failed, skipping dedupe", "lead_id", created.ID, "error", err)
		} else if vec != nil {
			if err := h.vectors.UpsertLeadEmbedding(r.Context(), created.ExhibitorID, created.ID, vec); err != nil {
				slog.Warn("embedding upsert failed", "lead_id", created.ID, "error", err)
			}
		}
	}

	if h.webhooks != nil {
		if err := h.webhooks.Dispatch(r.Context(), created.ExhibitorID, webhook.EventLeadCreated, created); err != nil {
			slog.Warn("webhook dispatch failed", "lead_id", created.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	leads, err := h.svc.List(r.Context(), f)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leads": leads, "count": len(leads)})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
		return
	}

	l, err := h.svc.GetByID(r.Context(), id)
	if errors.Is(err, lead.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, l)
}

func (h *LeadHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
		return
	}

	var req lead.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Review(r.Context(), id, req)
	if errors.Is(err, lead.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       audit.ActionLeadReviewed,
		ResourceType: "lead",
		ResourceID:   &updated.ID,
		IPAddress:    clientIP(r),
	}); err != nil {
		slog.Warn("audit log failed", "action", audit.ActionLeadReviewed, "error", err)
	}

	if h.webhooks != nil {
		if err := h.webhooks.Dispatch(r.Context(), updated.ExhibitorID, webhook.EventLeadReviewed, updated); err != nil {
			slog.Warn("webhook dispatch failed", "lead_id", updated.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       audit.ActionLeadDeleted,
		ResourceType: "lead",
		ResourceID:   &id,
		IPAddress:    clientIP(r),
	}); err != nil {
		slog.Warn("audit log failed", "action", audit.ActionLeadDeleted, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export streams the filtered leads as a CSV download.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="leads-%s.csv"`, time.Now().UTC().Format("20060102")))

	count, err := h.svc.ExportCSV(r.Context(), w, f)
	if err != nil {
		// Headers may already be out; log rather than double-write a body.
		slog.Error("csv export failed", "error", err)
		return
	}

	if err := h.auditSvc.Log(r.Context(), audit.LogEntry{
		Action:       audit.ActionLeadExported,
		ResourceType: "lead",
		Details:      map[string]interface{}{"count": count, "booth_id": f.BoothID},
		IPAddress:    clientIP(r),
	}); err != nil {
		slog.Warn("audit log failed", "action", audit.ActionLeadExported, "error", err)
	}
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), r.URL.Query().Get("booth_id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Similar returns leads whose contact identity embeds close to this one,
// for spotting the same attendee captured twice.
func (h *LeadHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead ID"})
		return
	}

	exhibitorID := exhibitor.IDFromContext(r.Context())

	vec, err := h.vectors.LeadEmbedding(r.Context(), exhibitorID, id)
	if errors.Is(err, vectorstore.ErrNoEmbedding) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"similar": []vectorstore.SimilarLead{}})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	topK, _ := strconv.Atoi(r.URL.Query().Get("top_k"))
	minScore, _ := strconv.ParseFloat(r.URL.Query().Get("min_score"), 64)

	similar, err := h.vectors.SimilarLeads(r.Context(), vec, vectorstore.SearchOptions{
		ExhibitorID: exhibitorID,
		Exclude:     id,
		TopK:        topK,
		MinScore:    minScore,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if similar == nil {
		similar = []vectorstore.SimilarLead{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"similar": similar})
}

func filterFromQuery(r *http.Request) lead.ListFilter {
	f := lead.ListFilter{
		BoothID: r.URL.Query().Get("booth_id"),
		Type:    r.URL.Query().Get("type"),
		Status:  r.URL.Query().Get("status"),
	}
	f.MinConfidence, _ = strconv.ParseFloat(r.URL.Query().Get("min_confidence"), 64)
	f.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	f.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return f
}
