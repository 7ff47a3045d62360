package workers

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/boothiq/leadcapture/internal/audit"
	"github.com/boothiq/leadcapture/internal/embedding"
	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/lead"
	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/internal/models"
	"github.com/boothiq/leadcapture/internal/storage"
	"github.com/boothiq/leadcapture/internal/vectorstore"
	"github.com/boothiq/leadcapture/internal/webhook"
)

// Deps bundles what every extraction worker needs around the modality
// step itself: persistence, the artifact bucket, the shared field parser,
// and the post-extraction side channels.
type Deps struct {
	Leads     *lead.Service
	Storage   storage.Storage
	Bucket    string
	Parser    *extraction.FieldParser
	Embedder  *embedding.Service
	Vectors   vectorstore.VectorStore
	Webhooks  *webhook.Service
	Audit     *audit.Service
	Threshold float64
}

func (d *Deps) fail(ctx context.Context, leadID, exhibitorID uuid.UUID) {
	if err := d.Leads.UpdateStatus(ctx, leadID, exhibitorID, models.LeadStatusFailed); err != nil {
		slog.Error("failed to mark lead failed", "lead_id", leadID, "error", err)
	}

	// A retried attempt re-enters processing and may still succeed;
	// only the exhausted one notifies subscribers.
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	if retried < maxRetry {
		return
	}

	if d.Webhooks != nil {
		payload := map[string]string{"lead_id": leadID.String(), "status": models.LeadStatusFailed}
		if err := d.Webhooks.Dispatch(ctx, exhibitorID, webhook.EventLeadFailed, payload); err != nil {
			slog.Warn("webhook dispatch failed", "lead_id", leadID, "error", err)
		}
	}
}

// finish runs the side effects of a completed extraction. None of them may
// fail the lead: the row is already ready, dedupe and notifications are
// best effort.
func (d *Deps) finish(ctx context.Context, l *models.Lead) {
	if d.Embedder != nil && d.Vectors != nil {
		vec, err := d.Embedder.EmbedLead(ctx, l)
		switch {
		case err != nil:
			slog.Warn("lead embedding failed, skipping dedupe", "lead_id", l.ID, "error", err)
		case vec != nil:
			if err := d.Vectors.UpsertLeadEmbedding(ctx, l.ExhibitorID, l.ID, vec); err != nil {
				slog.Warn("embedding upsert failed", "lead_id", l.ID, "error", err)
			}
		}
	}

	if d.Webhooks != nil {
		if err := d.Webhooks.Dispatch(ctx, l.ExhibitorID, webhook.EventLeadCreated, l); err != nil {
			slog.Warn("webhook dispatch failed", "lead_id", l.ID, "error", err)
		}
	}
}

func (d *Deps) logUsage(ctx context.Context, record models.ModelUsageLog) {
	if d.Audit == nil {
		return
	}
	if err := d.Audit.LogModelUsage(ctx, record); err != nil {
		slog.Warn("model usage log failed", "stage", record.Stage, "error", err)
	}
}

func chatUsage(exhibitorID, leadID uuid.UUID, stage string, resp *llm.ChatResponse) models.ModelUsageLog {
	id := leadID
	return models.ModelUsageLog{
		ExhibitorID:  exhibitorID,
		LeadID:       &id,
		Provider:     resp.Provider,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		TotalTokens:  resp.TotalTokens,
		CostUSD:      resp.CostUSD,
		LatencyMs:    int(resp.LatencyMs),
		Stage:        stage,
	}
}
