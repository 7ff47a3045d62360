package workers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/models"
	"github.com/boothiq/leadcapture/internal/queue"
	"github.com/boothiq/leadcapture/internal/vision"
	"github.com/boothiq/leadcapture/pkg/textextract"
)

type CardWorker struct {
	Deps
	vision vision.Provider
}

func NewCardWorker(deps Deps, provider vision.Provider) *CardWorker {
	return &CardWorker{
		Deps:   deps,
		vision: provider,
	}
}

// ProcessTask runs the card pipeline. Images go through the vision backend;
// PDF and text scans skip it and use their embedded text. Either way the raw
// text funnels into the shared parser/scorer/fallback chain, so a card lead
// and a voice lead degrade identically.
func (w *CardWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.CardExtractPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("parse lead ID: %w", err)
	}
	exhibitorID, err := uuid.Parse(payload.ExhibitorID)
	if err != nil {
		return fmt.Errorf("parse exhibitor ID: %w", err)
	}

	slog.Info("processing card capture", "lead_id", leadID)

	if err := w.Leads.UpdateStatus(ctx, leadID, exhibitorID, models.LeadStatusProcessing); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	pending, err := w.Leads.GetForExtraction(ctx, leadID, exhibitorID)
	if err != nil {
		return fmt.Errorf("load pending lead: %w", err)
	}

	reader, err := w.Storage.Download(ctx, w.Bucket, payload.StorageKey)
	if err != nil {
		w.fail(ctx, leadID, exhibitorID)
		return fmt.Errorf("download card scan: %w", err)
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		w.fail(ctx, leadID, exhibitorID)
		return fmt.Errorf("read card scan: %w", err)
	}

	var fields extraction.CandidateFields
	var rawText string

	if textextract.Supported(payload.ContentType) {
		doc, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), payload.ContentType)
		if err != nil {
			w.fail(ctx, leadID, exhibitorID)
			return fmt.Errorf("extract embedded text: %w", err)
		}
		rawText = doc.Content
		fields = w.parseText(ctx, leadID, exhibitorID, rawText)
	} else {
		card, err := w.vision.ExtractCard(ctx, vision.ImageInput{
			Base64:   base64.StdEncoding.EncodeToString(data),
			MimeType: payload.ContentType,
		})
		if err != nil {
			w.fail(ctx, leadID, exhibitorID)
			return fmt.Errorf("vision extract: %w", err)
		}
		if card.Usage != nil {
			w.logUsage(ctx, chatUsage(exhibitorID, leadID, "vision", card.Usage))
		}
		fields = card.Fields
		rawText = card.OCRText

		// OCR-only backends return text without structure
		if fields.Empty() && strings.TrimSpace(rawText) != "" {
			fields = w.parseText(ctx, leadID, exhibitorID, rawText)
		}
	}

	confidence := extraction.Score(fields, rawText, nil)
	decision := extraction.ComposeLabeled(fields, rawText, confidence, w.Threshold, extraction.CardTextLabel)

	assembled := extraction.Assemble(extraction.AssembleInput{
		ExhibitorID: exhibitorID,
		BoothID:     pending.BoothID,
		CapturedBy:  pending.CapturedBy,
		Type:        models.LeadTypeImage,
		Fields:      fields,
		RawText:     rawText,
		Source:      pending.Source,
		Confidence:  confidence,
		Decision:    decision,
	})
	assembled.ID = leadID

	updated, err := w.Leads.CompleteExtraction(ctx, assembled)
	if err != nil {
		return fmt.Errorf("persist extraction: %w", err)
	}

	w.finish(ctx, updated)

	slog.Info("card capture extracted",
		"lead_id", leadID, "confidence", confidence, "fallback", decision.Triggered)
	return nil
}

func (w *CardWorker) parseText(ctx context.Context, leadID, exhibitorID uuid.UUID, rawText string) extraction.CandidateFields {
	fields, resp, err := w.Parser.Parse(ctx, rawText)
	if resp != nil {
		w.logUsage(ctx, chatUsage(exhibitorID, leadID, "parse", resp))
	}
	if err != nil {
		slog.Warn("field parse failed, keeping raw card text", "lead_id", leadID, "error", err)
		return extraction.CandidateFields{}
	}
	return fields
}
