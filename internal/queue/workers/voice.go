package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/internal/models"
	"github.com/boothiq/leadcapture/internal/queue"
	"github.com/boothiq/leadcapture/internal/stt"
)

type VoiceWorker struct {
	Deps
	stt       stt.Provider
	signedTTL time.Duration
}

func NewVoiceWorker(deps Deps, provider stt.Provider, signedTTL time.Duration) *VoiceWorker {
	return &VoiceWorker{
		Deps:      deps,
		stt:       provider,
		signedTTL: signedTTL,
	}
}

// ProcessTask runs the voice pipeline: download, transcribe, parse fields,
// score, compose fallback remarks, and persist the completed lead. A parse
// failure degrades to empty fields so the transcript itself still survives;
// a transcription failure fails the lead.
func (w *VoiceWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.VoiceExtractPayload
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

	slog.Info("processing voice capture", "lead_id", leadID)

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
		return fmt.Errorf("download audio: %w", err)
	}
	defer reader.Close()

	sttStart := time.Now()
	tr, err := w.stt.Transcribe(ctx, stt.TranscriptionRequest{
		Audio:    reader,
		Filename: path.Base(payload.StorageKey),
		Language: payload.Language,
	})
	if err != nil {
		w.fail(ctx, leadID, exhibitorID)
		return fmt.Errorf("transcribe: %w", err)
	}

	w.logUsage(ctx, models.ModelUsageLog{
		ExhibitorID: exhibitorID,
		LeadID:      &leadID,
		Provider:    w.stt.Name(),
		Model:       w.stt.Model(),
		CostUSD:     llm.CalculateAudioCost(w.stt.Model(), tr.Duration),
		LatencyMs:   int(time.Since(sttStart).Milliseconds()),
		Stage:       "stt",
	})

	fields, parseResp, err := w.Parser.Parse(ctx, tr.Text)
	if parseResp != nil {
		w.logUsage(ctx, chatUsage(exhibitorID, leadID, "parse", parseResp))
	}
	if err != nil {
		slog.Warn("field parse failed, keeping raw transcript", "lead_id", leadID, "error", err)
		fields = extraction.CandidateFields{}
	}

	confidence := extraction.Score(fields, tr.Text, tr.Metadata())
	decision := extraction.Compose(fields, tr.Text, confidence, w.Threshold)

	var rawAudioURL *string
	if signed, err := w.Storage.CreateSignedURL(ctx, w.Bucket, payload.StorageKey, w.signedTTL); err != nil {
		slog.Warn("signing audio URL failed", "lead_id", leadID, "error", err)
	} else {
		rawAudioURL = &signed
	}

	assembled := extraction.Assemble(extraction.AssembleInput{
		ExhibitorID: exhibitorID,
		BoothID:     pending.BoothID,
		CapturedBy:  pending.CapturedBy,
		Type:        models.LeadTypeVoice,
		Fields:      fields,
		RawText:     tr.Text,
		Source:      pending.Source,
		RawAudioURL: rawAudioURL,
		Confidence:  confidence,
		Decision:    decision,
	})
	assembled.ID = leadID

	updated, err := w.Leads.CompleteExtraction(ctx, assembled)
	if err != nil {
		return fmt.Errorf("persist extraction: %w", err)
	}

	w.finish(ctx, updated)

	slog.Info("voice capture extracted",
		"lead_id", leadID, "confidence", confidence, "fallback", decision.Triggered)
	return nil
}
