package capture

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/boothiq/leadcapture/internal/exhibitor"
	"github.com/boothiq/leadcapture/internal/lead"
	"github.com/boothiq/leadcapture/internal/models"
	"github.com/boothiq/leadcapture/internal/queue"
	"github.com/boothiq/leadcapture/internal/storage"
)

type Service struct {
	leads   *lead.Service
	storage storage.Storage
	queue   *queue.Client
	bucket  string
}

func NewService(leads *lead.Service, store storage.Storage, qc *queue.Client, bucket string) *Service {
	return &Service{
		leads:   leads,
		storage: store,
		queue:   qc,
		bucket:  bucket,
	}
}

type UploadRequest struct {
	BoothID     string
	Filename    string
	ContentType string
	Data        io.Reader
	// Language optionally hints the transcriber (BCP-47, e.g. "de").
	Language string
}

// Voice stores the audio clip, inserts a pending lead, and enqueues
// transcription. The artifact upload must fully succeed before the row
// exists so a lead never lacks its provenance URL.
func (s *Service) Voice(ctx context.Context, req UploadRequest) (*models.Lead, error) {
	if !isAudio(req.ContentType) {
		return nil, fmt.Errorf("unsupported audio content type: %s", req.ContentType)
	}

	pending, key, err := s.intake(ctx, models.LeadTypeVoice, req)
	if err != nil {
		return nil, err
	}

	err = s.queue.EnqueueVoiceExtract(queue.VoiceExtractPayload{
		LeadID:      pending.ID.String(),
		ExhibitorID: pending.ExhibitorID.String(),
		StorageKey:  key,
		ContentType: req.ContentType,
		Language:    req.Language,
	})
	if err != nil {
		s.markFailed(ctx, pending)
		return nil, fmt.Errorf("enqueue voice extraction: %w", err)
	}

	return pending, nil
}

// Card stores the card scan and enqueues field extraction. Accepts images
// plus PDF and plain-text scans, which skip vision in favor of their
// embedded text.
func (s *Service) Card(ctx context.Context, req UploadRequest) (*models.Lead, error) {
	if !isCardScan(req.ContentType) {
		return nil, fmt.Errorf("unsupported card content type: %s", req.ContentType)
	}

	pending, key, err := s.intake(ctx, models.LeadTypeImage, req)
	if err != nil {
		return nil, err
	}

	err = s.queue.EnqueueCardExtract(queue.CardExtractPayload{
		LeadID:      pending.ID.String(),
		ExhibitorID: pending.ExhibitorID.String(),
		StorageKey:  key,
		ContentType: req.ContentType,
	})
	if err != nil {
		s.markFailed(ctx, pending)
		return nil, fmt.Errorf("enqueue card extraction: %w", err)
	}

	return pending, nil
}

func (s *Service) intake(ctx context.Context, leadType string, req UploadRequest) (*models.Lead, string, error) {
	boothID := strings.TrimSpace(req.BoothID)
	if boothID == "" {
		return nil, "", fmt.Errorf("booth_id is required")
	}

	exhibitorID := exhibitor.IDFromContext(ctx)
	leadID := uuid.New()
	key := fmt.Sprintf("%s/%s/%s", exhibitorID, leadID, safeFilename(req.Filename, leadType))

	if err := s.storage.Upload(ctx, s.bucket, key, req.Data, req.ContentType); err != nil {
		return nil, "", fmt.Errorf("store capture artifact: %w", err)
	}

	staff := exhibitor.StaffFromContext(ctx)
	var capturedBy *uuid.UUID
	if staff != nil {
		capturedBy = &staff.ID
	}

	pending, err := s.leads.Insert(ctx, &models.Lead{
		ID:          leadID,
		ExhibitorID: exhibitorID,
		BoothID:     boothID,
		Type:        leadType,
		Status:      models.LeadStatusPending,
		Source:      s.storage.GetPublicURL(s.bucket, key),
		CapturedBy:  capturedBy,
	})
	if err != nil {
		return nil, "", err
	}

	return pending, key, nil
}

func (s *Service) markFailed(ctx context.Context, pending *models.Lead) {
	if err := s.leads.UpdateStatus(ctx, pending.ID, pending.ExhibitorID, models.LeadStatusFailed); err != nil {
		slog.Error("failed to mark lead failed", "lead_id", pending.ID, "error", err)
	}
}

func isAudio(contentType string) bool {
	// MediaRecorder on some browsers labels audio-only captures video/webm.
	return strings.HasPrefix(contentType, "audio/") || contentType == "video/webm"
}

func isCardScan(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") ||
		contentType == "application/pdf" ||
		contentType == "text/plain"
}

func safeFilename(name, leadType string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		if leadType == models.LeadTypeVoice {
			return "capture.webm"
		}
		return "capture.jpg"
	}
	return base
}
