package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/boothiq/leadcapture/internal/audit"
	"github.com/boothiq/leadcapture/internal/config"
	"github.com/boothiq/leadcapture/internal/database"
	"github.com/boothiq/leadcapture/internal/embedding"
	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/lead"
	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/internal/queue"
	"github.com/boothiq/leadcapture/internal/queue/workers"
	"github.com/boothiq/leadcapture/internal/storage"
	"github.com/boothiq/leadcapture/internal/stt"
	"github.com/boothiq/leadcapture/internal/vectorstore"
	"github.com/boothiq/leadcapture/internal/vision"
	"github.com/boothiq/leadcapture/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	gw := llm.NewGateway(cfg.LLM)

	dispatcher := webhook.NewDispatcher(db)
	defer dispatcher.Close()

	deps := workers.Deps{
		Leads:     lead.NewService(db, nil),
		Storage:   storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey),
		Bucket:    cfg.Storage.Bucket,
		Parser:    extraction.NewFieldParser(gw, cfg.Extraction.ParseModel),
		Embedder:  embedding.NewService(gw, cfg.LLM.EmbeddingModel),
		Vectors:   vectorstore.NewPgVectorStore(db),
		Webhooks:  webhook.NewService(db, dispatcher),
		Audit:     audit.NewService(db),
		Threshold: cfg.Extraction.ConfidenceThreshold,
	}

	var sttProvider stt.Provider
	switch cfg.STT.Backend {
	case "local":
		sttProvider = stt.NewLocalSTT(stt.LocalConfig{BaseURL: cfg.STT.LocalBaseURL})
	default:
		sttProvider = stt.NewOpenAISTT(stt.OpenAIConfig{
			APIKey:  cfg.STT.OpenAIKey,
			BaseURL: cfg.STT.OpenAIBaseURL,
			Model:   cfg.STT.OpenAIModel,
		})
	}

	var visionProvider vision.Provider
	switch cfg.Extraction.VisionBackend {
	case "tesseract":
		visionProvider = vision.NewTesseract()
	default:
		visionProvider = vision.NewLLMVision(gw, cfg.Extraction.VisionModel)
	}

	signedTTL := time.Duration(cfg.Storage.SignedURLExpirySec) * time.Second
	voiceWorker := workers.NewVoiceWorker(deps, sttProvider, signedTTL)
	cardWorker := workers.NewCardWorker(deps, visionProvider)

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypeVoiceExtract, asynq.HandlerFunc(voiceWorker.ProcessTask))
	registry.Register(queue.TypeCardExtract, asynq.HandlerFunc(cardWorker.ProcessTask))

	slog.Info("starting worker",
		"concurrency", cfg.Queue.Concurrency,
		"stt_backend", cfg.STT.Backend,
		"vision_backend", cfg.Extraction.VisionBackend,
	)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
