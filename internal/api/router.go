package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/boothiq/leadcapture/internal/api/handlers"
	"github.com/boothiq/leadcapture/internal/api/middleware"
	"github.com/boothiq/leadcapture/internal/audit"
	"github.com/boothiq/leadcapture/internal/auth"
	"github.com/boothiq/leadcapture/internal/cache"
	"github.com/boothiq/leadcapture/internal/capture"
	"github.com/boothiq/leadcapture/internal/config"
	"github.com/boothiq/leadcapture/internal/embedding"
	"github.com/boothiq/leadcapture/internal/exhibitor"
	"github.com/boothiq/leadcapture/internal/lead"
	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/internal/queue"
	"github.com/boothiq/leadcapture/internal/storage"
	"github.com/boothiq/leadcapture/internal/vectorstore"
	"github.com/boothiq/leadcapture/internal/webhook"
)

type Router struct {
	mux        *chi.Mux
	db         *pgxpool.Pool
	redis      *redis.Client
	cfg        *config.Config
	es         *exhibitor.Service
	jwt        *auth.JWTMiddleware
	apikey     *auth.APIKeyMiddleware
	rbac       *auth.RBAC
	llmGW      llm.Gateway
	dispatcher *webhook.Dispatcher
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	es := exhibitor.NewService(db)
	return &Router{
		mux:        chi.NewRouter(),
		db:         db,
		redis:      rdb,
		cfg:        cfg,
		es:         es,
		jwt:        auth.NewJWTMiddleware(cfg.Auth.JWTSecret, es),
		apikey:     auth.NewAPIKeyMiddleware(db, cfg.Auth.APIKeyHeader, es),
		rbac:       auth.NewRBAC(db),
		llmGW:      llm.NewGateway(cfg.LLM),
		dispatcher: webhook.NewDispatcher(db),
	}
}

// Close stops the webhook dispatcher after pending deliveries drain.
func (rt *Router) Close() {
	rt.dispatcher.Close()
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	var c *cache.Cache
	if rt.redis != nil {
		c = cache.NewCache(rt.redis)
	}
	store := storage.NewSupabaseStorage(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.SupabaseKey)
	leadSvc := lead.NewService(rt.db, c)
	queueClient := queue.NewClient(rt.cfg.Redis)
	captureSvc := capture.NewService(leadSvc, store, queueClient, rt.cfg.Storage.Bucket)
	auditSvc := audit.NewService(rt.db)
	webhookSvc := webhook.NewService(rt.db, rt.dispatcher)

	vs := vectorstore.NewPgVectorStore(rt.db)
	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.LLM.EmbeddingModel)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth: try API key first, then JWT
		r.Use(rt.apikey.Authenticate)
		r.Use(rt.jwt.Authenticate)

		// Capture routes. Booth kiosks authenticate with API keys that may
		// carry no staff identity, so these stay outside the RBAC gates.
		captureH := handlers.NewCaptureHandler(captureSvc, auditSvc)
		r.Route("/captures", func(r chi.Router) {
			r.Post("/voice", captureH.Voice)
			r.Post("/card", captureH.Card)
		})

		// Lead routes
		leadH := handlers.NewLeadHandler(leadSvc, auditSvc, embedSvc, vs, webhookSvc)
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", leadH.List)
			r.Get("/stats", leadH.Stats)
			r.Get("/{id}", leadH.Get)
			r.Get("/{id}/similar", leadH.Similar)

			r.With(rt.rbac.RequirePermission(auth.PermLeadsWrite)).Post("/", leadH.Create)
			r.With(rt.rbac.RequirePermission(auth.PermLeadsWrite)).Patch("/{id}", leadH.Review)
			r.With(rt.rbac.RequirePermission(auth.PermLeadsDelete)).Delete("/{id}", leadH.Delete)
			r.With(rt.rbac.RequirePermission(auth.PermLeadsExport)).Get("/export", leadH.Export)
		})

		// Webhook routes
		webhookH := handlers.NewWebhookHandler(webhookSvc)
		r.Route("/webhooks", func(r chi.Router) {
			r.Use(rt.rbac.RequirePermission(auth.PermWebhooksManage))
			r.Post("/", webhookH.Create)
			r.Get("/", webhookH.List)
			r.Delete("/{id}", webhookH.Delete)
		})

		// Admin routes
		adminH := handlers.NewAdminHandler(auditSvc)
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.rbac.RequirePermission(auth.PermAdminRead))
			r.Get("/usage", adminH.Usage)
			r.Get("/audit", adminH.AuditLogs)
		})
	})

	return r
}
