package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/access"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/analysis"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/api/handlers"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/api/middleware"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/assignment"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/auth"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/billing"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/cache"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/config"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/document"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/embedding"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/group"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/llm"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/queue"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/storage"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/usage"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
	llmGW llm.Gateway
	queue *queue.Client
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret, db),
		llmGW: llm.NewGateway(cfg.LLM),
		queue: queue.NewClient(cfg.Redis),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	guard := access.NewGuard(rt.db)
	requester := analysis.NewRequester(rt.llmGW, rt.cfg.LLM.DefaultModel, rt.cfg.Analysis.MaxContentChars)
	billingSvc := billing.NewService(rt.db)
	recorder := usage.NewRecorder(rt.db, cache.NewCache(rt.redis))
	auditSvc := audit.NewService(rt.db)
	var files document.FileStore
	if rt.cfg.Storage.SupabaseURL != "" {
		files = storage.NewSupabaseStorage(rt.cfg.Storage.SupabaseURL, rt.cfg.Storage.SupabaseKey, rt.cfg.Storage.Bucket)
	}
	docSvc := document.NewService(rt.db, guard, requester, billingSvc, recorder,
		auditSvc, files, rt.queue, rt.cfg.Analysis.PersistTimeout)
	embedSvc := embedding.NewService(rt.db, rt.llmGW, rt.cfg.LLM.EmbeddingModel)
	groupSvc := group.NewService(rt.db, billingSvc)
	assignSvc := assignment.NewService(rt.db, groupSvc)

	// The billing webhook authenticates by signature, not JWT.
	billingH := handlers.NewBillingHandler(billingSvc, rt.cfg.Billing.WebhookSecret)
	r.Post("/webhooks/billing", billingH.Webhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		userH := handlers.NewUserHandler()
		r.Get("/users/me", userH.Me)
		r.Get("/billing/plan", billingH.Plan)

		docH := handlers.NewDocumentHandler(docSvc, embedSvc)
		feedbackH := handlers.NewFeedbackHandler(docSvc)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docH.Create)
			r.Post("/upload", docH.Upload)
			r.Get("/", docH.List)
			r.Get("/{id}", docH.Get)
			r.Post("/{id}/versions", docH.CreateVersion)
			r.Get("/{id}/versions", docH.ListVersions)
			r.Get("/{id}/analysis", docH.GetAnalysis)
			r.Get("/{id}/metrics", docH.GetMetrics)
			r.Get("/{id}/sections", docH.ListSections)
			r.Get("/{id}/suggestions", docH.ListSuggestions)
			r.Get("/{id}/similar", docH.Similar)
			r.Post("/{id}/analyze", docH.Reanalyze)
			r.Get("/{id}/feedback", feedbackH.Get)
			r.Post("/{id}/feedback/review", feedbackH.Review)
		})

		suggestionH := handlers.NewSuggestionHandler(docSvc)
		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/{id}/accept", suggestionH.Accept)
			r.Post("/{id}/reject", suggestionH.Reject)
		})

		groupH := handlers.NewGroupHandler(groupSvc)
		assignH := handlers.NewAssignmentHandler(assignSvc)
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", groupH.Create)
			r.Post("/join", groupH.Join)
			r.Get("/", groupH.List)
			r.Get("/{id}", groupH.Get)
			r.Get("/{id}/members", groupH.Members)
			r.Post("/{id}/assignments", assignH.Create)
			r.Get("/{id}/assignments", assignH.List)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/{id}/submissions", assignH.CreateSubmission)
			r.Get("/{id}/submissions", assignH.ListSubmissions)
		})
		r.Post("/submissions/{id}/transition", assignH.Transition)

		adminH := handlers.NewAdminHandler(auditSvc)
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/audit", adminH.AuditLogs)
		})
	})

	return r
}
