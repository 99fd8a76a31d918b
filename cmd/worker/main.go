package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/access"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/analysis"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/billing"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/config"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/database"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/document"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/embedding"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/llm"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/queue"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/queue/workers"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/usage"
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

	ctx := context.Background()
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	gw := llm.NewGateway(cfg.LLM)
	requester := analysis.NewRequester(gw, cfg.LLM.DefaultModel, cfg.Analysis.MaxContentChars)
	docSvc := document.NewService(db, access.NewGuard(db), requester,
		billing.NewService(db), usage.NewRecorder(db, nil),
		audit.NewService(db), nil, nil, cfg.Analysis.PersistTimeout)
	embedSvc := embedding.NewService(db, gw, cfg.LLM.EmbeddingModel)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()
	analysisWorker := workers.NewAnalysisWorker(docSvc)
	embeddingWorker := workers.NewEmbeddingWorker(db, embedSvc)
	registry.Register(queue.TypeDocumentAnalyze, asynq.HandlerFunc(analysisWorker.ProcessTask))
	registry.Register(queue.TypeEmbeddingIndex, asynq.HandlerFunc(embeddingWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
