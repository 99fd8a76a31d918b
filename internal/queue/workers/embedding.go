package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/embedding"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/queue"
)

// EmbeddingWorker keeps the similarity index current. It reads the
// document content itself so the task payload stays small.
type EmbeddingWorker struct {
	db         *pgxpool.Pool
	embeddings *embedding.Service
}

func NewEmbeddingWorker(db *pgxpool.Pool, embeddings *embedding.Service) *EmbeddingWorker {
	return &EmbeddingWorker{db: db, embeddings: embeddings}
}

func (w *EmbeddingWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.EmbeddingIndexPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document id: %w", err)
	}

	var content string
	if err := w.db.QueryRow(ctx,
		`SELECT content FROM documents WHERE id = $1`, docID,
	).Scan(&content); err != nil {
		slog.Warn("document gone before embedding", "document_id", docID)
		return nil
	}

	if err := w.embeddings.IndexDocument(ctx, docID, content); err != nil {
		return fmt.Errorf("index document %s: %w", docID, err)
	}
	slog.Info("document indexed", "document_id", docID)
	return nil
}
