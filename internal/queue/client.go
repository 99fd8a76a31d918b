package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/config"
)

// Client enqueues background jobs over the shared redis instance.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueDocumentAnalyze schedules the model analysis for a document
// created in async mode. The LLM call can be slow, hence the generous
// timeout.
func (c *Client) EnqueueDocumentAnalyze(ctx context.Context, documentID uuid.UUID) error {
	return c.enqueue(ctx, TypeDocumentAnalyze,
		DocumentAnalyzePayload{DocumentID: documentID.String()},
		asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
}

// EnqueueEmbeddingIndex schedules similarity-index maintenance for a
// document version. Losing one of these only degrades search results.
func (c *Client) EnqueueEmbeddingIndex(ctx context.Context, documentID uuid.UUID) error {
	return c.enqueue(ctx, TypeEmbeddingIndex,
		EmbeddingIndexPayload{DocumentID: documentID.String()},
		asynq.MaxRetry(2), asynq.Timeout(2*time.Minute))
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if _, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
