package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/document"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/queue"
)

// AnalysisWorker runs the model analysis for documents created in
// async mode and persists the fan-out.
type AnalysisWorker struct {
	docs *document.Service
}

func NewAnalysisWorker(docs *document.Service) *AnalysisWorker {
	return &AnalysisWorker{docs: docs}
}

func (w *AnalysisWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DocumentAnalyzePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document id: %w", err)
	}

	slog.Info("analyzing document", "document_id", docID)

	if err := w.docs.Analyze(ctx, docID); err != nil {
		// A malformed model response will not heal on retry.
		if apperr.KindOf(err) == apperr.KindAnalysisParse {
			slog.Error("analysis payload malformed, not retrying",
				"document_id", docID, "error", err)
			return errors.Join(err, asynq.SkipRetry)
		}
		if apperr.KindOf(err) == apperr.KindNotFound {
			slog.Warn("document gone before analysis", "document_id", docID)
			return errors.Join(err, asynq.SkipRetry)
		}
		return fmt.Errorf("analyze document %s: %w", docID, err)
	}

	slog.Info("analysis complete", "document_id", docID)
	return nil
}
