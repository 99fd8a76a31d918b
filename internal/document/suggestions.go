package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// ListSuggestions returns a document's word suggestions in position
// order, undecided ones included.
func (s *Service) ListSuggestions(ctx context.Context, user *models.User, docID uuid.UUID) ([]models.WordSuggestion, error) {
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, document_id, original_word, suggested_word, word_position,
		        start_offset, end_offset, COALESCE(context, ''), ai_confidence,
		        is_accepted, accepted_at, created_at
		 FROM word_suggestions
		 WHERE document_id = $1
		 ORDER BY word_position`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.WordSuggestion
	for rows.Next() {
		var ws models.WordSuggestion
		if err := rows.Scan(&ws.ID, &ws.DocumentID, &ws.OriginalWord,
			&ws.SuggestedWord, &ws.Position, &ws.StartOffset, &ws.EndOffset,
			&ws.Context, &ws.AIConfidence, &ws.IsAccepted, &ws.AcceptedAt,
			&ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, ws)
	}
	return suggestions, rows.Err()
}

// ResolveSuggestion records an accept or reject decision. accepted_at
// is stamped only on the transition to accepted; rejecting clears it.
func (s *Service) ResolveSuggestion(ctx context.Context, user *models.User, suggestionID uuid.UUID, accept bool) (*models.WordSuggestion, error) {
	var docID uuid.UUID
	err := s.db.QueryRow(ctx,
		`SELECT document_id FROM word_suggestions WHERE id = $1`,
		suggestionID,
	).Scan(&docID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("suggestion not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load suggestion: %w", err)
	}

	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, err
	}

	var ws models.WordSuggestion
	err = s.db.QueryRow(ctx,
		`UPDATE word_suggestions
		 SET is_accepted = $1,
		     accepted_at = CASE WHEN $1 THEN now() ELSE NULL END
		 WHERE id = $2
		 RETURNING id, document_id, original_word, suggested_word, word_position,
		           start_offset, end_offset, COALESCE(context, ''), ai_confidence,
		           is_accepted, accepted_at, created_at`,
		accept, suggestionID,
	).Scan(&ws.ID, &ws.DocumentID, &ws.OriginalWord, &ws.SuggestedWord,
		&ws.Position, &ws.StartOffset, &ws.EndOffset, &ws.Context,
		&ws.AIConfidence, &ws.IsAccepted, &ws.AcceptedAt, &ws.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update suggestion: %w", err)
	}
	return &ws, nil
}
