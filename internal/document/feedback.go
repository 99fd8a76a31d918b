package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/audit"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// GetFeedback returns the feedback row for a document together with
// its comparison metrics, when present.
func (s *Service) GetFeedback(ctx context.Context, user *models.User, docID uuid.UUID) (*models.Feedback, *models.FeedbackMetrics, error) {
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, nil, err
	}

	var fb models.Feedback
	err := s.db.QueryRow(ctx,
		`SELECT id, document_id, user_id, status, reviewed_by, created_at, updated_at
		 FROM feedback WHERE document_id = $1`,
		docID,
	).Scan(&fb.ID, &fb.DocumentID, &fb.UserID, &fb.Status, &fb.ReviewedBy,
		&fb.CreatedAt, &fb.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperr.NotFound("feedback not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load feedback: %w", err)
	}

	var fm models.FeedbackMetrics
	err = s.db.QueryRow(ctx,
		`SELECT id, feedback_id, sentence_length_change, paragraph_structure_score,
		        heading_consistency_score, lexical_diversity_change,
		        word_repetition_score, formality_shift, readability_change,
		        voice_consistency_score, perspective_shift,
		        descriptive_language_score, grammar_error_count,
		        spelling_error_count, punctuation_error_count,
		        thematic_consistency_score, keyword_frequency_change,
		        argument_development_score, n_gram_similarity_score,
		        tf_idf_similarity_score, jaccard_similarity_score,
		        originality_shift, created_at
		 FROM feedback_metrics WHERE feedback_id = $1`,
		fb.ID,
	).Scan(&fm.ID, &fm.FeedbackID, &fm.SentenceLengthChange,
		&fm.ParagraphStructureScore, &fm.HeadingConsistencyScore,
		&fm.LexicalDiversityChange, &fm.WordRepetitionScore, &fm.FormalityShift,
		&fm.ReadabilityChange, &fm.VoiceConsistencyScore, &fm.PerspectiveShift,
		&fm.DescriptiveLanguageScore, &fm.GrammarErrorCount,
		&fm.SpellingErrorCount, &fm.PunctuationErrorCount,
		&fm.ThematicConsistencyScore, &fm.KeywordFrequencyChange,
		&fm.ArgumentDevelopmentScore, &fm.NGramSimilarityScore,
		&fm.TfIdfSimilarityScore, &fm.JaccardSimilarityScore,
		&fm.OriginalityShift, &fm.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &fb, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load feedback metrics: %w", err)
	}
	return &fb, &fm, nil
}

// ReviewFeedback marks ANALYZED feedback as REVIEWED. Only teachers
// and admins review.
func (s *Service) ReviewFeedback(ctx context.Context, user *models.User, docID uuid.UUID) (*models.Feedback, error) {
	if user.Role != models.RoleTeacher && !user.IsAdmin() {
		return nil, apperr.Forbidden("only teachers may review feedback")
	}
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, err
	}

	var fb models.Feedback
	err := s.db.QueryRow(ctx,
		`UPDATE feedback
		 SET status = $1, reviewed_by = $2, updated_at = now()
		 WHERE document_id = $3 AND status = $4
		 RETURNING id, document_id, user_id, status, reviewed_by, created_at, updated_at`,
		models.FeedbackStatusReviewed, user.ID, docID, models.FeedbackStatusAnalyzed,
	).Scan(&fb.ID, &fb.DocumentID, &fb.UserID, &fb.Status, &fb.ReviewedBy,
		&fb.CreatedAt, &fb.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Invalid("feedback is not in a reviewable state")
	}
	if err != nil {
		return nil, fmt.Errorf("review feedback: %w", err)
	}

	if err := s.audit.Log(ctx, audit.LogEntry{
		Action:       audit.ActionFeedbackReviewed,
		ResourceType: "feedback",
		ResourceID:   &fb.ID,
	}); err != nil {
		slog.Warn("write audit log", "error", err, "feedback_id", fb.ID)
	}
	return &fb, nil
}
