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

// GetAnalysis returns the AI-content verdict for a document version.
func (s *Service) GetAnalysis(ctx context.Context, user *models.User, docID uuid.UUID) (*models.AIAnalysis, error) {
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, err
	}

	var a models.AIAnalysis
	err := s.db.QueryRow(ctx,
		`SELECT id, document_id, overall_ai_score, human_written_percent,
		        ai_generated_percent, created_at
		 FROM ai_analyses WHERE document_id = $1`,
		docID,
	).Scan(&a.ID, &a.DocumentID, &a.OverallAIScore, &a.HumanWrittenPercent,
		&a.AIGeneratedPercent, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("analysis not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	return &a, nil
}

// GetMetrics returns the text metrics produced by the analysis.
func (s *Service) GetMetrics(ctx context.Context, user *models.User, docID uuid.UUID) (*models.TextMetrics, error) {
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, err
	}

	var m models.TextMetrics
	err := s.db.QueryRow(ctx,
		`SELECT m.id, m.analysis_id, m.word_count, m.sentence_count,
		        m.average_sentence_length, m.readability_score,
		        m.lexical_diversity, m.unique_word_count,
		        m.academic_language_score, m.passive_voice_percent,
		        m.first_person_percent, m.third_person_percent,
		        m.punctuation_density, m.grammar_error_count,
		        m.spelling_error_count, m.predictability_score,
		        m.n_gram_uniqueness, m.created_at
		 FROM text_metrics m
		 JOIN ai_analyses a ON a.id = m.analysis_id
		 WHERE a.document_id = $1`,
		docID,
	).Scan(&m.ID, &m.AnalysisID, &m.WordCount, &m.SentenceCount,
		&m.AverageSentenceLength, &m.ReadabilityScore, &m.LexicalDiversity,
		&m.UniqueWordCount, &m.AcademicLanguageScore, &m.PassiveVoicePercent,
		&m.FirstPersonPercent, &m.ThirdPersonPercent, &m.PunctuationDensity,
		&m.GrammarErrorCount, &m.SpellingErrorCount, &m.PredictabilityScore,
		&m.NGramUniqueness, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("text metrics not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load text metrics: %w", err)
	}
	return &m, nil
}

// ListSections returns the analyzed spans of a document in offset order.
func (s *Service) ListSections(ctx context.Context, user *models.User, docID uuid.UUID) ([]models.DocumentSection, error) {
	if _, err := s.authorize(ctx, user, docID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT s.id, s.analysis_id, s.start_offset, s.end_offset, s.content,
		        s.is_ai_generated, s.ai_confidence, COALESCE(s.suggestions, ''),
		        s.created_at
		 FROM document_sections s
		 JOIN ai_analyses a ON a.id = s.analysis_id
		 WHERE a.document_id = $1
		 ORDER BY s.start_offset`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.DocumentSection
	for rows.Next() {
		var sec models.DocumentSection
		if err := rows.Scan(&sec.ID, &sec.AnalysisID, &sec.StartOffset,
			&sec.EndOffset, &sec.Content, &sec.IsAIGenerated,
			&sec.AIConfidence, &sec.Suggestions, &sec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}
