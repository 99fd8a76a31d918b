package document

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/analysis"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/models"
)

// persistAnalysis fans one model payload out across the analysis
// tables inside the caller's transaction: ai_analyses, text_metrics,
// document_sections, word_suggestions, a PENDING feedback row,
// feedback_metrics, the document's feedback back-reference, and the
// flip to ANALYZED. Any failure rolls the whole transaction back.
//
// The payload must already be in hand; no model call happens here.
func persistAnalysis(ctx context.Context, tx pgx.Tx, doc *models.Document, p *analysis.Payload) error {
	if sum := p.HumanWrittenPercent + p.AIGeneratedPercent; math.Abs(sum-100) > 0.5 {
		slog.Warn("analysis percentages do not sum to 100",
			"document_id", doc.ID,
			"human_written", p.HumanWrittenPercent,
			"ai_generated", p.AIGeneratedPercent)
	}

	// Re-analysis replaces the previous results wholesale. The cascades
	// take text_metrics, document_sections and feedback_metrics along.
	if _, err := tx.Exec(ctx,
		`DELETE FROM ai_analyses WHERE document_id = $1`, doc.ID,
	); err != nil {
		return fmt.Errorf("clear prior analysis: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM word_suggestions WHERE document_id = $1`, doc.ID,
	); err != nil {
		return fmt.Errorf("clear prior suggestions: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM feedback WHERE document_id = $1`, doc.ID,
	); err != nil {
		return fmt.Errorf("clear prior feedback: %w", err)
	}

	analysisID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO ai_analyses
		   (id, document_id, overall_ai_score, human_written_percent, ai_generated_percent)
		 VALUES ($1, $2, $3, $4, $5)`,
		analysisID, doc.ID, p.OverallAIScore, p.HumanWrittenPercent, p.AIGeneratedPercent,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	m := p.TextMetrics
	if _, err := tx.Exec(ctx,
		`INSERT INTO text_metrics
		   (id, analysis_id, word_count, sentence_count, average_sentence_length,
		    readability_score, lexical_diversity, unique_word_count,
		    academic_language_score, passive_voice_percent, first_person_percent,
		    third_person_percent, punctuation_density, grammar_error_count,
		    spelling_error_count, predictability_score, n_gram_uniqueness)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		uuid.New(), analysisID, m.WordCount, m.SentenceCount, m.AverageSentenceLength,
		m.ReadabilityScore, m.LexicalDiversity, m.UniqueWordCount,
		m.AcademicLanguageScore, m.PassiveVoicePercent, m.FirstPersonPercent,
		m.ThirdPersonPercent, m.PunctuationDensity, m.GrammarErrorCount,
		m.SpellingErrorCount, m.PredictabilityScore, m.NGramUniqueness,
	); err != nil {
		return fmt.Errorf("insert text metrics: %w", err)
	}

	for _, sec := range p.Sections {
		if _, err := tx.Exec(ctx,
			`INSERT INTO document_sections
			   (id, analysis_id, start_offset, end_offset, content,
			    is_ai_generated, ai_confidence, suggestions)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), analysisID, sec.StartOffset, sec.EndOffset, sec.Content,
			sec.IsAIGenerated, sec.AIConfidence, sec.Suggestions,
		); err != nil {
			return fmt.Errorf("insert section: %w", err)
		}
	}

	for _, sug := range p.WordSuggestions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO word_suggestions
			   (id, document_id, original_word, suggested_word, word_position,
			    start_offset, end_offset, context, ai_confidence)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.New(), doc.ID, sug.OriginalWord, sug.SuggestedWord, sug.Position,
			sug.StartOffset, sug.EndOffset, sug.Context, sug.AIConfidence,
		); err != nil {
			return fmt.Errorf("insert suggestion: %w", err)
		}
	}

	feedbackID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO feedback (id, document_id, user_id, status)
		 VALUES ($1, $2, $3, $4)`,
		feedbackID, doc.ID, doc.UserID, models.FeedbackStatusPending,
	); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	f := p.FeedbackMetrics
	if _, err := tx.Exec(ctx,
		`INSERT INTO feedback_metrics
		   (id, feedback_id, sentence_length_change, paragraph_structure_score,
		    heading_consistency_score, lexical_diversity_change,
		    word_repetition_score, formality_shift, readability_change,
		    voice_consistency_score, perspective_shift, descriptive_language_score,
		    grammar_error_count, spelling_error_count, punctuation_error_count,
		    thematic_consistency_score, keyword_frequency_change,
		    argument_development_score, n_gram_similarity_score,
		    tf_idf_similarity_score, jaccard_similarity_score, originality_shift)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22)`,
		uuid.New(), feedbackID, f.SentenceLengthChange, f.ParagraphStructureScore,
		f.HeadingConsistencyScore, f.LexicalDiversityChange,
		f.WordRepetitionScore, f.FormalityShift, f.ReadabilityChange,
		f.VoiceConsistencyScore, f.PerspectiveShift, f.DescriptiveLanguageScore,
		f.GrammarErrorCount, f.SpellingErrorCount, f.PunctuationErrorCount,
		f.ThematicConsistencyScore, f.KeywordFrequencyChange,
		f.ArgumentDevelopmentScore, f.NGramSimilarityScore,
		f.TfIdfSimilarityScore, f.JaccardSimilarityScore, f.OriginalityShift,
	); err != nil {
		return fmt.Errorf("insert feedback metrics: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE documents SET feedback_id = $1, status = $2 WHERE id = $3`,
		feedbackID, models.DocStatusReady, doc.ID,
	); err != nil {
		return fmt.Errorf("set feedback reference: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE feedback SET status = $1, updated_at = now() WHERE id = $2`,
		models.FeedbackStatusAnalyzed, feedbackID,
	); err != nil {
		return fmt.Errorf("mark feedback analyzed: %w", err)
	}

	fb := feedbackID
	doc.FeedbackID = &fb
	doc.Status = models.DocStatusReady
	return nil
}

// PersistAnalysisFor runs the fan-out for an existing document using an
// already-fetched payload. Used by the background analysis worker and
// by re-analysis. The transaction carries the configured persistence
// timeout.
func (s *Service) PersistAnalysisFor(ctx context.Context, doc *models.Document, p *analysis.Payload) error {
	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return persistAnalysis(ctx, tx, doc, p)
	})
	if err != nil {
		return apperr.Persistence(err)
	}
	return nil
}
