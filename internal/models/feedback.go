package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackStatusPending  = "PENDING"
	FeedbackStatusAnalyzed = "ANALYZED"
	FeedbackStatusReviewed = "REVIEWED"
)

type Feedback struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	DocumentID uuid.UUID  `json:"document_id" db:"document_id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Status     string     `json:"status" db:"status"`
	ReviewedBy *uuid.UUID `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// FeedbackMetrics holds the comparison scores populated from the same
// model call that produces AIAnalysis and TextMetrics.
type FeedbackMetrics struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FeedbackID uuid.UUID `json:"feedback_id" db:"feedback_id"`

	// Structural comparison
	SentenceLengthChange    float64 `json:"sentence_length_change" db:"sentence_length_change"`
	ParagraphStructureScore float64 `json:"paragraph_structure_score" db:"paragraph_structure_score"`
	HeadingConsistencyScore float64 `json:"heading_consistency_score" db:"heading_consistency_score"`

	// Vocabulary
	LexicalDiversityChange float64 `json:"lexical_diversity_change" db:"lexical_diversity_change"`
	WordRepetitionScore    float64 `json:"word_repetition_score" db:"word_repetition_score"`
	FormalityShift         float64 `json:"formality_shift" db:"formality_shift"`

	// Style
	ReadabilityChange        float64 `json:"readability_change" db:"readability_change"`
	VoiceConsistencyScore    float64 `json:"voice_consistency_score" db:"voice_consistency_score"`
	PerspectiveShift         float64 `json:"perspective_shift" db:"perspective_shift"`
	DescriptiveLanguageScore float64 `json:"descriptive_language_score" db:"descriptive_language_score"`

	// Grammar
	GrammarErrorCount     int `json:"grammar_error_count" db:"grammar_error_count"`
	SpellingErrorCount    int `json:"spelling_error_count" db:"spelling_error_count"`
	PunctuationErrorCount int `json:"punctuation_error_count" db:"punctuation_error_count"`

	// Thematic
	ThematicConsistencyScore float64 `json:"thematic_consistency_score" db:"thematic_consistency_score"`
	KeywordFrequencyChange   float64 `json:"keyword_frequency_change" db:"keyword_frequency_change"`
	ArgumentDevelopmentScore float64 `json:"argument_development_score" db:"argument_development_score"`

	// Similarity
	NGramSimilarityScore   float64 `json:"n_gram_similarity_score" db:"n_gram_similarity_score"`
	TfIdfSimilarityScore   float64 `json:"tf_idf_similarity_score" db:"tf_idf_similarity_score"`
	JaccardSimilarityScore float64 `json:"jaccard_similarity_score" db:"jaccard_similarity_score"`

	// AI detection
	OriginalityShift float64 `json:"originality_shift" db:"originality_shift"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
