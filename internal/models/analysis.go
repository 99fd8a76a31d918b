package models

import (
	"time"

	"github.com/google/uuid"
)

// AIAnalysis holds the top-level AI-content verdict for one document
// version. HumanWrittenPercent and AIGeneratedPercent are stored exactly
// as returned by the model; their sum is not enforced.
type AIAnalysis struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	DocumentID          uuid.UUID `json:"document_id" db:"document_id"`
	OverallAIScore      float64   `json:"overall_ai_score" db:"overall_ai_score"`
	HumanWrittenPercent float64   `json:"human_written_percent" db:"human_written_percent"`
	AIGeneratedPercent  float64   `json:"ai_generated_percent" db:"ai_generated_percent"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// TextMetrics is the per-version readability/style measure bag.
// Percentages are 0-100 except LexicalDiversity, AcademicLanguageScore,
// PunctuationDensity, PredictabilityScore and NGramUniqueness, which are
// 0-1 fractions. The mixed scale is preserved verbatim from the model.
type TextMetrics struct {
	ID                    uuid.UUID `json:"id" db:"id"`
	AnalysisID            uuid.UUID `json:"analysis_id" db:"analysis_id"`
	WordCount             int       `json:"word_count" db:"word_count"`
	SentenceCount         int       `json:"sentence_count" db:"sentence_count"`
	AverageSentenceLength float64   `json:"average_sentence_length" db:"average_sentence_length"`
	ReadabilityScore      float64   `json:"readability_score" db:"readability_score"`
	LexicalDiversity      float64   `json:"lexical_diversity" db:"lexical_diversity"`
	UniqueWordCount       int       `json:"unique_word_count" db:"unique_word_count"`
	AcademicLanguageScore float64   `json:"academic_language_score" db:"academic_language_score"`
	PassiveVoicePercent   float64   `json:"passive_voice_percent" db:"passive_voice_percent"`
	FirstPersonPercent    float64   `json:"first_person_percent" db:"first_person_percent"`
	ThirdPersonPercent    float64   `json:"third_person_percent" db:"third_person_percent"`
	PunctuationDensity    float64   `json:"punctuation_density" db:"punctuation_density"`
	GrammarErrorCount     int       `json:"grammar_error_count" db:"grammar_error_count"`
	SpellingErrorCount    int       `json:"spelling_error_count" db:"spelling_error_count"`
	PredictabilityScore   float64   `json:"predictability_score" db:"predictability_score"`
	NGramUniqueness       float64   `json:"n_gram_uniqueness" db:"n_gram_uniqueness"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
}

// DocumentSection is a contiguous character span of the owning document's
// content with a per-section AI-generation verdict.
type DocumentSection struct {
	ID            uuid.UUID `json:"id" db:"id"`
	AnalysisID    uuid.UUID `json:"analysis_id" db:"analysis_id"`
	StartOffset   int       `json:"start_offset" db:"start_offset"`
	EndOffset     int       `json:"end_offset" db:"end_offset"`
	Content       string    `json:"content" db:"content"`
	IsAIGenerated bool      `json:"is_ai_generated" db:"is_ai_generated"`
	AIConfidence  float64   `json:"ai_confidence" db:"ai_confidence"`
	Suggestions   string    `json:"suggestions,omitempty" db:"suggestions"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// WordSuggestion is a proposed word/phrase replacement. IsAccepted is
// tri-state: nil means undecided. AcceptedAt is set only when the
// suggestion transitions to accepted.
type WordSuggestion struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	DocumentID    uuid.UUID  `json:"document_id" db:"document_id"`
	OriginalWord  string     `json:"original_word" db:"original_word"`
	SuggestedWord string     `json:"suggested_word" db:"suggested_word"`
	Position      int        `json:"position" db:"position"`
	StartOffset   int        `json:"start_offset" db:"start_offset"`
	EndOffset     int        `json:"end_offset" db:"end_offset"`
	Context       string     `json:"context,omitempty" db:"context"`
	AIConfidence  float64    `json:"ai_confidence" db:"ai_confidence"`
	IsAccepted    *bool      `json:"is_accepted" db:"is_accepted"`
	AcceptedAt    *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
