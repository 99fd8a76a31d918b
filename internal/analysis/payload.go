package analysis

// Payload is the fixed shape the model must return. Field names mirror
// the JSON keys requested by the prompt; one completion fans out into
// the analysis, metrics, section, suggestion and feedback tables.
type Payload struct {
	OverallAIScore      float64             `json:"overallAiScore"`
	HumanWrittenPercent float64             `json:"humanWrittenPercent"`
	AIGeneratedPercent  float64             `json:"aiGeneratedPercent"`
	TextMetrics         *TextMetricsPayload `json:"textMetrics"`
	Sections            []SectionPayload    `json:"sections"`
	WordSuggestions     []SuggestionPayload `json:"wordSuggestions"`
	FeedbackMetrics     *FeedbackPayload    `json:"feedbackMetrics"`
}

// TextMetricsPayload carries per-document measures. Percent fields are
// 0-100; lexicalDiversity, academicLanguageScore, punctuationDensity,
// predictabilityScore and nGramUniqueness are 0-1 fractions. The mixed
// scale is persisted verbatim, no normalization.
type TextMetricsPayload struct {
	WordCount             int     `json:"wordCount"`
	SentenceCount         int     `json:"sentenceCount"`
	AverageSentenceLength float64 `json:"averageSentenceLength"`
	ReadabilityScore      float64 `json:"readabilityScore"`
	LexicalDiversity      float64 `json:"lexicalDiversity"`
	UniqueWordCount       int     `json:"uniqueWordCount"`
	AcademicLanguageScore float64 `json:"academicLanguageScore"`
	PassiveVoicePercent   float64 `json:"passiveVoicePercentage"`
	FirstPersonPercent    float64 `json:"firstPersonPercentage"`
	ThirdPersonPercent    float64 `json:"thirdPersonPercentage"`
	PunctuationDensity    float64 `json:"punctuationDensity"`
	GrammarErrorCount     int     `json:"grammarErrorCount"`
	SpellingErrorCount    int     `json:"spellingErrorCount"`
	PredictabilityScore   float64 `json:"predictabilityScore"`
	NGramUniqueness       float64 `json:"nGramUniqueness"`
}

type SectionPayload struct {
	StartOffset   int     `json:"startOffset"`
	EndOffset     int     `json:"endOffset"`
	Content       string  `json:"content"`
	IsAIGenerated bool    `json:"isAiGenerated"`
	AIConfidence  float64 `json:"aiConfidence"`
	Suggestions   string  `json:"suggestions"`
}

type SuggestionPayload struct {
	OriginalWord  string  `json:"originalWord"`
	SuggestedWord string  `json:"suggestedWord"`
	Position      int     `json:"position"`
	StartOffset   int     `json:"startOffset"`
	EndOffset     int     `json:"endOffset"`
	Context       string  `json:"context"`
	AIConfidence  float64 `json:"aiConfidence"`
}

type FeedbackPayload struct {
	SentenceLengthChange    float64 `json:"sentenceLengthChange"`
	ParagraphStructureScore float64 `json:"paragraphStructureScore"`
	HeadingConsistencyScore float64 `json:"headingConsistencyScore"`

	LexicalDiversityChange float64 `json:"lexicalDiversityChange"`
	WordRepetitionScore    float64 `json:"wordRepetitionScore"`
	FormalityShift         float64 `json:"formalityShift"`

	ReadabilityChange        float64 `json:"readabilityChange"`
	VoiceConsistencyScore    float64 `json:"voiceConsistencyScore"`
	PerspectiveShift         float64 `json:"perspectiveShift"`
	DescriptiveLanguageScore float64 `json:"descriptiveLanguageScore"`

	GrammarErrorCount     int `json:"grammarErrorCount"`
	SpellingErrorCount    int `json:"spellingErrorCount"`
	PunctuationErrorCount int `json:"punctuationErrorCount"`

	ThematicConsistencyScore float64 `json:"thematicConsistencyScore"`
	KeywordFrequencyChange   float64 `json:"keywordFrequencyChange"`
	ArgumentDevelopmentScore float64 `json:"argumentDevelopmentScore"`

	NGramSimilarityScore   float64 `json:"nGramSimilarityScore"`
	TfIdfSimilarityScore   float64 `json:"tfIdfSimilarityScore"`
	JaccardSimilarityScore float64 `json:"jaccardSimilarityScore"`

	OriginalityShift float64 `json:"originalityShift"`
}

// ZeroPayload is the result for empty content: nothing to analyze, so
// the document is reported fully human-written without a model call.
func ZeroPayload() *Payload {
	return &Payload{
		OverallAIScore:      0,
		HumanWrittenPercent: 100,
		AIGeneratedPercent:  0,
		TextMetrics:         &TextMetricsPayload{},
		Sections:            []SectionPayload{},
		WordSuggestions:     []SuggestionPayload{},
		FeedbackMetrics:     &FeedbackPayload{},
	}
}
