package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/llm"
)

type fakeGateway struct {
	response string
	err      error
	calls    int
}

func (f *fakeGateway) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Provider: "fake", Content: f.response}, nil
}

func (f *fakeGateway) Embed(_ context.Context, _ llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

const validResponse = `{
  "overallAiScore": 42.5,
  "humanWrittenPercent": 57.5,
  "aiGeneratedPercent": 42.5,
  "textMetrics": {
    "wordCount": 120,
    "sentenceCount": 8,
    "averageSentenceLength": 15,
    "readabilityScore": 61.3,
    "lexicalDiversity": 0.72,
    "uniqueWordCount": 85,
    "academicLanguageScore": 0.41,
    "passiveVoicePercentage": 12.5,
    "firstPersonPercentage": 3.1,
    "thirdPersonPercentage": 22.4,
    "punctuationDensity": 0.08,
    "grammarErrorCount": 2,
    "spellingErrorCount": 0,
    "predictabilityScore": 0.55,
    "nGramUniqueness": 0.81
  },
  "sections": [
    {"startOffset": 0, "endOffset": 64, "content": "intro", "isAiGenerated": false, "aiConfidence": 0.2, "suggestions": "vary sentence openings"},
    {"startOffset": 64, "endOffset": 180, "content": "body", "isAiGenerated": true, "aiConfidence": 0.9, "suggestions": ""}
  ],
  "wordSuggestions": [
    {"originalWord": "utilize", "suggestedWord": "use", "position": 14, "startOffset": 90, "endOffset": 97, "context": "we utilize the method", "aiConfidence": 0.85}
  ],
  "feedbackMetrics": {
    "sentenceLengthChange": -1.2,
    "paragraphStructureScore": 70,
    "headingConsistencyScore": 80,
    "lexicalDiversityChange": 0.05,
    "wordRepetitionScore": 65,
    "formalityShift": 0.3,
    "readabilityChange": 2.1,
    "voiceConsistencyScore": 75,
    "perspectiveShift": 0,
    "descriptiveLanguageScore": 60,
    "grammarErrorCount": 2,
    "spellingErrorCount": 0,
    "punctuationErrorCount": 1,
    "thematicConsistencyScore": 82,
    "keywordFrequencyChange": -0.4,
    "argumentDevelopmentScore": 71,
    "nGramSimilarityScore": 33,
    "tfIdfSimilarityScore": 41,
    "jaccardSimilarityScore": 29,
    "originalityShift": 0.12
  }
}`

func TestAnalyzeEmptyContentSkipsModel(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t  \n"} {
		gw := &fakeGateway{response: validResponse}
		r := NewRequester(gw, "gpt-4o", 0)

		p, err := r.Analyze(context.Background(), "Essay", content)
		if err != nil {
			t.Fatalf("Analyze(%q) error: %v", content, err)
		}
		if gw.calls != 0 {
			t.Errorf("Analyze(%q) made %d model calls, want 0", content, gw.calls)
		}
		if p.OverallAIScore != 0 || p.HumanWrittenPercent != 100 || p.AIGeneratedPercent != 0 {
			t.Errorf("zero payload = %+v", p)
		}
	}
}

func TestAnalyzeParsesValidResponse(t *testing.T) {
	gw := &fakeGateway{response: validResponse}
	r := NewRequester(gw, "gpt-4o", 0)

	p, err := r.Analyze(context.Background(), "Essay", "Hello world.")
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if gw.calls != 1 {
		t.Errorf("model calls = %d, want 1", gw.calls)
	}
	if p.OverallAIScore != 42.5 {
		t.Errorf("OverallAIScore = %v, want 42.5", p.OverallAIScore)
	}
	// Mixed numeric scale must come through untouched.
	if p.TextMetrics.LexicalDiversity != 0.72 {
		t.Errorf("LexicalDiversity = %v, want 0.72 (fraction, not percent)", p.TextMetrics.LexicalDiversity)
	}
	if p.TextMetrics.PassiveVoicePercent != 12.5 {
		t.Errorf("PassiveVoicePercent = %v, want 12.5", p.TextMetrics.PassiveVoicePercent)
	}
	if len(p.Sections) != 2 || len(p.WordSuggestions) != 1 {
		t.Errorf("sections = %d, suggestions = %d", len(p.Sections), len(p.WordSuggestions))
	}
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not JSON", "The document appears to be mostly human written."},
		{"truncated", `{"overallAiScore": 10, "textMetrics": {`},
		{"missing textMetrics", `{"overallAiScore": 10, "sections": [], "wordSuggestions": [], "feedbackMetrics": {}}`},
		{"missing feedbackMetrics", `{"overallAiScore": 10, "textMetrics": {}, "sections": [], "wordSuggestions": []}`},
		{"missing sections", `{"overallAiScore": 10, "textMetrics": {}, "wordSuggestions": [], "feedbackMetrics": {}}`},
		{"inverted offsets", `{"overallAiScore": 10, "textMetrics": {}, "wordSuggestions": [], "feedbackMetrics": {},
			"sections": [{"startOffset": 50, "endOffset": 10, "content": "x", "isAiGenerated": false, "aiConfidence": 0.5}]}`},
		{"confidence out of range", `{"overallAiScore": 10, "textMetrics": {}, "wordSuggestions": [], "feedbackMetrics": {},
			"sections": [{"startOffset": 0, "endOffset": 10, "content": "x", "isAiGenerated": true, "aiConfidence": 1.5}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{response: tt.response}
			r := NewRequester(gw, "gpt-4o", 0)

			_, err := r.Analyze(context.Background(), "Essay", "Hello world.")
			if err == nil {
				t.Fatal("Analyze succeeded, want AnalysisParse error")
			}
			if apperr.KindOf(err) != apperr.KindAnalysisParse {
				t.Errorf("error kind = %v, want KindAnalysisParse (%v)", apperr.KindOf(err), err)
			}
		})
	}
}

func TestAnalyzeTransportErrorIsNotParseError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection reset")}
	r := NewRequester(gw, "gpt-4o", 0)

	_, err := r.Analyze(context.Background(), "Essay", "Hello world.")
	if err == nil {
		t.Fatal("Analyze succeeded, want error")
	}
	if apperr.KindOf(err) == apperr.KindAnalysisParse {
		t.Error("transport failure wrongly classified as parse error")
	}
}

func TestParsePayloadStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	p, err := ParsePayload(fenced)
	if err != nil {
		t.Fatalf("ParsePayload error: %v", err)
	}
	if p.TextMetrics.WordCount != 120 {
		t.Errorf("WordCount = %d, want 120", p.TextMetrics.WordCount)
	}
}

func TestAnalyzeShapeIsDeterministic(t *testing.T) {
	gw := &fakeGateway{response: validResponse}
	r := NewRequester(gw, "gpt-4o", 0)

	first, err := r.Analyze(context.Background(), "Essay", "Hello world.")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Analyze(context.Background(), "Essay", "Hello world.")
	if err != nil {
		t.Fatal(err)
	}

	// Scores may vary between calls; required structure may not.
	if (first.TextMetrics == nil) != (second.TextMetrics == nil) ||
		(first.FeedbackMetrics == nil) != (second.FeedbackMetrics == nil) ||
		len(first.Sections) != len(second.Sections) ||
		len(first.WordSuggestions) != len(second.WordSuggestions) {
		t.Error("payload structure differs between identical inputs")
	}
}

func TestAnalyzeTruncatesOversizedContent(t *testing.T) {
	gw := &fakeGateway{response: validResponse}
	r := NewRequester(gw, "gpt-4o", 100)

	long := make([]rune, 10_000)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := r.Analyze(context.Background(), "Essay", string(long)); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if gw.calls != 1 {
		t.Errorf("model calls = %d, want 1", gw.calls)
	}
}
