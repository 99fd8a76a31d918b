package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/apperr"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/internal/llm"
	"github.com/Dream-Launch-Studios/write-like-a-human-backend/pkg/tokenizer"
)

// Requester produces one Payload per document version by invoking the
// model with a rigid prompt and validating the JSON response shape.
type Requester struct {
	gw              llm.Gateway
	model           string
	maxContentChars int
}

func NewRequester(gw llm.Gateway, model string, maxContentChars int) *Requester {
	if maxContentChars <= 0 {
		maxContentChars = 60000
	}
	return &Requester{gw: gw, model: model, maxContentChars: maxContentChars}
}

// Analyze returns the structured analysis for content. Empty content
// short-circuits to a zero analysis without any model call. A response
// that is not valid JSON of the expected shape fails with an
// AnalysisParse error; the caller must not persist anything.
func (r *Requester) Analyze(ctx context.Context, title, content string) (*Payload, error) {
	if strings.TrimSpace(content) == "" {
		return ZeroPayload(), nil
	}

	if len([]rune(content)) > r.maxContentChars {
		content = string([]rune(content)[:r.maxContentChars])
	}

	prompt := BuildPrompt(title, content)

	resp, err := r.gw.Complete(ctx, llm.CompletionRequest{
		Model: r.model,
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   completionBudget(prompt),
	})
	if err != nil {
		return nil, fmt.Errorf("analysis completion: %w", err)
	}

	payload, err := ParsePayload(resp.Content)
	if err != nil {
		return nil, apperr.AnalysisParse(err)
	}
	return payload, nil
}

// ParsePayload decodes a model response into a Payload, tolerating a
// markdown code fence around the JSON but nothing else.
func ParsePayload(raw string) (*Payload, error) {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var p Payload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Payload) validate() error {
	if p.TextMetrics == nil {
		return fmt.Errorf("missing textMetrics")
	}
	if p.FeedbackMetrics == nil {
		return fmt.Errorf("missing feedbackMetrics")
	}
	if p.Sections == nil {
		return fmt.Errorf("missing sections")
	}
	if p.WordSuggestions == nil {
		return fmt.Errorf("missing wordSuggestions")
	}
	for i, s := range p.Sections {
		if s.EndOffset <= s.StartOffset {
			return fmt.Errorf("section %d: endOffset %d not after startOffset %d", i, s.EndOffset, s.StartOffset)
		}
		if s.AIConfidence < 0 || s.AIConfidence > 1 {
			return fmt.Errorf("section %d: aiConfidence %v outside [0,1]", i, s.AIConfidence)
		}
	}
	return nil
}

// completionBudget sizes MaxTokens to the request: the response grows
// with document length because sections echo span text.
func completionBudget(prompt string) int {
	n := tokenizer.CountTokens(prompt)/2 + 2048
	if n > 8192 {
		n = 8192
	}
	return n
}
