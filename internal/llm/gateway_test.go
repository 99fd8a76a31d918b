package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type scriptedProvider struct {
	name      string
	errs      []error // error per call; nil means success
	calls     int
	lastModel string
}

func (p *scriptedProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	var err error
	if p.calls < len(p.errs) {
		err = p.errs[p.calls]
	}
	p.calls++
	p.lastModel = req.Model
	if err != nil {
		return nil, err
	}
	return &Completion{Provider: p.name, Content: "ok"}, nil
}

func (p *scriptedProvider) Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	return &EmbeddingResponse{}, nil
}

func (p *scriptedProvider) Name() string { return p.name }

func transientErr() error {
	return &openai.APIError{HTTPStatusCode: 503}
}

func permanentErr() error {
	return &openai.APIError{HTTPStatusCode: 400}
}

func TestCompleteRetriesTransientErrors(t *testing.T) {
	p := &scriptedProvider{name: "openai", errs: []error{transientErr(), nil}}
	g := &gateway{
		providers:       map[string]Provider{"openai": p},
		defaultProvider: "openai",
		maxRetries:      2,
	}

	resp, err := g.Complete(context.Background(), CompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("content = %q", resp.Content)
	}
	if p.calls != 2 {
		t.Errorf("calls = %d, want 2", p.calls)
	}
}

func TestCompleteStopsOnPermanentError(t *testing.T) {
	p := &scriptedProvider{name: "openai", errs: []error{permanentErr(), nil}}
	g := &gateway{
		providers:       map[string]Provider{"openai": p},
		defaultProvider: "openai",
		maxRetries:      3,
	}

	if _, err := g.Complete(context.Background(), CompletionRequest{Model: "m"}); err == nil {
		t.Fatal("expected error")
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent error)", p.calls)
	}
}

func TestCompleteExhaustsRetries(t *testing.T) {
	p := &scriptedProvider{name: "openai", errs: []error{transientErr(), transientErr(), transientErr()}}
	g := &gateway{
		providers:       map[string]Provider{"openai": p},
		defaultProvider: "openai",
		maxRetries:      2,
	}

	if _, err := g.Complete(context.Background(), CompletionRequest{Model: "m"}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", p.calls)
	}
}

func TestCompleteFallsBackToSecondProvider(t *testing.T) {
	primary := &scriptedProvider{name: "openai", errs: []error{permanentErr()}}
	fallback := &scriptedProvider{name: "anthropic"}
	g := &gateway{
		providers:        map[string]Provider{"openai": primary, "anthropic": fallback},
		defaultProvider:  "openai",
		fallbackProvider: "anthropic",
		fallbackModel:    "claude-3-haiku-20240307",
	}

	resp, err := g.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", resp.Provider)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback calls = %d, want 1", fallback.calls)
	}
	if primary.lastModel != "gpt-4o" {
		t.Errorf("primary model = %q, want gpt-4o", primary.lastModel)
	}
	if fallback.lastModel != "claude-3-haiku-20240307" {
		t.Errorf("fallback model = %q, want claude-3-haiku-20240307", fallback.lastModel)
	}
}

func TestCompleteFallbackWithoutModelKeepsRequest(t *testing.T) {
	primary := &scriptedProvider{name: "openai", errs: []error{permanentErr()}}
	fallback := &scriptedProvider{name: "anthropic"}
	g := &gateway{
		providers:        map[string]Provider{"openai": primary, "anthropic": fallback},
		defaultProvider:  "openai",
		fallbackProvider: "anthropic",
	}

	if _, err := g.Complete(context.Background(), CompletionRequest{Model: "m"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if fallback.lastModel != "m" {
		t.Errorf("fallback model = %q, want m", fallback.lastModel)
	}
}

func TestCompleteUnknownProvider(t *testing.T) {
	g := &gateway{providers: map[string]Provider{}, defaultProvider: "openai"}
	if _, err := g.Complete(context.Background(), CompletionRequest{Model: "m"}); err == nil {
		t.Fatal("expected error for missing provider")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"api 500", &openai.APIError{HTTPStatusCode: 500}, true},
		{"api 429", &openai.APIError{HTTPStatusCode: 429}, true},
		{"api 401", &openai.APIError{HTTPStatusCode: 401}, false},
		{"request 502", &openai.RequestError{HTTPStatusCode: 502}, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
