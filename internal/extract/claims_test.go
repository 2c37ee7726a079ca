package extract

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

// scriptedProvider returns canned completions in order.
type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return `{"claims": []}`, nil
}

func testExtractConfig() model.ExtractConfig {
	return model.ExtractConfig{
		ChunkChars:    8000,
		ChunkOverlap:  500,
		MinConfidence: 0.3,
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	provider := &scriptedProvider{}
	e := NewClaimExtractor(provider, testExtractConfig(), zap.NewNop())

	claims, err := e.Extract(context.Background(), "   \n ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 0 {
		t.Errorf("expected 0 claims, got %d", len(claims))
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for empty input", provider.calls)
	}
}

func TestExtract_ParsesClaims(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"claims": [
			{"statement": "The Amazon river is 6400 km long.", "original_text": "the Amazon, at 6,400 km,", "confidence": 0.9},
			{"statement": "Brazil hosts most of the Amazon basin.", "original_text": "mostly within Brazil", "confidence": 0.8}
		]}`,
	}}
	e := NewClaimExtractor(provider, testExtractConfig(), zap.NewNop())

	claims, err := e.Extract(context.Background(), "the Amazon, at 6,400 km, flows mostly within Brazil.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(claims))
	}
	if claims[0].ID != 1 || claims[1].ID != 2 {
		t.Errorf("claims not numbered from 1: %d, %d", claims[0].ID, claims[1].ID)
	}
	if claims[0].Statement != "The Amazon river is 6400 km long." {
		t.Errorf("unexpected statement: %q", claims[0].Statement)
	}
}

func TestExtract_FencedResponse(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"```json\n{\"claims\": [{\"statement\": \"X is true.\", \"original_text\": \"x\", \"confidence\": 0.7}]}\n```",
	}}
	e := NewClaimExtractor(provider, testExtractConfig(), zap.NewNop())

	claims, err := e.Extract(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
}

func TestExtract_FiltersLowConfidence(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"claims": [
			{"statement": "Solid claim.", "original_text": "a", "confidence": 0.9},
			{"statement": "Shaky claim.", "original_text": "b", "confidence": 0.1}
		]}`,
	}}
	e := NewClaimExtractor(provider, testExtractConfig(), zap.NewNop())

	claims, err := e.Extract(context.Background(), "a b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(claims) != 1 || claims[0].Statement != "Solid claim." {
		t.Errorf("low-confidence claim not filtered: %+v", claims)
	}
}

func TestExtract_MergesAcrossWindows(t *testing.T) {
	cfg := testExtractConfig()
	cfg.ChunkChars = 120
	cfg.ChunkOverlap = 30

	provider := &scriptedProvider{responses: []string{
		`{"claims": [{"statement": "Fact one holds.", "original_text": "one", "confidence": 0.9}]}`,
		`{"claims": [
			{"statement": "fact one holds", "original_text": "one", "confidence": 0.8},
			{"statement": "Fact two holds.", "original_text": "two", "confidence": 0.9}
		]}`,
		`{"claims": [{"statement": "Fact three holds.", "original_text": "three", "confidence": 0.9}]}`,
	}}
	e := NewClaimExtractor(provider, cfg, zap.NewNop())

	text := "Fact one holds in the first place. Fact two holds in the second place. " +
		"Fact three holds in the third place. Filler sentence to force chunking here. " +
		"Another filler sentence to force more chunking in this text."
	claims, err := e.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls < 2 {
		t.Fatalf("expected multiple windows, provider called %d times", provider.calls)
	}

	// Duplicate from the overlap region collapses to one claim
	seen := make(map[string]int)
	for _, c := range claims {
		seen[NormalizeStatement(c.Statement)]++
	}
	if seen["fact one holds"] != 1 {
		t.Errorf("overlap duplicate not collapsed: %v", seen)
	}
	for i, c := range claims {
		if c.ID != i+1 {
			t.Errorf("merged claims not renumbered: position %d has id %d", i, c.ID)
		}
	}
}

func TestExtract_PartialWindowFailureTolerated(t *testing.T) {
	cfg := testExtractConfig()
	cfg.ChunkChars = 120
	cfg.ChunkOverlap = 30

	provider := &scriptedProvider{
		responses: []string{
			`{"claims": [{"statement": "Surviving claim.", "original_text": "s", "confidence": 0.9}]}`,
		},
		errs: []error{nil, errors.New("rate limited")},
	}
	e := NewClaimExtractor(provider, cfg, zap.NewNop())

	text := "Surviving claim lives in the first window of this text. " +
		"More sentences follow to force a second window. " +
		"And still more text to be sure the split happens."
	claims, err := e.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("one failed window must not be fatal: %v", err)
	}
	if len(claims) != 1 || claims[0].Statement != "Surviving claim." {
		t.Errorf("expected the surviving window's claim, got %+v", claims)
	}
}

func TestExtract_AllWindowsFailedIsFatal(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("provider down")}}
	e := NewClaimExtractor(provider, testExtractConfig(), zap.NewNop())

	if _, err := e.Extract(context.Background(), "some text"); err == nil {
		t.Fatal("expected error when every window fails")
	}
}
