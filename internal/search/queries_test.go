package search

import (
	"context"
	"errors"
	"testing"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

type cannedProvider struct {
	response string
	err      error
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *cannedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return p.response, p.err
}

func TestGenerate(t *testing.T) {
	g := NewQueryGenerator(&cannedProvider{response: `{
		"primary_query": "eiffel tower height meters",
		"alternative_queries": ["how tall is the eiffel tower", "eiffel tower height meters", ""],
		"recommended_freshness": "year"
	}`})

	claim := model.Claim{ID: 3, Statement: "The Eiffel Tower is 330 meters tall."}
	qs, err := g.Generate(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if qs.ClaimID != 3 {
		t.Errorf("claim id = %d", qs.ClaimID)
	}
	if qs.Primary != "eiffel tower height meters" {
		t.Errorf("primary = %q", qs.Primary)
	}
	// Blank entries and duplicates of the primary are dropped
	if len(qs.Alternatives) != 1 || qs.Alternatives[0] != "how tall is the eiffel tower" {
		t.Errorf("alternatives = %v", qs.Alternatives)
	}
	if qs.RecommendedFreshness != model.FreshnessYear {
		t.Errorf("freshness = %q", qs.RecommendedFreshness)
	}
}

func TestGenerate_EmptyPrimaryFallsBackToStatement(t *testing.T) {
	g := NewQueryGenerator(&cannedProvider{response: `{"primary_query": "", "alternative_queries": []}`})

	claim := model.Claim{ID: 1, Statement: "Water boils at 100C at sea level."}
	qs, err := g.Generate(context.Background(), claim)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs.Primary != claim.Statement {
		t.Errorf("expected fallback to statement, got %q", qs.Primary)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	g := NewQueryGenerator(&cannedProvider{err: errors.New("timeout")})
	if _, err := g.Generate(context.Background(), model.Claim{ID: 1, Statement: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGenerate_UnknownFreshnessIgnored(t *testing.T) {
	g := NewQueryGenerator(&cannedProvider{response: `{"primary_query": "q", "recommended_freshness": "decade"}`})
	qs, err := g.Generate(context.Background(), model.Claim{ID: 1, Statement: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs.RecommendedFreshness != model.FreshnessNone {
		t.Errorf("freshness = %q, want none", qs.RecommendedFreshness)
	}
}

func TestParseFreshness(t *testing.T) {
	tests := []struct {
		in   string
		want model.Freshness
	}{
		{"day", model.FreshnessDay},
		{" Week ", model.FreshnessWeek},
		{"MONTH", model.FreshnessMonth},
		{"year", model.FreshnessYear},
		{"", model.FreshnessNone},
		{"fortnight", model.FreshnessNone},
	}
	for _, tt := range tests {
		if got := parseFreshness(tt.in); got != tt.want {
			t.Errorf("parseFreshness(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
