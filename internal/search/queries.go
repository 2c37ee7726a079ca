package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

const queryGenSystemPrompt = `You are a research assistant. You design web search queries that find authoritative sources for verifying factual claims.`

// QueryGenerator produces the search query set for one claim.
type QueryGenerator struct {
	provider llm.Provider
}

// NewQueryGenerator creates a new query generator.
func NewQueryGenerator(provider llm.Provider) *QueryGenerator {
	return &QueryGenerator{provider: provider}
}

type querySetPayload struct {
	PrimaryQuery         string   `json:"primary_query"`
	AlternativeQueries   []string `json:"alternative_queries"`
	RecommendedFreshness string   `json:"recommended_freshness"`
}

// Generate produces the query set for a claim. The claim's original context
// is included so queries can disambiguate entities.
func (g *QueryGenerator) Generate(ctx context.Context, claim model.Claim) (model.SearchQuerySet, error) {
	prompt := fmt.Sprintf(`Design web search queries to verify this claim:

Claim: %s
Source context: %s

Rules:
- primary_query: the single best query to find authoritative coverage.
- alternative_queries: up to 3 rephrasings or narrower angles.
- recommended_freshness: "day", "week", "month", "year", or "" if the claim is not time-sensitive.

Respond with JSON: {"primary_query": "...", "alternative_queries": ["..."], "recommended_freshness": ""}`,
		claim.Statement, claim.OriginalText)

	raw, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:      queryGenSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.2,
		ForceJSON:   true,
	})
	if err != nil {
		return model.SearchQuerySet{}, fmt.Errorf("generate queries: %w", err)
	}

	var payload querySetPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		return model.SearchQuerySet{}, fmt.Errorf("generate queries: %w", err)
	}

	primary := strings.TrimSpace(payload.PrimaryQuery)
	if primary == "" {
		// Fall back to the claim text itself rather than searching nothing
		primary = claim.Statement
	}

	var alternatives []string
	for _, q := range payload.AlternativeQueries {
		q = strings.TrimSpace(q)
		if q != "" && q != primary {
			alternatives = append(alternatives, q)
		}
	}

	return model.SearchQuerySet{
		ClaimID:              claim.ID,
		Primary:              primary,
		Alternatives:         alternatives,
		RecommendedFreshness: parseFreshness(payload.RecommendedFreshness),
	}, nil
}

func parseFreshness(s string) model.Freshness {
	switch model.Freshness(strings.ToLower(strings.TrimSpace(s))) {
	case model.FreshnessDay:
		return model.FreshnessDay
	case model.FreshnessWeek:
		return model.FreshnessWeek
	case model.FreshnessMonth:
		return model.FreshnessMonth
	case model.FreshnessYear:
		return model.FreshnessYear
	default:
		return model.FreshnessNone
	}
}
