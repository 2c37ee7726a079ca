package credibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

const classifySystemPrompt = `You are a source credibility analyst. You judge how authoritative web sources are for verifying a specific factual claim. You judge the source, not the claim.`

// Classifier assigns credibility tiers to a claim's search results. All of
// one claim's results go into a single classification call to keep LLM
// round-trips down.
type Classifier struct {
	provider llm.Provider
}

// NewClassifier creates a new credibility classifier.
func NewClassifier(provider llm.Provider) *Classifier {
	return &Classifier{provider: provider}
}

type verdictPayload struct {
	URL         string  `json:"url"`
	Tier        int     `json:"tier"`
	Score       float64 `json:"score"`
	Recommended bool    `json:"recommended"`
	Reasoning   string  `json:"reasoning"`
}

type verdictEnvelope struct {
	Verdicts []verdictPayload `json:"verdicts"`
}

// Classify evaluates every result in one call and returns per-source
// verdicts plus tier counts. An empty result list short-circuits without
// calling the backend. Every input URL gets exactly one verdict; URLs the
// model skips come back unclassified and not recommended.
func (c *Classifier) Classify(ctx context.Context, claim model.Claim, results []model.SearchResult) (model.CredibilityAssessment, error) {
	if len(results) == 0 {
		return model.CredibilityAssessment{
			Verdicts:   []model.CredibilityVerdict{},
			TierCounts: map[model.CredibilityTier]int{},
		}, nil
	}

	var sources strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sources, "%d. %s\n   Title: %s\n", i+1, r.URL, r.Title)
		if r.Preview != "" {
			fmt.Fprintf(&sources, "   Preview: %s\n", truncate(r.Preview, 300))
		}
	}

	prompt := fmt.Sprintf(`Claim being verified: %s

Evaluate the credibility of each source below for verifying this claim.

Tiers (lower = more authoritative):
1 = primary (official documents, academic papers, primary data)
2 = secondary (encyclopedias, major publishers, reputable media)
3 = tertiary (blogs, forums, promotional sites)

For each source give a score from 0.0 (useless) to 1.0 (highly credible)
and whether you recommend scraping it for this claim.

Sources:
%s
Respond with JSON: {"verdicts": [{"url": "...", "tier": 2, "score": 0.8, "recommended": true, "reasoning": "..."}]}`,
		claim.Statement, sources.String())

	raw, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:      classifySystemPrompt,
		Prompt:      prompt,
		Temperature: 0.1,
		ForceJSON:   true,
	})
	if err != nil {
		return model.CredibilityAssessment{}, fmt.Errorf("classify credibility: %w", err)
	}

	var envelope verdictEnvelope
	if err := llm.DecodeJSON(raw, &envelope); err != nil {
		return model.CredibilityAssessment{}, fmt.Errorf("classify credibility: %w", err)
	}

	return buildAssessment(results, envelope.Verdicts), nil
}

// buildAssessment aligns model output with the input result set: one verdict
// per input URL, verdicts for unknown URLs dropped, duplicates collapsed to
// the first occurrence.
func buildAssessment(results []model.SearchResult, payloads []verdictPayload) model.CredibilityAssessment {
	byURL := make(map[string]verdictPayload, len(payloads))
	for _, p := range payloads {
		if _, seen := byURL[p.URL]; !seen {
			byURL[p.URL] = p
		}
	}

	assessment := model.CredibilityAssessment{
		Verdicts:   make([]model.CredibilityVerdict, 0, len(results)),
		TierCounts: make(map[model.CredibilityTier]int),
	}

	for _, r := range results {
		verdict := model.CredibilityVerdict{URL: r.URL, Tier: model.TierUnknown}
		if p, ok := byURL[r.URL]; ok {
			verdict.Tier = parseTier(p.Tier)
			verdict.Score = clamp01(p.Score)
			verdict.Recommended = p.Recommended
			verdict.Reasoning = strings.TrimSpace(p.Reasoning)
		}
		assessment.Verdicts = append(assessment.Verdicts, verdict)
		assessment.TierCounts[verdict.Tier]++
	}

	return assessment
}

func parseTier(t int) model.CredibilityTier {
	switch t {
	case 1:
		return model.TierPrimary
	case 2:
		return model.TierSecondary
	case 3:
		return model.TierTertiary
	default:
		return model.TierUnknown
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
