package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

const verifySystemPrompt = `You are a fact-checking analyst. You judge how well a set of source excerpts supports a factual claim. You evaluate support, not truth: your score reflects what the provided excerpts show, nothing else.`

// Verifier scores how well the gathered excerpts support one claim, in a
// single LLM call combining all of the claim's excerpts.
type Verifier struct {
	provider llm.Provider
}

// NewVerifier creates a new claim verifier.
func NewVerifier(provider llm.Provider) *Verifier {
	return &Verifier{provider: provider}
}

type verdictPayload struct {
	MatchScore float64 `json:"match_score"`
	Confidence float64 `json:"confidence"`
	Report     string  `json:"report"`
}

// Verify scores the claim against its excerpts. Verdicts supply the tier
// breakdown of the sources that contributed excerpts. Callers must not pass
// an empty excerpt map; that case is a "cannot verify" result decided
// upstream, not a verification call.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim, excerpts map[string][]model.Excerpt, verdicts []model.CredibilityVerdict) (model.VerificationResult, error) {
	tierByURL := make(map[string]model.CredibilityTier, len(verdicts))
	for _, verdict := range verdicts {
		tierByURL[verdict.URL] = verdict.Tier
	}

	// Stable source ordering keeps the call reproducible
	urls := make([]string, 0, len(excerpts))
	for url := range excerpts {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	var sources strings.Builder
	for _, url := range urls {
		fmt.Fprintf(&sources, "Source: %s (tier: %s)\n", url, tierByURL[url])
		for _, ex := range excerpts[url] {
			fmt.Fprintf(&sources, "  - %q (relevance %.2f)\n", ex.Quote, ex.Relevance)
		}
	}

	prompt := fmt.Sprintf(`Claim: %s

Excerpts gathered from credibility-screened sources:
%s
Score how well these excerpts support the claim:
- match_score: 0.0 (contradicted or unsupported) to 1.0 (fully supported)
- confidence: 0.0-1.0, your confidence in the score given the evidence quality
- report: 2-4 sentences explaining the score, citing which sources support or undercut the claim

Respond with JSON: {"match_score": 0.8, "confidence": 0.7, "report": "..."}`,
		claim.Statement, sources.String())

	raw, err := v.provider.Complete(ctx, llm.CompletionRequest{
		System:      verifySystemPrompt,
		Prompt:      prompt,
		Temperature: 0.1,
		ForceJSON:   true,
	})
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("verify claim: %w", err)
	}

	var payload verdictPayload
	if err := llm.DecodeJSON(raw, &payload); err != nil {
		return model.VerificationResult{}, fmt.Errorf("verify claim: %w", err)
	}

	tiers := make(map[string]int)
	for _, url := range urls {
		tiers[tierByURL[url].String()]++
	}

	return model.VerificationResult{
		ClaimID:     claim.ID,
		Statement:   claim.Statement,
		MatchScore:  clamp01(payload.MatchScore),
		Confidence:  clamp01(payload.Confidence),
		Report:      strings.TrimSpace(payload.Report),
		SourceTiers: tiers,
	}, nil
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
