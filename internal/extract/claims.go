package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

const extractSystemPrompt = `You are a fact-checking assistant. You identify atomic, independently verifiable factual claims in text. You never invent claims that are not present in the text.`

// ClaimExtractor extracts verifiable claims from raw input text. Oversized
// input is chunked into overlapping windows, each window extracted
// separately, and the merged claim list deduplicated and renumbered.
type ClaimExtractor struct {
	provider llm.Provider
	config   model.ExtractConfig
	logger   *zap.Logger
}

// NewClaimExtractor creates a new claim extractor.
func NewClaimExtractor(provider llm.Provider, config model.ExtractConfig, logger *zap.Logger) *ClaimExtractor {
	return &ClaimExtractor{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

type claimPayload struct {
	Statement    string  `json:"statement"`
	OriginalText string  `json:"original_text"`
	Confidence   float64 `json:"confidence"`
}

type claimsEnvelope struct {
	Claims []claimPayload `json:"claims"`
}

// Extract extracts claims from text. Identical input yields the same claim
// set modulo ids. The returned error is reserved for total extraction
// failure; a text with nothing checkable yields an empty slice.
func (e *ClaimExtractor) Extract(ctx context.Context, text string) ([]model.Claim, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []model.Claim{}, nil
	}

	windows := SplitWindows(text, e.config.ChunkChars, e.config.ChunkOverlap)

	var merged []model.Claim
	failed := 0
	var lastErr error

	for i, window := range windows {
		claims, err := e.extractWindow(ctx, window)
		if err != nil {
			failed++
			lastErr = err
			e.logger.Warn("claim extraction failed for window",
				zap.Int("window", i),
				zap.Int("windows", len(windows)),
				zap.Error(err))
			continue
		}
		merged = append(merged, claims...)
	}

	// Fatal only when no window produced anything
	if failed == len(windows) {
		return nil, fmt.Errorf("extract claims: %w", lastErr)
	}

	filtered := merged[:0]
	for _, c := range merged {
		if c.Confidence >= e.config.MinConfidence {
			filtered = append(filtered, c)
		}
	}

	return DedupeClaims(filtered), nil
}

// extractWindow runs one LLM extraction call over a single window.
func (e *ClaimExtractor) extractWindow(ctx context.Context, window string) ([]model.Claim, error) {
	prompt := fmt.Sprintf(`Extract every atomic factual claim from the text below.

Rules:
- Each claim must be a single, independently checkable assertion.
- Rewrite each claim as a self-contained statement (resolve pronouns and references).
- Quote the exact source text the claim came from in original_text.
- Rate your confidence (0.0-1.0) that the claim is a genuine, checkable factual claim.
- Skip opinions, predictions, and rhetorical statements.

Respond with JSON: {"claims": [{"statement": "...", "original_text": "...", "confidence": 0.9}]}

Text:
%s`, window)

	raw, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      extractSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.1,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var envelope claimsEnvelope
	if err := llm.DecodeJSON(raw, &envelope); err != nil {
		return nil, err
	}

	claims := make([]model.Claim, 0, len(envelope.Claims))
	for _, p := range envelope.Claims {
		statement := strings.TrimSpace(p.Statement)
		if statement == "" {
			continue
		}
		claims = append(claims, model.Claim{
			Statement:    statement,
			OriginalText: strings.TrimSpace(p.OriginalText),
			Confidence:   clamp01(p.Confidence),
		})
	}

	return claims, nil
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
