package excerpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
)

const excerptSystemPrompt = `You are a research assistant. You find the passages in a source document that bear on a specific factual claim, whether they support or contradict it. You only quote text that actually appears in the document.`

// Extractor pulls claim-relevant passages out of scraped source text.
// Excerpts are produced per (claim, url) pair; even when two claims share a
// source, their excerpts are extracted independently.
type Extractor struct {
	provider llm.Provider
	config   model.ExcerptConfig
}

// NewExtractor creates a new excerpt extractor.
func NewExtractor(provider llm.Provider, config model.ExcerptConfig) *Extractor {
	return &Extractor{provider: provider, config: config}
}

type excerptPayload struct {
	Quote     string  `json:"quote"`
	Relevance float64 `json:"relevance"`
	Context   string  `json:"context"`
}

type excerptEnvelope struct {
	Excerpts []excerptPayload `json:"excerpts"`
}

// Extract returns the passages of content relevant to the claim. A source
// with nothing relevant yields an empty slice, not an error.
func (e *Extractor) Extract(ctx context.Context, claim model.Claim, url, content string) ([]model.Excerpt, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return []model.Excerpt{}, nil
	}

	maxChars := e.config.MaxContentChars
	if maxChars > 0 && len(content) > maxChars {
		content = content[:maxChars]
	}

	prompt := fmt.Sprintf(`Claim: %s

Find every passage in the document below that is relevant to verifying this claim.
For each passage:
- quote: the exact passage text (verbatim from the document)
- relevance: 0.0-1.0, how directly it bears on the claim
- context: a sentence of surrounding context, if helpful

Return at most 5 passages. If nothing in the document is relevant, return an empty list.

Respond with JSON: {"excerpts": [{"quote": "...", "relevance": 0.9, "context": "..."}]}

Document (%s):
%s`, claim.Statement, url, content)

	raw, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System:      excerptSystemPrompt,
		Prompt:      prompt,
		Temperature: 0.1,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract excerpts: %w", err)
	}

	var envelope excerptEnvelope
	if err := llm.DecodeJSON(raw, &envelope); err != nil {
		return nil, fmt.Errorf("extract excerpts: %w", err)
	}

	excerpts := make([]model.Excerpt, 0, len(envelope.Excerpts))
	for _, p := range envelope.Excerpts {
		quote := strings.TrimSpace(p.Quote)
		if quote == "" || p.Relevance < e.config.MinRelevance {
			continue
		}
		excerpts = append(excerpts, model.Excerpt{
			Quote:     quote,
			Relevance: p.Relevance,
			Context:   strings.TrimSpace(p.Context),
		})
	}

	return excerpts, nil
}
