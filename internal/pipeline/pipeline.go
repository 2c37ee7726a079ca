package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/psemenov/veracity/internal/credibility"
	"github.com/psemenov/veracity/internal/excerpt"
	"github.com/psemenov/veracity/internal/extract"
	"github.com/psemenov/veracity/internal/llm"
	"github.com/psemenov/veracity/internal/model"
	"github.com/psemenov/veracity/internal/scrape"
	"github.com/psemenov/veracity/internal/search"
	"github.com/psemenov/veracity/internal/verify"
)

// New builds a fully wired orchestrator from configuration. The fetcher and
// search client are shared across batches; the scrape cache is not — every
// Run gets a fresh one through the page source factory.
func New(cfg *model.Config, progress ProgressSink, logger *zap.Logger) (*Orchestrator, error) {
	if cfg.Search.BaseURL == "" {
		return nil, fmt.Errorf("search.base_url is required")
	}
	if cfg.Search.APIKey == "" {
		return nil, fmt.Errorf("search.api_key is required")
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider: %w", err)
	}

	fetcher := scrape.NewFetcher(cfg.Scrape, cfg.Proxy, logger)
	newPages := func() PageSource {
		return scrape.NewCache(fetcher, logger)
	}

	return NewOrchestrator(
		extract.NewClaimExtractor(provider, cfg.Extract, logger),
		search.NewQueryGenerator(provider),
		search.NewClient(cfg.Search, cfg.Proxy, logger),
		credibility.NewClassifier(provider),
		newPages,
		excerpt.NewExtractor(provider, cfg.Excerpt),
		verify.NewVerifier(provider),
		progress,
		cfg,
		logger,
	), nil
}
