package pipeline

import (
	"context"

	"github.com/psemenov/veracity/internal/model"
	"github.com/psemenov/veracity/internal/search"
)

// Stage names, used in audit entries and failure diagnostics.
const (
	StageExtract     = "extract"
	StageQueries     = "query_generation"
	StageSearch      = "search"
	StageCredibility = "credibility"
	StageScrape      = "scrape"
	StageExcerpts    = "excerpts"
	StageVerify      = "verify"
)

// ClaimExtractor extracts claims from raw input text.
type ClaimExtractor interface {
	Extract(ctx context.Context, text string) ([]model.Claim, error)
}

// QueryGenerator produces the search query set for one claim.
type QueryGenerator interface {
	Generate(ctx context.Context, claim model.Claim) (model.SearchQuerySet, error)
}

// Searcher executes a batch of queries with bounded concurrency.
type Searcher interface {
	SearchBatch(ctx context.Context, queries []string, opts search.Options) (map[string][]model.SearchResult, error)
}

// CredibilityClassifier evaluates a claim's whole result set in one call.
type CredibilityClassifier interface {
	Classify(ctx context.Context, claim model.Claim, results []model.SearchResult) (model.CredibilityAssessment, error)
}

// PageSource resolves URLs to extracted text, deduplicating fetches within
// the batch. Empty string values mark failed or insufficient extraction.
type PageSource interface {
	Get(ctx context.Context, urls []string) map[string]string
}

// PageSourceFactory builds a fresh PageSource for each batch; scraped
// content is never carried across batches.
type PageSourceFactory func() PageSource

// ExcerptExtractor pulls claim-relevant passages from one scraped source.
type ExcerptExtractor interface {
	Extract(ctx context.Context, claim model.Claim, url, content string) ([]model.Excerpt, error)
}

// ClaimVerifier scores one claim against all of its excerpts.
type ClaimVerifier interface {
	Verify(ctx context.Context, claim model.Claim, excerpts map[string][]model.Excerpt, verdicts []model.CredibilityVerdict) (model.VerificationResult, error)
}
