package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/psemenov/veracity/internal/model"
	"github.com/psemenov/veracity/internal/score"
	"github.com/psemenov/veracity/internal/search"
)

// Orchestrator drives one batch of claims from raw input text to a complete
// verification report. Per-claim pipelines run concurrently; a failure in
// any one claim's pipeline never aborts its siblings.
type Orchestrator struct {
	extractor  ClaimExtractor
	queries    QueryGenerator
	searcher   Searcher
	classifier CredibilityClassifier
	newPages   PageSourceFactory
	excerpts   ExcerptExtractor
	verifier   ClaimVerifier
	progress   ProgressSink
	summarizer *score.Summarizer
	config     *model.Config
	logger     *zap.Logger
}

// NewOrchestrator wires an orchestrator from its stage collaborators.
func NewOrchestrator(
	extractor ClaimExtractor,
	queries QueryGenerator,
	searcher Searcher,
	classifier CredibilityClassifier,
	newPages PageSourceFactory,
	excerpts ExcerptExtractor,
	verifier ClaimVerifier,
	progress ProgressSink,
	config *model.Config,
	logger *zap.Logger,
) *Orchestrator {
	if progress == nil {
		progress = NopSink{}
	}
	return &Orchestrator{
		extractor:  extractor,
		queries:    queries,
		searcher:   searcher,
		classifier: classifier,
		newPages:   newPages,
		excerpts:   excerpts,
		verifier:   verifier,
		progress:   progress,
		summarizer: score.NewSummarizer(config.Pipeline),
		config:     config,
		logger:     logger,
	}
}

// Run verifies every claim in text and returns the batch report. The error
// return is reserved for fatal pre-work failures (claim extraction or
// configuration); everything past extraction degrades per claim. A
// cancelled context yields the partial results produced so far with the
// report marked cancelled.
func (o *Orchestrator) Run(ctx context.Context, text string) (*model.Report, error) {
	report := &model.Report{
		BatchID:   uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Status:    model.BatchCompleted,
	}

	// 1. Extract claims (the only stage whose failure fails the batch)
	claims, err := o.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	report.Claims = claims

	o.progress.Notify("claims extracted", map[string]any{
		"batch_id": report.BatchID,
		"claims":   len(claims),
	})

	// 2. Nothing to verify is a successful, empty batch
	if len(claims) == 0 {
		report.Results = []model.VerificationResult{}
		report.Summary = o.summarizer.Summarize(nil)
		return report, nil
	}

	audit := model.NewSearchAudit()
	pages := o.newPages()

	// 3. Fan out one sub-pipeline per claim
	results := make([]model.VerificationResult, len(claims))
	completed := make([]bool, len(claims))

	g := &errgroup.Group{}
	g.SetLimit(o.config.Pipeline.ClaimConcurrency)

	for i, claim := range claims {
		g.Go(func() error {
			result, ok := o.runClaim(ctx, claim, pages, audit)
			if ok {
				results[i] = result
				completed[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	// 4. Fan in, preserving claim order
	if ctx.Err() != nil {
		report.Status = model.BatchCancelled
		report.Results = make([]model.VerificationResult, 0, len(claims))
		for i := range claims {
			if completed[i] {
				report.Results = append(report.Results, results[i])
			}
		}
	} else {
		report.Results = results
	}

	report.Summary = o.summarizer.Summarize(report.Results)
	if o.config.Output.IncludeAudit {
		report.Audit = audit.Entries()
	}

	o.progress.Notify("batch finished", map[string]any{
		"batch_id": report.BatchID,
		"status":   string(report.Status),
		"results":  len(report.Results),
	})

	return report, nil
}

// VerifyDocument implements worker.DocumentVerifier.
func (o *Orchestrator) VerifyDocument(ctx context.Context, text string) (*model.Report, error) {
	return o.Run(ctx, text)
}

// runClaim drives one claim through query generation, search, credibility
// filtering, scraping, excerpt extraction, and verification. It returns
// ok=false only when cancellation stopped the pipeline before it produced a
// terminal result; every other outcome, including stage failure, yields a
// result. Cancellation is checked between stages, never mid-stage.
func (o *Orchestrator) runClaim(ctx context.Context, claim model.Claim, pages PageSource, audit *model.SearchAudit) (model.VerificationResult, bool) {
	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	// Query generation
	querySet, err := o.queries.Generate(ctx, claim)
	if err != nil {
		return o.failClaim(claim, StageQueries, err, audit), ctx.Err() == nil
	}
	queries := querySet.All()
	audit.Record(claim.ID, StageQueries, querySet.Primary, fmt.Sprintf("%d queries generated", len(queries)))

	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	// Search
	opts := search.Options{
		MaxResults:     o.config.Search.MaxResults,
		IncludeDomains: o.config.Search.IncludeDomains,
		ExcludeDomains: o.config.Search.ExcludeDomains,
		Freshness:      querySet.RecommendedFreshness,
	}
	byQuery, err := o.searcher.SearchBatch(ctx, queries, opts)
	if err != nil {
		if ctx.Err() != nil {
			return model.VerificationResult{}, false
		}
		return o.failClaim(claim, StageSearch, err, audit), true
	}

	var flat []model.SearchResult
	for _, q := range queries {
		hits := byQuery[q]
		audit.Record(claim.ID, StageSearch, q, fmt.Sprintf("%d results", len(hits)))
		flat = append(flat, hits...)
	}
	candidates := model.DedupeResults(flat)
	if len(candidates) == 0 {
		return o.cannotVerify(claim, "no search results found for any query", audit), true
	}

	o.progress.Notify("search completed", map[string]any{
		"claim_id": claim.ID,
		"sources":  len(candidates),
	})

	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	// Credibility filtering
	assessment, err := o.classifier.Classify(ctx, claim, candidates)
	if err != nil {
		return o.failClaim(claim, StageCredibility, err, audit), ctx.Err() == nil
	}
	admitted := assessment.Recommended(o.config.Credibility.MinScore, o.config.Credibility.MaxSources)
	audit.Record(claim.ID, StageCredibility, "",
		fmt.Sprintf("%d of %d sources admitted", len(admitted), len(assessment.Verdicts)))
	if len(admitted) == 0 {
		return o.cannotVerify(claim, "no credible sources found among search results", audit), true
	}

	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	// Scraping, deduplicated across all claims through the shared cache
	urls := make([]string, 0, len(admitted))
	for _, v := range admitted {
		urls = append(urls, v.URL)
	}
	scraped := pages.Get(ctx, urls)
	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	contentByURL := make(map[string]string, len(scraped))
	for url, content := range scraped {
		if content != "" {
			contentByURL[url] = content
		}
	}
	audit.Record(claim.ID, StageScrape, "",
		fmt.Sprintf("%d of %d sources scraped", len(contentByURL), len(urls)))
	if len(contentByURL) == 0 {
		return o.cannotVerify(claim, "no credible source could be scraped", audit), true
	}

	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	// Excerpt extraction, one call per scraped source
	excerptsByURL := make(map[string][]model.Excerpt)
	for url, content := range contentByURL {
		found, err := o.excerpts.Extract(ctx, claim, url, content)
		if err != nil {
			// One bad source does not sink the claim
			o.logger.Warn("excerpt extraction failed",
				zap.Int("claim_id", claim.ID),
				zap.String("url", url),
				zap.Error(err))
			audit.Record(claim.ID, StageExcerpts, "", fmt.Sprintf("source %s failed: %v", url, err))
			continue
		}
		if len(found) > 0 {
			excerptsByURL[url] = found
		}
	}
	audit.Record(claim.ID, StageExcerpts, "",
		fmt.Sprintf("excerpts from %d of %d sources", len(excerptsByURL), len(contentByURL)))
	if len(excerptsByURL) == 0 {
		if ctx.Err() != nil {
			return model.VerificationResult{}, false
		}
		return o.cannotVerify(claim, "no relevant excerpts found in scraped sources", audit), true
	}

	if ctx.Err() != nil {
		return model.VerificationResult{}, false
	}

	// Verification
	result, err := o.verifier.Verify(ctx, claim, excerptsByURL, assessment.Verdicts)
	if err != nil {
		return o.failClaim(claim, StageVerify, err, audit), ctx.Err() == nil
	}
	audit.Record(claim.ID, StageVerify, "", fmt.Sprintf("match score %.2f", result.MatchScore))

	o.progress.Notify("claim verified", map[string]any{
		"claim_id": claim.ID,
		"score":    result.MatchScore,
	})

	return result, true
}

// failClaim converts a stage failure into the claim's terminal result.
func (o *Orchestrator) failClaim(claim model.Claim, stage string, err error, audit *model.SearchAudit) model.VerificationResult {
	o.logger.Error("claim pipeline stage failed",
		zap.Int("claim_id", claim.ID),
		zap.String("stage", stage),
		zap.Error(err))
	audit.Record(claim.ID, stage, "", fmt.Sprintf("failed: %v", err))

	return model.VerificationResult{
		ClaimID:     claim.ID,
		Statement:   claim.Statement,
		MatchScore:  0.0,
		Confidence:  0.0,
		Report:      fmt.Sprintf("verification failed at the %s stage: %v", stage, err),
		FailedStage: stage,
	}
}

// cannotVerify is the terminal result for a claim whose pipeline ran but
// legitimately produced nothing usable.
func (o *Orchestrator) cannotVerify(claim model.Claim, reason string, audit *model.SearchAudit) model.VerificationResult {
	audit.Record(claim.ID, StageVerify, "", "cannot verify: "+reason)

	return model.VerificationResult{
		ClaimID:    claim.ID,
		Statement:  claim.Statement,
		MatchScore: 0.0,
		Confidence: 0.0,
		Report:     "cannot verify: " + reason,
	}
}
