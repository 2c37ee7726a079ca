package score

import (
	"math"

	"github.com/psemenov/veracity/internal/model"
)

// Summarizer buckets verification results into batch-level statistics.
// Bucket thresholds are policy knobs carried in from configuration.
type Summarizer struct {
	verifiedThreshold float64
	partialThreshold  float64
}

// NewSummarizer creates a summarizer with the configured thresholds.
func NewSummarizer(cfg model.PipelineConfig) *Summarizer {
	verified := cfg.VerifiedThreshold
	if verified <= 0 {
		verified = 0.75
	}
	partial := cfg.PartialThreshold
	if partial <= 0 || partial > verified {
		partial = verified / 2
	}

	return &Summarizer{
		verifiedThreshold: verified,
		partialThreshold:  partial,
	}
}

// Summarize computes counts per score bucket and the average match score.
func (s *Summarizer) Summarize(results []model.VerificationResult) model.Summary {
	summary := model.Summary{TotalClaims: len(results)}
	if len(results) == 0 {
		return summary
	}

	var total float64
	for _, r := range results {
		total += r.MatchScore
		switch {
		case r.MatchScore >= s.verifiedThreshold:
			summary.Verified++
		case r.MatchScore >= s.partialThreshold:
			summary.Partial++
		default:
			summary.Unverified++
		}
	}

	// Round to two decimals for stable report output
	summary.AverageScore = math.Round(total/float64(len(results))*100) / 100

	return summary
}
