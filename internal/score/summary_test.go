package score

import (
	"testing"

	"github.com/psemenov/veracity/internal/model"
)

func results(scores ...float64) []model.VerificationResult {
	out := make([]model.VerificationResult, len(scores))
	for i, s := range scores {
		out[i] = model.VerificationResult{ClaimID: i + 1, MatchScore: s}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := NewSummarizer(model.PipelineConfig{VerifiedThreshold: 0.75, PartialThreshold: 0.4})

	summary := s.Summarize(results(0.9, 0.75, 0.5, 0.4, 0.39, 0.0))

	if summary.TotalClaims != 6 {
		t.Errorf("total = %d", summary.TotalClaims)
	}
	if summary.Verified != 2 {
		t.Errorf("verified = %d, want 2", summary.Verified)
	}
	if summary.Partial != 2 {
		t.Errorf("partial = %d, want 2", summary.Partial)
	}
	if summary.Unverified != 2 {
		t.Errorf("unverified = %d, want 2", summary.Unverified)
	}

	// (0.9+0.75+0.5+0.4+0.39+0.0)/6 = 0.49
	if summary.AverageScore != 0.49 {
		t.Errorf("average = %v, want 0.49", summary.AverageScore)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := NewSummarizer(model.PipelineConfig{})
	summary := s.Summarize(nil)
	if summary.TotalClaims != 0 || summary.AverageScore != 0 {
		t.Errorf("unexpected summary for empty input: %+v", summary)
	}
}

func TestSummarize_ThresholdFallbacks(t *testing.T) {
	// Zero thresholds fall back to 0.75 / 0.375
	s := NewSummarizer(model.PipelineConfig{})
	summary := s.Summarize(results(0.8, 0.5, 0.2))
	if summary.Verified != 1 || summary.Partial != 1 || summary.Unverified != 1 {
		t.Errorf("fallback thresholds misapplied: %+v", summary)
	}

	// Partial above verified is nonsense; falls back to verified/2
	s = NewSummarizer(model.PipelineConfig{VerifiedThreshold: 0.6, PartialThreshold: 0.9})
	summary = s.Summarize(results(0.5))
	if summary.Partial != 1 {
		t.Errorf("expected 0.5 to bucket as partial with fallback threshold: %+v", summary)
	}
}

func TestSummarize_AverageRounding(t *testing.T) {
	s := NewSummarizer(model.PipelineConfig{})
	summary := s.Summarize(results(1.0, 0.0, 0.0))
	// 1/3 rounds to 0.33
	if summary.AverageScore != 0.33 {
		t.Errorf("average = %v, want 0.33", summary.AverageScore)
	}
}
