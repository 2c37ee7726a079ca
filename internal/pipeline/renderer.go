package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/psemenov/veracity/internal/model"
)

// Renderer writes batch reports to files and the terminal.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report, audit included, as JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verification Report\n\n")
	fmt.Fprintf(&b, "- Batch: `%s`\n", report.BatchID)
	fmt.Fprintf(&b, "- Generated: %s\n", report.CreatedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- Status: %s\n\n", report.Status)

	s := report.Summary
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Claims | Verified | Partial | Unverified | Avg. score |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %.2f |\n\n",
		s.TotalClaims, s.Verified, s.Partial, s.Unverified, s.AverageScore)

	if len(report.Results) > 0 {
		fmt.Fprintf(&b, "## Claims\n\n")
		for _, res := range report.Results {
			fmt.Fprintf(&b, "### %d. %s\n\n", res.ClaimID, res.Statement)
			fmt.Fprintf(&b, "- Match score: %.2f (confidence %.2f)\n", res.MatchScore, res.Confidence)
			if res.FailedStage != "" {
				fmt.Fprintf(&b, "- Failed stage: %s\n", res.FailedStage)
			}
			if len(res.SourceTiers) > 0 {
				fmt.Fprintf(&b, "- Sources:")
				for _, tier := range []string{"primary", "secondary", "tertiary", "unknown"} {
					if n := res.SourceTiers[tier]; n > 0 {
						fmt.Fprintf(&b, " %d %s", n, tier)
					}
				}
				fmt.Fprintf(&b, "\n")
			}
			fmt.Fprintf(&b, "\n%s\n\n", res.Report)
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by veracity. Scores reflect how well the found sources support each claim, not truth.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a terminal summary block.
func (r *Renderer) RenderSummary(report *model.Report) {
	s := report.Summary
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Batch %s — %s\n", report.BatchID, report.Status)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Claims:      %d\n", s.TotalClaims)
	fmt.Printf("  Verified:    %d\n", s.Verified)
	fmt.Printf("  Partial:     %d\n", s.Partial)
	fmt.Printf("  Unverified:  %d\n", s.Unverified)
	fmt.Printf("  Avg. score:  %.2f\n", s.AverageScore)
	fmt.Println()
}
