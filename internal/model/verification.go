package model

// Excerpt is a claim-relevant passage pulled from one scraped source.
// Excerpts are tied to a (claim, url) pair and never shared across claims.
type Excerpt struct {
	Quote     string  `json:"quote"`
	Relevance float64 `json:"relevance"`
	Context   string  `json:"context,omitempty"` // Surrounding text, if the extractor returned any
}

// VerificationResult is the terminal artifact per claim.
type VerificationResult struct {
	ClaimID    int     `json:"claim_id"`
	Statement  string  `json:"statement"`
	MatchScore float64 `json:"match_score"` // How well sources support the claim (0.0-1.0)
	Confidence float64 `json:"confidence"`  // Verifier confidence in the score (0.0-1.0)
	Report     string  `json:"report"`      // Free-text justification or diagnostic

	// SourceTiers counts the scraped sources that informed this result,
	// keyed by tier name. Empty when verification never reached sources.
	SourceTiers map[string]int `json:"source_tiers,omitempty"`

	// FailedStage names the pipeline stage that failed for this claim,
	// empty for claims that ran to completion.
	FailedStage string `json:"failed_stage,omitempty"`
}
