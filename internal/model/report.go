package model

import "time"

// BatchStatus marks how a batch run ended.
type BatchStatus string

const (
	BatchCompleted BatchStatus = "completed"
	BatchCancelled BatchStatus = "cancelled"
)

// Report is the complete output of one verification batch.
type Report struct {
	BatchID   string      `json:"batch_id"`
	CreatedAt time.Time   `json:"created_at"`
	Status    BatchStatus `json:"status"`

	Claims  []Claim              `json:"claims"`
	Results []VerificationResult `json:"results"` // Same order as Claims
	Summary Summary              `json:"summary"`
	Audit   []AuditEntry         `json:"audit,omitempty"`
}

// Summary holds batch-level statistics over the verification results.
type Summary struct {
	TotalClaims  int     `json:"total_claims"`
	Verified     int     `json:"verified_count"`
	Partial      int     `json:"partial_count"`
	Unverified   int     `json:"unverified_count"`
	AverageScore float64 `json:"average_score"`
}
