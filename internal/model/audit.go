package model

import (
	"sync"
	"time"
)

// AuditEntry records one stage transition for one claim during a batch.
type AuditEntry struct {
	ClaimID int       `json:"claim_id"`
	Stage   string    `json:"stage"`
	Query   string    `json:"query,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// SearchAudit is the append-only diagnostic trail of a batch. Entries
// accumulate in completion order, not claim order; the audit is for
// transparency, not semantics.
type SearchAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// NewSearchAudit creates an empty audit.
func NewSearchAudit() *SearchAudit {
	return &SearchAudit{}
}

// Record appends one entry. Safe for concurrent use.
func (a *SearchAudit) Record(claimID int, stage, query, detail string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, AuditEntry{
		ClaimID: claimID,
		Stage:   stage,
		Query:   query,
		Detail:  detail,
		At:      time.Now().UTC(),
	})
}

// Entries returns a snapshot of the accumulated entries.
func (a *SearchAudit) Entries() []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of recorded entries.
func (a *SearchAudit) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
