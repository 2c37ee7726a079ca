package model

// Claim represents one atomic, independently verifiable assertion extracted
// from the input text. Claims are immutable once extraction assigns their ids.
type Claim struct {
	ID           int     `json:"id"`            // Stable within a batch, reassigned after dedup
	Statement    string  `json:"statement"`     // Normalized claim text (the unit verified)
	OriginalText string  `json:"original_text"` // Verbatim source excerpt the claim came from
	Confidence   float64 `json:"confidence"`    // Extractor confidence this is a checkable claim (0.0-1.0)
}

// Freshness hints how time-sensitive a claim's queries are.
type Freshness string

const (
	FreshnessNone  Freshness = ""
	FreshnessDay   Freshness = "day"
	FreshnessWeek  Freshness = "week"
	FreshnessMonth Freshness = "month"
	FreshnessYear  Freshness = "year"
)

// SearchQuerySet holds the queries generated to verify one claim.
// The primary query is conceptually tried first but all queries are executed.
type SearchQuerySet struct {
	ClaimID              int       `json:"claim_id"`
	Primary              string    `json:"primary_query"`
	Alternatives         []string  `json:"alternative_queries,omitempty"`
	RecommendedFreshness Freshness `json:"recommended_freshness,omitempty"`
}

// All returns every query in execution order, primary first.
func (s SearchQuerySet) All() []string {
	queries := make([]string, 0, 1+len(s.Alternatives))
	if s.Primary != "" {
		queries = append(queries, s.Primary)
	}
	queries = append(queries, s.Alternatives...)
	return queries
}
