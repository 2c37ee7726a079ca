package model

// CredibilityTier is an ordinal ranking of source trustworthiness.
// Lower values are more authoritative.
type CredibilityTier int

const (
	TierUnknown   CredibilityTier = 0 // Not classified
	TierPrimary   CredibilityTier = 1 // Official documents, academic papers, primary data
	TierSecondary CredibilityTier = 2 // Encyclopedias, major publishers, reputable media
	TierTertiary  CredibilityTier = 3 // Blogs, forums, promotional sites
)

func (t CredibilityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// CredibilityVerdict is one evaluated source. Every URL that enters the
// scrape stage for a claim carries exactly one verdict.
type CredibilityVerdict struct {
	URL         string          `json:"url"`
	Tier        CredibilityTier `json:"tier"`
	Score       float64         `json:"score"` // 0.0-1.0
	Recommended bool            `json:"recommended"`
	Reasoning   string          `json:"reasoning,omitempty"`
}

// CredibilityAssessment is the outcome of classifying one claim's whole
// result set in a single call: per-source verdicts plus tier counts.
type CredibilityAssessment struct {
	Verdicts   []CredibilityVerdict    `json:"verdicts"`
	TierCounts map[CredibilityTier]int `json:"tier_counts,omitempty"`
}

// Recommended returns the verdicts admitted for scraping: recommended by the
// classifier and scoring at or above minScore, capped at maxSources (0 = no cap).
func (a CredibilityAssessment) Recommended(minScore float64, maxSources int) []CredibilityVerdict {
	var admitted []CredibilityVerdict
	for _, v := range a.Verdicts {
		if !v.Recommended || v.Score < minScore {
			continue
		}
		admitted = append(admitted, v)
		if maxSources > 0 && len(admitted) >= maxSources {
			break
		}
	}
	return admitted
}
