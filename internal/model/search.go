package model

// SearchResult is one raw hit returned by a single query. Results are scoped
// to the query that produced them; the same URL may recur across queries for
// a claim and is deduplicated before scraping.
type SearchResult struct {
	URL           string  `json:"url"`
	Title         string  `json:"title,omitempty"`
	Preview       string  `json:"content_preview,omitempty"`
	Relevance     float64 `json:"relevance"` // Derived from result position (1.0 = first)
	PublishedDate string  `json:"published_date,omitempty"`
}

// DedupeResults collapses results that share a URL, keeping the highest
// relevance seen for each. Order of first appearance is preserved.
func DedupeResults(results []SearchResult) []SearchResult {
	byURL := make(map[string]int)
	deduped := make([]SearchResult, 0, len(results))

	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if idx, seen := byURL[r.URL]; seen {
			if r.Relevance > deduped[idx].Relevance {
				deduped[idx].Relevance = r.Relevance
			}
			continue
		}
		byURL[r.URL] = len(deduped)
		deduped = append(deduped, r)
	}

	return deduped
}
