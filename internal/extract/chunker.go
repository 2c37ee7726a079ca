package extract

import (
	"strings"

	"github.com/psemenov/veracity/internal/model"
)

// SplitWindows splits oversized text into overlapping windows on sentence
// boundaries. Each window is at most size characters; consecutive windows
// share roughly overlap characters of trailing context so claims that
// straddle a boundary are not lost. Text within size comes back as a single
// window.
func SplitWindows(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}
	if overlap >= size {
		overlap = size / 4
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return []string{text}
	}

	var windows []string
	var current []string
	currentLen := 0
	carriedCount := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		windows = append(windows, strings.Join(current, " "))

		// Carry trailing sentences forward as overlap
		var carried []string
		carriedLen := 0
		for i := len(current) - 1; i >= 0 && carriedLen < overlap; i-- {
			carried = append([]string{current[i]}, carried...)
			carriedLen += len(current[i]) + 1
		}
		current = carried
		currentLen = carriedLen
		carriedCount = len(carried)
	}

	for _, sentence := range sentences {
		if currentLen+len(sentence)+1 > size && currentLen > 0 {
			flush()
		}
		current = append(current, sentence)
		currentLen += len(sentence) + 1
	}

	// Skip a final window that is pure overlap carry
	if len(current) > carriedCount || len(windows) == 0 {
		windows = append(windows, strings.Join(current, " "))
	}

	return windows
}

// splitSentences splits text into sentences (simple heuristic).
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				if sentence := strings.TrimSpace(current.String()); sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if sentence := strings.TrimSpace(current.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}

	return sentences
}

// NormalizeStatement produces the dedup key for a claim statement:
// lowercased, whitespace collapsed, trailing punctuation dropped.
func NormalizeStatement(statement string) string {
	s := strings.ToLower(strings.TrimSpace(statement))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ".!? ")
}

// DedupeClaims removes claims whose normalized statements collide, keeping
// the occurrence with the highest confidence, then renumbers ids
// sequentially from 1. The pass is idempotent.
func DedupeClaims(claims []model.Claim) []model.Claim {
	byKey := make(map[string]int)
	deduped := make([]model.Claim, 0, len(claims))

	for _, c := range claims {
		key := NormalizeStatement(c.Statement)
		if key == "" {
			continue
		}
		if idx, seen := byKey[key]; seen {
			if c.Confidence > deduped[idx].Confidence {
				c.ID = deduped[idx].ID
				deduped[idx] = c
			}
			continue
		}
		byKey[key] = len(deduped)
		deduped = append(deduped, c)
	}

	for i := range deduped {
		deduped[i].ID = i + 1
	}

	return deduped
}
