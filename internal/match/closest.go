package match

import "strings"

// DefaultMinSimilarity is the minimum normalized similarity for a candidate
// to be offered as a suggestion.
const DefaultMinSimilarity = 0.5

// Normalize folds an identifier for fuzzy comparison: lowercased with
// underscore, dash and space separators stripped.
func Normalize(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '_', '-', ' ':
			continue
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Closest returns the candidate most similar to name, or false when no
// candidate clears DefaultMinSimilarity. Ties keep the earliest candidate.
func Closest(name string, candidates []string) (string, bool) {
	target := Normalize(name)
	best, bestScore := "", 0.0

	for _, cand := range candidates {
		score := Similarity(target, Normalize(cand))
		if score > bestScore {
			best, bestScore = cand, score
		}
	}

	if bestScore < DefaultMinSimilarity {
		return "", false
	}

	return best, true
}
