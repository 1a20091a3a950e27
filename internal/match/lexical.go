package match

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// lexicalThreshold is the minimum edit similarity for a confident match.
const lexicalThreshold = 0.6

// Lexical scores candidates by normalized Levenshtein similarity:
// 1 - distance/len(longer). A score of 1 is an exact match.
type Lexical struct{}

// Name implements Similarity.
func (Lexical) Name() string { return "lexical" }

// Scores implements Similarity.
func (Lexical) Scores(query string, candidates []string) []float64 {
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = editSimilarity(query, c)
	}
	return scores
}

// Accept implements Similarity. The threshold is inclusive.
func (Lexical) Accept(score float64) bool { return score >= lexicalThreshold }

func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longer := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longer {
		longer = n
	}
	if longer == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longer)
}
