package match

import (
	"math"
	"strings"
	"unicode"
)

// cosineThreshold is the minimum TF-IDF cosine similarity for a
// confident match.
const cosineThreshold = 0.3

// Cosine scores candidates by cosine similarity of TF-IDF weighted term
// vectors. Document frequencies are computed over the query plus all
// candidates, so scores depend only on the (query, candidates) pair.
type Cosine struct{}

// Name implements Similarity.
func (Cosine) Name() string { return "cosine" }

// Accept implements Similarity. The threshold is exclusive: a best score
// of exactly 0.3 is rejected.
func (Cosine) Accept(score float64) bool { return score > cosineThreshold }

// Scores implements Similarity.
func (Cosine) Scores(query string, candidates []string) []float64 {
	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, tokenize(query))
	for _, c := range candidates {
		docs = append(docs, tokenize(c))
	}

	// Smoothed document frequencies: idf = ln((1+N)/(1+df)) + 1.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for t, f := range df {
		idf[t] = math.Log((1+n)/(1+float64(f))) + 1
	}

	queryVec := weigh(docs[0], idf)
	scores := make([]float64, len(candidates))
	for i := range candidates {
		scores[i] = dot(queryVec, weigh(docs[i+1], idf))
	}
	return scores
}

// weigh builds an L2-normalized TF-IDF vector for one document.
func weigh(tokens []string, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		vec[t] += idf[t]
	}
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

func dot(a, b map[string]float64) float64 {
	var sum float64
	for t, w := range a {
		sum += w * b[t]
	}
	return sum
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
