package episode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Similarity scores two show fragments in [0,1]. Implementations must be
// symmetric and return 1 for strings that normalise identically.
type Similarity func(a, b string) float64

// Similarity names accepted by SimilarityByName.
const (
	SimilarityLevenshtein = "levenshtein"
	SimilarityJaroWinkler = "jaro-winkler"
)

// TokenSortLevenshtein compares normalised, token-sorted fragments by
// Levenshtein distance, so word order and case do not matter.
func TokenSortLevenshtein(a, b string) float64 {
	return tokenSort(a, b, func(x, y string) float64 {
		score, err := edlib.StringsSimilarity(x, y, edlib.Levenshtein)
		if err != nil {
			return 0
		}
		return float64(score)
	})
}

// TokenSortJaroWinkler is TokenSortLevenshtein with Jaro-Winkler, which
// favours shared prefixes.
func TokenSortJaroWinkler(a, b string) float64 {
	return tokenSort(a, b, func(x, y string) float64 {
		return float64(edlib.JaroWinklerSimilarity(x, y))
	})
}

// SimilarityByName returns the similarity function for a config name.
// An empty name selects TokenSortLevenshtein.
func SimilarityByName(name string) (Similarity, error) {
	switch strings.ToLower(name) {
	case "", SimilarityLevenshtein:
		return TokenSortLevenshtein, nil
	case SimilarityJaroWinkler:
		return TokenSortJaroWinkler, nil
	default:
		return nil, fmt.Errorf("unknown similarity %q", name)
	}
}

// tokenSort scores two empty fragments as 0: no title is no evidence.
func tokenSort(a, b string, score func(x, y string) float64) float64 {
	x, y := sortedTokens(a), sortedTokens(b)
	if x == "" || y == "" {
		return 0
	}
	if x == y {
		return 1
	}
	if x > y {
		x, y = y, x
	}
	return clamp(score(x, y))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(NormalizeShow(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
