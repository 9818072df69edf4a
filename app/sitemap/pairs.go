package sitemap

import (
	"slices"
)

type Pair struct {
	A string
	B string
}

func (p Pair) Slug() string {
	return p.A + "-vs-" + p.B
}

// Combinations returns every unordered pair of distinct names, A < B, in
// lexicographic order. Input order and duplicates do not matter.
func Combinations(names []string) []Pair {
	unique := slices.Clone(names)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	n := len(unique)
	if n < 2 {
		return []Pair{}
	}

	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: unique[i], B: unique[j]})
		}
	}

	return pairs
}
