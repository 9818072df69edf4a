package sitemap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinations(t *testing.T) {
	pairs := Combinations([]string{"Intel-i5", "Intel-i7", "AMD-Ryzen-5"})

	assert.Equal(t, []Pair{
		{A: "AMD-Ryzen-5", B: "Intel-i5"},
		{A: "AMD-Ryzen-5", B: "Intel-i7"},
		{A: "Intel-i5", B: "Intel-i7"},
	}, pairs)
	assert.Equal(t, "AMD-Ryzen-5-vs-Intel-i5", pairs[0].Slug())
}

func TestCombinationsCount(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	n := len(names)

	shuffled := append([]string(nil), names...)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	sorted := Combinations(names)
	require.Len(t, sorted, n*(n-1)/2)
	assert.Equal(t, sorted, Combinations(shuffled))

	seen := make(map[Pair]bool)
	for _, p := range sorted {
		assert.Less(t, p.A, p.B)
		assert.False(t, seen[p], "duplicate pair %v", p)
		assert.False(t, seen[Pair{A: p.B, B: p.A}], "reversed pair %v", p)
		seen[p] = true
	}
}

func TestCombinationsDeduplicates(t *testing.T) {
	pairs := Combinations([]string{"b", "a", "b", "a"})
	assert.Equal(t, []Pair{{A: "a", B: "b"}}, pairs)
}

func TestCombinationsTooFewNames(t *testing.T) {
	assert.Empty(t, Combinations(nil))
	assert.Empty(t, Combinations([]string{"only"}))
	assert.Empty(t, Combinations([]string{"same", "same"}))
}

func TestCombinationsDoesNotMutateInput(t *testing.T) {
	names := []string{"c", "a", "b"}
	Combinations(names)
	assert.Equal(t, []string{"c", "a", "b"}, names)
}
