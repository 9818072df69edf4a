package sitemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Intel-Core-i5", "Intel-Core-i5"))
	assert.Equal(t, 1.0, Similarity("RTX-4090", "GeForce-RTX-4090"))
	assert.Equal(t, 1.0, Similarity("GeForce-RTX-4090", "RTX-4090"))
	assert.Equal(t, 0.0, Similarity("RTX-4090", ""))
	assert.Equal(t, 0.0, Similarity("", "RTX-4090"))
	assert.InDelta(t, 1-3.0/7.0, Similarity("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 1-1.0/13.0, Similarity("Intel-Core-i5", "Intel-Core-i7"), 1e-9)
	assert.Less(t, Similarity("intel-core-i5", "Intel-Core-i5"), 1.0)
}

func TestSimilarityShortFragments(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("4090", "GeForce-RTX-4090"))
	assert.Equal(t, 1.0, Similarity("i5", "i5"))
	assert.InDelta(t, 1-13.0/16.0, Similarity("RTX", "GeForce-RTX-4090"), 1e-9)
	assert.InDelta(t, 1-15.0/16.0, Similarity("G", "GeForce-RTX-4090"), 1e-9)
	assert.InDelta(t, 1-11.0/13.0, Similarity("Intel-Core-i5", "i5"), 1e-9)
}

func TestMatcherRejectsShortFragments(t *testing.T) {
	gpu := NewMatcher(0.80, []string{"GeForce RTX 4090"})

	assert.False(t, gpu.Retain("G"))
	assert.False(t, gpu.Retain("RTX"))
	assert.True(t, gpu.Retain("RTX-4090"))
	assert.True(t, gpu.Retain("GeForce-RTX-4090-Ti"))
}

func TestMatcherRetain(t *testing.T) {
	cpu := NewMatcher(0.80, []string{"Intel Core i5", "AMD Ryzen 5 7600X"})

	assert.True(t, cpu.Retain("Intel-Core-i5"))
	assert.True(t, cpu.Retain("Intel-Core-i7"))
	assert.True(t, cpu.Retain("AMD-Ryzen-5-7600X3D"))
	assert.False(t, cpu.Retain("Snapdragon-8-Gen-3"))
	assert.False(t, cpu.Retain(""))
}

func TestMatcherExactMatchAtAnyThreshold(t *testing.T) {
	for _, threshold := range []float64{0.01, 0.5, 0.8, 1.0} {
		m := NewMatcher(threshold, []string{"GeForce RTX 4090"})
		assert.True(t, m.Retain("GeForce-RTX-4090"), "threshold %v", threshold)
	}
}

func TestMatcherBestMatch(t *testing.T) {
	m := NewMatcher(0.65, []string{"Radeon RX 7900 XTX", "GeForce RTX 4090", "GeForce RTX 4080"})

	ref, score := m.BestMatch("GeForce-RTX-4080")
	assert.Equal(t, "GeForce-RTX-4080", ref)
	assert.Equal(t, 1.0, score)

	ref, score = m.BestMatch("GeForce-RTX-4070")
	assert.Equal(t, "GeForce-RTX-4090", ref)
	assert.InDelta(t, 1-1.0/16.0, score, 1e-9)
}

func TestMatcherWithoutReferences(t *testing.T) {
	m := NewMatcher(0.5, []string{" ", ""})
	assert.False(t, m.Retain("Intel-Core-i5"))
}
