package sitemap

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// minContainedLength is the shortest string that scores 1 by containment.
// Shorter fragments such as "G" or "RTX" fall back to edit distance.
const minContainedLength = 4

// Matcher keeps candidates that are close to at least one reference name.
type Matcher struct {
	threshold  float64
	references []string
}

// NewMatcher slugs the references once so they compare like candidates do.
func NewMatcher(threshold float64, references []string) *Matcher {
	slugs := make([]string, 0, len(references))
	for _, ref := range references {
		if slug := Slug(ref); slug != "" {
			slugs = append(slugs, slug)
		}
	}

	return &Matcher{
		threshold:  threshold,
		references: slugs,
	}
}

func (m *Matcher) Retain(candidate string) bool {
	_, score := m.BestMatch(candidate)
	return score >= m.threshold
}

// BestMatch returns the closest reference and its score. Stops early on a
// perfect score.
func (m *Matcher) BestMatch(candidate string) (string, float64) {
	var best string
	var bestScore float64

	for _, ref := range m.references {
		score := Similarity(candidate, ref)
		if score > bestScore {
			best, bestScore = ref, score
		}
		if bestScore >= 1 {
			break
		}
	}

	return best, bestScore
}

// Similarity is a case-sensitive ratio in [0,1]: 1 on equality or when one
// string contains the other and the contained one has at least
// minContainedLength runes, else 1 - levenshtein/longer length.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	lenA, lenB := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if lenB >= minContainedLength && strings.Contains(a, b) {
		return 1
	}
	if lenA >= minContainedLength && strings.Contains(b, a) {
		return 1
	}

	longest := max(lenA, lenB)
	distance := matchr.Levenshtein(a, b)

	return 1 - float64(distance)/float64(longest)
}
