package sitemap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(n int) []URLEntry {
	out := make([]URLEntry, n)
	for i := range out {
		out[i] = URLEntry{Loc: fmt.Sprintf("https://example.com/%d", i), Priority: DefaultPriority}
	}
	return out
}

func TestAccumulateSplitsAtMax(t *testing.T) {
	acc := NewAccumulator("cpu", "en")
	assert.False(t, acc.Open())

	files, acc := Accumulate(acc, entries(5), 2)
	require.Len(t, files, 2)
	assert.Equal(t, "cpu-sitemap-en-1.xml", files[0].Name())
	assert.Equal(t, "cpu-sitemap-en-2.xml", files[1].Name())
	assert.Len(t, files[0].Entries, 2)
	assert.Len(t, files[1].Entries, 2)

	assert.True(t, acc.Open())
	assert.Equal(t, 3, acc.Index)

	last, acc, ok := Drain(acc)
	require.True(t, ok)
	assert.Equal(t, "cpu-sitemap-en-3.xml", last.Name())
	assert.Len(t, last.Entries, 1)
	assert.Equal(t, "https://example.com/4", last.Entries[0].Loc)

	assert.False(t, acc.Open())
	assert.Equal(t, 4, acc.Index)

	_, _, ok = Drain(acc)
	assert.False(t, ok)
}

func TestAccumulateAcrossCalls(t *testing.T) {
	acc := NewAccumulator("gpu", "fr")

	files, acc := Accumulate(acc, entries(3), 4)
	assert.Empty(t, files)
	assert.Equal(t, 1, acc.Index)

	files, acc = Accumulate(acc, entries(3), 4)
	require.Len(t, files, 1)
	assert.Len(t, files[0].Entries, 4)
	assert.Equal(t, 1, files[0].Index)
	assert.Len(t, acc.Entries, 2)
	assert.Equal(t, 2, acc.Index)
}

func TestAccumulateExactMultiple(t *testing.T) {
	files, acc := Accumulate(NewAccumulator("phone", "es"), entries(4), 2)
	assert.Len(t, files, 2)
	assert.False(t, acc.Open())

	_, _, ok := Drain(acc)
	assert.False(t, ok)
}

func TestAccumulateEmitsIndependentFiles(t *testing.T) {
	files, _ := Accumulate(NewAccumulator("cpu", "en"), entries(4), 2)
	require.Len(t, files, 2)

	files[0].Entries[0].Loc = "changed"
	assert.Equal(t, "https://example.com/2", files[1].Entries[0].Loc)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "phone-sitemap-fr-12.xml", FileName("phone", "fr", 12))
}
