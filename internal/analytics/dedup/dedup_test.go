package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
)

func i64Ptr(v int64) *int64 { return &v }

func TestNameSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, NameSimilarity("escrito.pdf", "escrito.pdf"), 1e-12)
	assert.InDelta(t, 1.0, NameSimilarity("", ""), 1e-12)
	assert.InDelta(t, 0.0, NameSimilarity("abc", "xyz"), 1e-12)

	// Ratcliff/Obershelp on a known pair: "abcd" vs "bcde" match "bcd",
	// 2·3/(4+4) = 0.75.
	assert.InDelta(t, 0.75, NameSimilarity("abcd", "bcde"), 1e-12)

	// Near-identical names score high.
	sim := NameSimilarity("demanda_v1.pdf", "demanda_v2.pdf")
	assert.Greater(t, sim, 0.85)
	assert.Less(t, sim, 1.0)
}

func TestNameSimilarityCaseSensitive(t *testing.T) {
	// "Escrito.PDF" vs "escrito.pdf": only "scrito." matches, so
	// 2·7/(11+11) = 7/11.
	assert.InDelta(t, 7.0/11.0, NameSimilarity("Escrito.PDF", "escrito.pdf"), 1e-12)
	assert.Less(t, NameSimilarity("ABC", "abc"), 1.0)
}

func TestSizeSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, SizeSimilarity(2, 2), 1e-12)
	assert.InDelta(t, 0.5, SizeSimilarity(1, 2), 1e-12)
	assert.InDelta(t, 1.0, SizeSimilarity(0, 0), 1e-12)
	assert.InDelta(t, 0.0, SizeSimilarity(0, 5), 1e-12)
}

func TestParamsNormalize(t *testing.T) {
	p := Params{NameWeight: 3, SizeWeight: 1, Threshold: 0.5, MaxPairs: 10}
	require.NoError(t, p.Normalize())
	assert.InDelta(t, 0.75, p.NameWeight, 1e-12)
	assert.InDelta(t, 0.25, p.SizeWeight, 1e-12)

	bad := []Params{
		{NameWeight: -1, SizeWeight: 1, Threshold: 0.5, MaxPairs: 1},
		{NameWeight: 0, SizeWeight: 0, Threshold: 0.5, MaxPairs: 1},
		{NameWeight: 1, SizeWeight: 0, Threshold: 1.5, MaxPairs: 1},
		{NameWeight: 1, SizeWeight: 0, Threshold: 0.5, MaxPairs: 0},
	}
	for i, p := range bad {
		assert.Error(t, p.Normalize(), "case %d", i)
	}
}

func TestFindPairsAcceptsAndSorts(t *testing.T) {
	docs := []document.Document{
		{ID: "a", Filename: "demanda_v1.pdf", SizeMB: 1.0, CaseID: i64Ptr(1)},
		{ID: "b", Filename: "demanda_v2.pdf", SizeMB: 1.0, CaseID: i64Ptr(1)},
		{ID: "c", Filename: "totally-different.xlsx", SizeMB: 50, CaseID: i64Ptr(2)},
		{ID: "d", Filename: "demanda_v1.pdf", SizeMB: 1.0, CaseID: i64Ptr(3)},
	}

	pairs, err := FindPairs(docs, Params{NameWeight: 0.7, SizeWeight: 0.3, Threshold: 0.8, MaxPairs: 100})
	require.NoError(t, err)
	require.NotEmpty(t, pairs)

	// Sorted by descending score.
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, pairs[i-1].Score, pairs[i].Score)
	}

	// The identical pair (a,d) leads with a perfect score.
	assert.Equal(t, "a", pairs[0].A.ID)
	assert.Equal(t, "d", pairs[0].B.ID)
	assert.InDelta(t, 1.0, pairs[0].Score, 1e-12)
	assert.False(t, pairs[0].SameCase)

	// (a,b) share a case.
	for _, p := range pairs {
		if p.A.ID == "a" && p.B.ID == "b" {
			assert.True(t, p.SameCase)
		}
		assert.NotEqual(t, "c", p.A.ID)
		assert.NotEqual(t, "c", p.B.ID)
	}
}

func TestFindPairsEarlyStopBudget(t *testing.T) {
	// 20 identical documents produce 190 qualifying pairs; the scan must
	// stop at the budget.
	docs := make([]document.Document, 20)
	for i := range docs {
		docs[i] = document.Document{ID: fmt.Sprintf("d%d", i), Filename: "same.pdf", SizeMB: 1}
	}

	pairs, err := FindPairs(docs, Params{NameWeight: 1, SizeWeight: 1, Threshold: 0.9, MaxPairs: 5})
	require.NoError(t, err)
	assert.Len(t, pairs, 5)
}

func TestFindPairsSameCaseNeedsBothIDs(t *testing.T) {
	docs := []document.Document{
		{ID: "a", Filename: "x.pdf", SizeMB: 1, CaseID: i64Ptr(1)},
		{ID: "b", Filename: "x.pdf", SizeMB: 1},
	}
	pairs, err := FindPairs(docs, Params{NameWeight: 1, SizeWeight: 0, Threshold: 0.5, MaxPairs: 10})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.False(t, pairs[0].SameCase)
}
