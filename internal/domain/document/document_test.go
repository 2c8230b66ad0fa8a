package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func TestFlattenDecodesAndDerives(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	raws := []Raw{
		{
			DocID:     strPtr("d-1"),
			Filename:  strPtr("escrito%20final.PDF"),
			Size:      i64Ptr(2 * 1048576),
			CaseID:    i64Ptr(7),
			CreatedAt: strPtr("2026-03-12T00:00:00Z"),
		},
		{
			MongoID:  strPtr("65fa0"),
			Filename: strPtr("anexo.docx"),
		},
		{},
	}

	docs := Flatten(raws, now)
	require.Len(t, docs, 3)

	assert.Equal(t, "d-1", docs[0].ID)
	assert.Equal(t, "escrito final.PDF", docs[0].Filename)
	assert.Equal(t, "pdf", docs[0].Ext)
	assert.Equal(t, 1, docs[0].IsPDF)
	assert.InDelta(t, 2.0, docs[0].SizeMB, 1e-12)
	require.NotNil(t, docs[0].DaysSinceCreated)
	assert.Equal(t, 3, *docs[0].DaysSinceCreated)

	// Mongo id is the fallback identifier.
	assert.Equal(t, "65fa0", docs[1].ID)
	assert.Equal(t, "docx", docs[1].Ext)
	assert.Equal(t, 0, docs[1].IsPDF)
	assert.Nil(t, docs[1].DaysSinceCreated)

	// Fully empty record still yields a row with zero values.
	assert.Equal(t, "", docs[2].ID)
	assert.Equal(t, 0.0, docs[2].SizeMB)
}

func TestAggregateByCase(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	old := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	docs := []Document{
		{ID: "a", CaseID: i64Ptr(1), SizeMB: 1.5, IsPDF: 1, CreatedAt: &old},
		{ID: "b", CaseID: i64Ptr(1), SizeMB: 0.5, IsPDF: 0, CreatedAt: &recent},
		{ID: "c", CaseID: i64Ptr(2), SizeMB: 3.0, IsPDF: 1, CreatedAt: &old},
		{ID: "d", SizeMB: 9.0}, // no case → skipped
	}

	aggs := AggregateByCase(docs, now)
	require.Len(t, aggs, 2)

	one := aggs[1]
	assert.Equal(t, 2, one.DocCount)
	assert.InDelta(t, 2.0, one.TotalSizeMB, 1e-12)
	require.NotNil(t, one.DaysSinceLastDoc)
	assert.Equal(t, 2, *one.DaysSinceLastDoc)
	assert.Equal(t, 1, one.RecentFlag)
	assert.InDelta(t, 0.5, one.PDFRatio, 1e-12)

	two := aggs[2]
	assert.Equal(t, 1, two.DocCount)
	assert.Equal(t, 0, two.RecentFlag)
	assert.InDelta(t, 1.0, two.PDFRatio, 1e-12)
}

func TestAggregateWithoutDatesHasNoRecency(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	docs := []Document{{ID: "a", CaseID: i64Ptr(1), SizeMB: 1}}

	aggs := AggregateByCase(docs, now)
	agg := aggs[1]
	assert.Nil(t, agg.DaysSinceLastDoc)
	assert.Equal(t, 0, agg.RecentFlag)
}
