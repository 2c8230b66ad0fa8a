package feature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
)

func i64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int     { return &v }

func TestJoinDeadlinesZeroFills(t *testing.T) {
	days := 4
	rows := []deadline.Deadline{
		{ID: 1, CaseID: i64Ptr(10)},
		{ID: 2, CaseID: i64Ptr(99)}, // case with no documents
		{ID: 3},                     // no case at all
	}
	aggs := map[int64]document.CaseAggregate{
		10: {CaseID: 10, DocCount: 2, TotalSizeMB: 3.5, DaysSinceLastDoc: &days, RecentFlag: 1, PDFRatio: 0.5},
	}

	joined := JoinDeadlines(rows, aggs)
	require.Len(t, joined, 3)

	assert.Equal(t, 2.0, joined[0].DocCount)
	assert.Equal(t, 3.5, joined[0].DocsTotalSizeMB)
	assert.Equal(t, 4.0, joined[0].DaysSinceLastDoc)
	assert.Equal(t, 1.0, joined[0].RecentFlag)

	// Unmatched joins keep every aggregate at zero.
	for _, e := range joined[1:] {
		assert.Zero(t, e.DocCount)
		assert.Zero(t, e.DocsTotalSizeMB)
		assert.Zero(t, e.DaysSinceLastDoc)
		assert.Zero(t, e.RecentFlag)
		assert.Zero(t, e.PDFRatio)
	}
}

func TestDeadlineMatrixContract(t *testing.T) {
	rows := []EnrichedDeadline{
		{
			Deadline: deadline.Deadline{ID: 1, DaysToDue: intPtr(-2), DescriptionLength: 9, CaseOpenFlag: 1},
			DocCount: 3, DocsTotalSizeMB: 1.5, DaysSinceLastDoc: 2, RecentFlag: 1, PDFRatio: 0.25,
		},
		{
			Deadline: deadline.Deadline{ID: 2}, // missing due date zero-fills here
		},
	}

	m := DeadlineMatrix(rows)
	assert.Equal(t, DeadlineFeatureNames(), m.Names)

	want := [][]float64{
		{-2, 9, 1, 3, 1.5, 2, 1, 0.25},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}
	if diff := cmp.Diff(want, m.Rows); diff != "" {
		t.Fatalf("matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentClusterMatrixAppendsSize(t *testing.T) {
	days := 7
	docs := []document.Document{
		{ID: "d1", NameLength: 10, IsPDF: 1, SizeMB: 2.5, DaysSinceCreated: &days},
		{ID: "d2", NameLength: 4, IsPDF: 0, SizeMB: 0.25}, // missing date zero-fills
	}

	m := DocumentClusterMatrix(docs)
	assert.Equal(t, DocumentClusterFeatureNames(), m.Names)

	want := [][]float64{
		{7, 10, 1, 2.5},
		{0, 4, 0, 0.25},
	}
	if diff := cmp.Diff(want, m.Rows); diff != "" {
		t.Fatalf("matrix mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, map[string]float64{
		ColDaysSinceCreated: 0, ColNameLength: 4, ColIsPDF: 0, ColSizeMB: 0.25,
	}, m.RowMap(1))
}

func TestMatrixDropColumn(t *testing.T) {
	m := Matrix{
		Names: []string{"a", "b", "c"},
		Rows:  [][]float64{{1, 2, 3}, {4, 5, 6}},
	}

	dropped, removed := m.DropColumn("b")
	assert.Equal(t, []string{"a", "c"}, dropped.Names)
	assert.Equal(t, []float64{2, 5}, removed)
	assert.Equal(t, [][]float64{{1, 3}, {4, 6}}, dropped.Rows)

	// Dropping an unknown column is a no-op.
	same, none := m.DropColumn("zzz")
	assert.Nil(t, none)
	assert.Equal(t, m.Names, same.Names)
}

func TestMatrixDropZeroVariance(t *testing.T) {
	m := Matrix{
		Names: []string{"constant", "varying"},
		Rows:  [][]float64{{5, 1}, {5, 2}, {5, 3}},
	}

	kept := m.DropZeroVariance(1e-8)
	assert.Equal(t, []string{"varying"}, kept.Names)
	assert.Equal(t, [][]float64{{1}, {2}, {3}}, kept.Rows)
}
