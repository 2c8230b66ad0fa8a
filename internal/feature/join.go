package feature

import (
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
)

// EnrichedDeadline is a deadline left-joined with its case's document
// aggregate. Aggregate-derived fields default to 0 when the case has no
// documents or the deadline has no case — this is the single point where
// "missing" becomes "zero" before modeling.
type EnrichedDeadline struct {
	deadline.Deadline

	DocCount         float64
	DocsTotalSizeMB  float64
	DaysSinceLastDoc float64
	RecentFlag       float64
	PDFRatio         float64
}

// JoinDeadlines left-joins every deadline with the aggregate of its case.
// Every deadline is kept; unmatched aggregate fields stay at their zero
// values.
func JoinDeadlines(rows []deadline.Deadline, aggs map[int64]document.CaseAggregate) []EnrichedDeadline {
	out := make([]EnrichedDeadline, len(rows))
	for i, d := range rows {
		e := EnrichedDeadline{Deadline: d}
		if d.CaseID != nil {
			if agg, ok := aggs[*d.CaseID]; ok {
				e.DocCount = float64(agg.DocCount)
				e.DocsTotalSizeMB = agg.TotalSizeMB
				if agg.DaysSinceLastDoc != nil {
					e.DaysSinceLastDoc = float64(*agg.DaysSinceLastDoc)
				}
				e.RecentFlag = float64(agg.RecentFlag)
				e.PDFRatio = agg.PDFRatio
			}
		}
		out[i] = e
	}
	return out
}

// DeadlineMatrix materializes the fixed deadline feature contract from
// enriched rows. A missing days_to_due zero-fills here and nowhere else.
func DeadlineMatrix(rows []EnrichedDeadline) Matrix {
	names := DeadlineFeatureNames()
	data := make([][]float64, len(rows))
	for i, e := range rows {
		daysToDue := 0.0
		if e.DaysToDue != nil {
			daysToDue = float64(*e.DaysToDue)
		}
		data[i] = []float64{
			daysToDue,
			float64(e.DescriptionLength),
			float64(e.CaseOpenFlag),
			e.DocCount,
			e.DocsTotalSizeMB,
			e.DaysSinceLastDoc,
			e.RecentFlag,
			e.PDFRatio,
		}
	}
	return Matrix{Names: names, Rows: data}
}

// DocumentMatrix materializes the fixed document feature contract.
// A missing days_since_created zero-fills here.
func DocumentMatrix(docs []document.Document) Matrix {
	names := DocumentFeatureNames()
	data := make([][]float64, len(docs))
	for i, d := range docs {
		daysSince := 0.0
		if d.DaysSinceCreated != nil {
			daysSince = float64(*d.DaysSinceCreated)
		}
		data[i] = []float64{
			daysSince,
			float64(d.NameLength),
			float64(d.IsPDF),
		}
	}
	return Matrix{Names: names, Rows: data}
}

// DocumentClusterMatrix materializes the document contract plus size_mb,
// for the clustering and anomaly paths where size is a legitimate input.
func DocumentClusterMatrix(docs []document.Document) Matrix {
	m := DocumentMatrix(docs)
	for i, d := range docs {
		m.Rows[i] = append(m.Rows[i], d.SizeMB)
	}
	m.Names = DocumentClusterFeatureNames()
	return m
}
