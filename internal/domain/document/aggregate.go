package document

import (
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/dates"
)

// recentWindowDays is the age (in days) under which the most recent document
// of a case still counts as recent activity.
const recentWindowDays = 7

// CaseAggregate is the per-case roll-up of the document stream.
type CaseAggregate struct {
	CaseID           int64
	DocCount         int
	TotalSizeMB      float64
	DaysSinceLastDoc *int
	RecentFlag       int
	PDFRatio         float64
}

// AggregateByCase groups documents by case id and rolls them up. Documents
// without a case id are skipped — they can never join a deadline. PDFRatio is
// guarded against an empty group (0.0 when DocCount is 0, though groups are
// never empty by construction).
func AggregateByCase(docs []Document, now time.Time) map[int64]CaseAggregate {
	aggs := make(map[int64]CaseAggregate)
	lastCreated := make(map[int64]time.Time)
	pdfCounts := make(map[int64]int)

	for _, d := range docs {
		if d.CaseID == nil {
			continue
		}
		id := *d.CaseID
		agg := aggs[id]
		agg.CaseID = id
		agg.DocCount++
		agg.TotalSizeMB += d.SizeMB
		if d.IsPDF == 1 {
			pdfCounts[id]++
		}
		if d.CreatedAt != nil {
			if cur, ok := lastCreated[id]; !ok || d.CreatedAt.After(cur) {
				lastCreated[id] = *d.CreatedAt
			}
		}
		aggs[id] = agg
	}

	for id, agg := range aggs {
		if last, ok := lastCreated[id]; ok {
			days := dates.DaysBetween(last, now)
			agg.DaysSinceLastDoc = &days
			if days <= recentWindowDays {
				agg.RecentFlag = 1
			}
		}
		if agg.DocCount > 0 {
			agg.PDFRatio = float64(pdfCounts[id]) / float64(agg.DocCount)
		}
		aggs[id] = agg
	}
	return aggs
}
