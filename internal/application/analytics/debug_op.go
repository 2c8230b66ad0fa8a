package analytics

import (
	"context"
	"time"
)

// DebugDeadlines introspects the flattened, enriched deadline table:
// column names, logical dtypes, and non-null counts. It exists so the
// feature contract can be checked against upstream changes without reading
// model output.
func (s *Service) DebugDeadlines(ctx context.Context) (*DebugResponse, error) {
	started := time.Now()
	rows, _ := s.deadlineFrame(ctx)

	resp := &DebugResponse{Status: StatusOK, Rows: len(rows)}
	if len(rows) == 0 {
		resp.Status = StatusNoData
	}

	var dueAt, fulfilledAt, caseID, daysToDue int
	for _, r := range rows {
		if r.DueAt != nil {
			dueAt++
		}
		if r.FulfilledAt != nil {
			fulfilledAt++
		}
		if r.CaseID != nil {
			caseID++
		}
		if r.DaysToDue != nil {
			daysToDue++
		}
	}

	n := len(rows)
	resp.Columns = []DebugColumn{
		{Name: "id_plazo", Dtype: "int64", NonNull: n},
		{Name: "descripcion", Dtype: "string", NonNull: n},
		{Name: "fecha_vencimiento", Dtype: "datetime", NonNull: dueAt, Nullable: true},
		{Name: "cumplido", Dtype: "bool", NonNull: n},
		{Name: "fecha_cumplimiento", Dtype: "datetime", NonNull: fulfilledAt, Nullable: true},
		{Name: "expediente_id", Dtype: "int64", NonNull: caseID, Nullable: true},
		{Name: "days_to_due", Dtype: "int64", NonNull: daysToDue, Nullable: true},
		{Name: "description_length", Dtype: "int64", NonNull: n},
		{Name: "case_open_flag", Dtype: "int64", NonNull: n},
		{Name: "doc_count", Dtype: "float64", NonNull: n},
		{Name: "docs_total_size_mb", Dtype: "float64", NonNull: n},
		{Name: "days_since_last_doc", Dtype: "float64", NonNull: n},
		{Name: "recent_flag", Dtype: "float64", NonNull: n},
		{Name: "pdf_ratio", Dtype: "float64", NonNull: n},
	}

	s.observe("debug_deadlines", resp.Status, n, started)
	return resp, nil
}
