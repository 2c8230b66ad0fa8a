package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/anomaly"
	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// AnomalyParams controls one isolation-forest run.
type AnomalyParams struct {
	Contamination float64
	Limit         int
	Explain       bool
	Reasons       int
}

// DefaultContamination is the expected outlier fraction when the caller
// does not supply one.
const DefaultContamination = 0.05

// defaultReasons is the explanation depth when reasons are requested
// without a count.
const defaultReasons = 3

// DeadlineAnomalies isolates outlying deadline rows.
func (s *Service) DeadlineAnomalies(ctx context.Context, p AnomalyParams) (*AnomaliesResponse, error) {
	started := time.Now()
	rows, _ := s.deadlineFrame(ctx)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = deadlineRowID(r)
	}
	resp, err := s.anomalyMatrix(feature.DeadlineMatrix(rows), ids, p)
	s.observeAnomalies("anomalies_deadlines", resp, err, started)
	return resp, err
}

// DocumentAnomalies isolates outlying document rows.
func (s *Service) DocumentAnomalies(ctx context.Context, p AnomalyParams) (*AnomaliesResponse, error) {
	started := time.Now()
	docs, _ := s.documentFrame(ctx)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = documentRowID(d)
	}
	resp, err := s.anomalyMatrix(feature.DocumentClusterMatrix(docs), ids, p)
	s.observeAnomalies("anomalies_documents", resp, err, started)
	return resp, err
}

func (s *Service) observeAnomalies(op string, resp *AnomaliesResponse, err error, started time.Time) {
	status := "error"
	rows := 0
	if err == nil && resp != nil {
		status = resp.Status
		rows = resp.Rows
	}
	s.observe(op, status, rows, started)
}

func (s *Service) anomalyMatrix(m feature.Matrix, ids []string, p AnomalyParams) (*AnomaliesResponse, error) {
	if p.Contamination == 0 {
		p.Contamination = DefaultContamination
	}
	if err := anomaly.ValidateContamination(p.Contamination); err != nil {
		return nil, err
	}
	if m.NumRows() == 0 {
		return &AnomaliesResponse{Status: StatusNoData, Contamination: p.Contamination, Results: []AnomalyItem{}}, nil
	}
	if m.NumRows() < 2 {
		return &AnomaliesResponse{Status: StatusInsufficient, Rows: m.NumRows(), Contamination: p.Contamination, Results: []AnomalyItem{}}, nil
	}

	scaler := mathx.FitStandardizer(m.Rows, true)
	scaled := scaler.Transform(m.Rows)
	forest, err := anomaly.FitForest(scaled, s.cfg.IsolationTrees, s.cfg.Seed)
	if err != nil {
		if errors.IsInsufficientData(err) {
			return &AnomaliesResponse{Status: StatusInsufficient, Rows: m.NumRows(), Contamination: p.Contamination, Results: []AnomalyItem{}}, nil
		}
		return nil, err
	}

	raw := forest.Scores(scaled)
	flags := anomaly.Flag(raw, p.Contamination)
	norm := mathx.MinMaxNormalize(raw)

	var explainer *anomaly.Explainer
	reasons := p.Reasons
	if p.Explain {
		if reasons < 1 {
			reasons = defaultReasons
		}
		explainer = anomaly.NewExplainer(m.Names, m.Rows)
	}

	resp := &AnomaliesResponse{
		Status:        StatusOK,
		Rows:          m.NumRows(),
		Contamination: p.Contamination,
		Results:       make([]AnomalyItem, m.NumRows()),
	}
	for i := range norm {
		item := AnomalyItem{ID: ids[i], Score: norm[i], Flagged: flags[i], Features: m.RowMap(i)}
		if flags[i] {
			resp.Flagged++
		}
		if explainer != nil {
			for _, d := range explainer.Explain(m.Rows[i], reasons) {
				item.Reasons = append(item.Reasons, AnomalyReason{Feature: d.Feature, Value: d.Value, ZScore: d.ZScore})
			}
		}
		resp.Results[i] = item
	}
	sort.SliceStable(resp.Results, func(a, b int) bool {
		return resp.Results[a].Score > resp.Results[b].Score
	})
	if p.Limit > 0 && p.Limit < len(resp.Results) {
		resp.Results = resp.Results[:p.Limit]
	}
	return resp, nil
}
