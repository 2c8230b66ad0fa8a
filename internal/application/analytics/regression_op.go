package analytics

import (
	"context"
	"math"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/regress"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
)

// DeadlineDaysRegression cross-validates an OLS fit of days_to_due on the
// remaining deadline features. Rows without a due date have no target and
// are excluded up front.
func (s *Service) DeadlineDaysRegression(ctx context.Context, kfold int) (*RegressionResponse, error) {
	started := time.Now()
	rows, _ := s.deadlineFrame(ctx)

	withTarget := rows[:0:0]
	for _, r := range rows {
		if r.DaysToDue != nil {
			withTarget = append(withTarget, r)
		}
	}
	if len(withTarget) == 0 {
		s.observe("regression_deadlines", StatusNoData, 0, started)
		return &RegressionResponse{Status: StatusNoData, Target: feature.ColDaysToDue, Predictions: []RegressionPrediction{}}, nil
	}

	ids := make([]string, len(withTarget))
	for i, r := range withTarget {
		ids[i] = deadlineRowID(r)
	}
	m, y := feature.DeadlineMatrix(withTarget).DropColumn(feature.ColDaysToDue)
	resp, err := s.regressMatrix(m, ids, y, feature.ColDaysToDue, kfold)
	s.observeRegression("regression_deadlines", resp, err, started)
	return resp, err
}

// DocumentSizeRegression cross-validates an OLS fit of size_mb on the
// document features. Missing creation dates enter as NaN so each fold's
// imputer fills them from its own training split.
func (s *Service) DocumentSizeRegression(ctx context.Context, kfold int) (*RegressionResponse, error) {
	started := time.Now()
	docs, _ := s.documentFrame(ctx)
	if len(docs) == 0 {
		s.observe("regression_documents", StatusNoData, 0, started)
		return &RegressionResponse{Status: StatusNoData, Target: feature.ColSizeMB, Predictions: []RegressionPrediction{}}, nil
	}

	x := make([][]float64, len(docs))
	y := make([]float64, len(docs))
	ids := make([]string, len(docs))
	for i, d := range docs {
		daysSince := math.NaN()
		if d.DaysSinceCreated != nil {
			daysSince = float64(*d.DaysSinceCreated)
		}
		x[i] = []float64{daysSince, float64(d.NameLength), float64(d.IsPDF)}
		y[i] = d.SizeMB
		ids[i] = documentRowID(d)
	}
	m := feature.Matrix{Names: feature.DocumentFeatureNames(), Rows: x}
	resp, err := s.regressMatrix(m, ids, y, feature.ColSizeMB, kfold)
	s.observeRegression("regression_documents", resp, err, started)
	return resp, err
}

func (s *Service) observeRegression(op string, resp *RegressionResponse, err error, started time.Time) {
	status := "error"
	rows := 0
	if err == nil && resp != nil {
		status = resp.Status
		rows = resp.Rows
	}
	s.observe(op, status, rows, started)
}

func (s *Service) regressMatrix(m feature.Matrix, ids []string, y []float64, target string, kfold int) (*RegressionResponse, error) {
	report, err := regress.CrossValidate(m.Rows, y, kfold, s.cfg.Seed)
	if err != nil {
		return nil, err
	}

	resp := &RegressionResponse{
		Target:      target,
		Rows:        report.NumRows,
		Baseline:    report.Baseline,
		Predictions: regressionPredictions(m, ids, y, report.Predictions),
	}
	if report.Fallback {
		resp.Status = StatusFallback
		resp.MAEMean = baselineMAE(y, report.Baseline)
		return resp, nil
	}

	resp.Status = StatusOK
	resp.KFold = regress.ClampFolds(kfold, report.NumRows)
	resp.R2Mean = report.MeanR2
	resp.R2Std = report.StdR2
	resp.MAEMean = report.MeanMAE
	resp.MAEStd = report.StdMAE
	resp.Intercept = report.Intercept
	resp.Coefficients = make(map[string]float64, len(report.Coefficients))
	for j, name := range m.Names {
		resp.Coefficients[name] = report.Coefficients[j]
	}
	resp.Folds = make([]FoldMetrics, len(report.Folds))
	for i, f := range report.Folds {
		resp.Folds[i] = FoldMetrics{R2: f.R2, MAE: f.MAE}
	}
	return resp, nil
}

// regressionPredictions pairs each row's id and target with its prediction.
// Missing feature cells (NaN before imputation) stay out of the map so they
// read as absent downstream.
func regressionPredictions(m feature.Matrix, ids []string, y, yPred []float64) []RegressionPrediction {
	out := make([]RegressionPrediction, len(ids))
	for i, id := range ids {
		features := make(map[string]float64, len(m.Names))
		for j, name := range m.Names {
			if v := m.Rows[i][j]; !math.IsNaN(v) {
				features[name] = v
			}
		}
		out[i] = RegressionPrediction{
			ID:       id,
			YTrue:    y[i],
			YPred:    yPred[i],
			Residual: y[i] - yPred[i],
			Features: features,
		}
	}
	return out
}

// baselineMAE is the mean absolute residual of the constant-mean predictor.
func baselineMAE(y []float64, mean float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for _, v := range y {
		sum += math.Abs(v - mean)
	}
	return sum / float64(len(y))
}
