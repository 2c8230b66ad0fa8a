// Package regress fits ordinary least squares under k-fold cross-validation.
// Imputation and scaling are fitted on each fold's training split only, so
// no statistic of a held-out row ever reaches the model that scores it.
package regress

import (
	"math"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
)

// Imputer replaces NaN cells with the per-column training median.
type Imputer struct {
	Medians []float64
}

// FitImputer computes column medians over the finite cells of rows.
func FitImputer(rows [][]float64) *Imputer {
	if len(rows) == 0 {
		return &Imputer{}
	}
	d := len(rows[0])
	imp := &Imputer{Medians: make([]float64, d)}
	col := make([]float64, 0, len(rows))
	for j := 0; j < d; j++ {
		col = col[:0]
		for _, row := range rows {
			if !math.IsNaN(row[j]) {
				col = append(col, row[j])
			}
		}
		imp.Medians[j] = mathx.Median(col)
	}
	return imp
}

// Transform returns copies of rows with NaN cells filled.
func (imp *Imputer) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		filled := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				filled[j] = imp.Medians[j]
			} else {
				filled[j] = v
			}
		}
		out[i] = filled
	}
	return out
}

// pipeline is one fitted imputer→scaler→OLS chain.
type pipeline struct {
	imputer *Imputer
	scaler  *mathx.Standardizer
	beta    []float64 // d coefficients then intercept
}

// fitPipeline trains the chain on the given rows and targets.
func fitPipeline(x [][]float64, y []float64) (*pipeline, error) {
	p := &pipeline{imputer: FitImputer(x)}
	filled := p.imputer.Transform(x)
	p.scaler = mathx.FitStandardizer(filled, true)
	scaled := p.scaler.Transform(filled)

	design := make([][]float64, len(scaled))
	for i, row := range scaled {
		design[i] = append(append(make([]float64, 0, len(row)+1), row...), 1)
	}
	beta, err := mathx.LeastSquares(design, y)
	if err != nil {
		return nil, err
	}
	p.beta = beta
	return p, nil
}

// predict scores rows with the fitted chain.
func (p *pipeline) predict(x [][]float64) []float64 {
	scaled := p.scaler.Transform(p.imputer.Transform(x))
	out := make([]float64, len(scaled))
	d := len(p.beta) - 1
	for i, row := range scaled {
		sum := p.beta[d]
		for j, v := range row {
			sum += p.beta[j] * v
		}
		out[i] = sum
	}
	return out
}
