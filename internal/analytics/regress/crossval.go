package regress

import (
	"math"
	"math/rand"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// minModelRows is the row gate below which the mean baseline is reported
// instead of a cross-validated fit.
const minModelRows = 3

// FoldScore is one fold's held-out metrics. R2 is nil when the fold's
// target has zero variance, where the statistic is undefined.
type FoldScore struct {
	R2  *float64
	MAE float64
}

// Report is the cross-validation summary. Fallback reports carry the mean
// baseline with no fold detail. Coefficients come from a final fit on all
// rows and live in standardized feature space. Predictions are per-row in
/// input order: the full-data fit's output, or the baseline mean on the
// fallback path.
type Report struct {
	Folds        []FoldScore
	MeanR2       *float64
	StdR2        *float64
	MeanMAE      float64
	StdMAE       float64
	Baseline     float64
	Fallback     bool
	NumRows      int
	Coefficients []float64
	Intercept    float64
	Predictions  []float64
}

// maxFolds is the fold-count ceiling regardless of batch size.
const maxFolds = 20

// ClampFolds bounds a requested fold count to [2, min(maxFolds, n)].
func ClampFolds(k, n int) int {
	if k < 2 {
		k = 2
	}
	if k > maxFolds {
		k = maxFolds
	}
	if k > n {
		k = n
	}
	return k
}

// CrossValidate runs k-fold OLS over x and y with shuffled fold assignment.
// Degenerate inputs — fewer than minModelRows rows or a near-constant
// target — produce a fallback report predicting the target mean.
func CrossValidate(x [][]float64, y []float64, k int, seed int64) (*Report, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, errors.InvalidParam("regression needs matching non-empty x and y")
	}

	baseline := mathx.Mean(y)
	if n < minModelRows || mathx.DistinctCount(y) < 2 {
		pred := make([]float64, n)
		for i := range pred {
			pred[i] = baseline
		}
		return &Report{Baseline: baseline, Fallback: true, NumRows: n, Predictions: pred}, nil
	}

	k = ClampFolds(k, n)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	report := &Report{Baseline: baseline, NumRows: n}
	var maes, r2s []float64
	for f := 0; f < k; f++ {
		testIdx := perm[f*n/k : (f+1)*n/k]
		inTest := make(map[int]bool, len(testIdx))
		for _, i := range testIdx {
			inTest[i] = true
		}

		var trainX, testX [][]float64
		var trainY, testY []float64
		for i := 0; i < n; i++ {
			if inTest[i] {
				testX = append(testX, x[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}

		p, err := fitPipeline(trainX, trainY)
		if err != nil {
			return nil, err
		}
		pred := p.predict(testX)

		score := FoldScore{MAE: meanAbsErr(testY, pred)}
		if r2, ok := rSquared(testY, pred); ok {
			score.R2 = &r2
			r2s = append(r2s, r2)
		}
		report.Folds = append(report.Folds, score)
		maes = append(maes, score.MAE)
	}

	report.MeanMAE = mathx.Mean(maes)
	report.StdMAE = mathx.Std(maes)
	if len(r2s) > 0 {
		mean := mathx.Mean(r2s)
		std := mathx.Std(r2s)
		report.MeanR2 = &mean
		report.StdR2 = &std
	}

	// Final fit on every row for the reported coefficients and the per-row
	// predictions.
	full, err := fitPipeline(x, y)
	if err != nil {
		return nil, err
	}
	d := len(full.beta) - 1
	report.Coefficients = full.beta[:d]
	report.Intercept = full.beta[d]
	report.Predictions = full.predict(x)
	return report, nil
}

func meanAbsErr(y, pred []float64) float64 {
	var sum float64
	for i := range y {
		sum += math.Abs(y[i] - pred[i])
	}
	return sum / float64(len(y))
}

// rSquared returns the coefficient of determination, reporting ok=false
// when the target variance is zero.
func rSquared(y, pred []float64) (float64, bool) {
	mu := mathx.Mean(y)
	var ssTot, ssRes float64
	for i := range y {
		dt := y[i] - mu
		ssTot += dt * dt
		dr := y[i] - pred[i]
		ssRes += dr * dr
	}
	if ssTot <= 0 {
		return 0, false
	}
	return 1 - ssRes/ssTot, true
}
