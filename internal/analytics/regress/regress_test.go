package regress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImputerFillsNaNWithMedian(t *testing.T) {
	rows := [][]float64{
		{1, math.NaN()},
		{3, 10},
		{math.NaN(), 20},
		{5, 30},
	}

	imp := FitImputer(rows)
	assert.InDelta(t, 3, imp.Medians[0], 1e-12)
	assert.InDelta(t, 20, imp.Medians[1], 1e-12)

	filled := imp.Transform(rows)
	assert.InDelta(t, 20, filled[0][1], 1e-12)
	assert.InDelta(t, 3, filled[2][0], 1e-12)
	// Finite cells pass through untouched.
	assert.InDelta(t, 10, filled[1][1], 1e-12)
}

func TestClampFolds(t *testing.T) {
	assert.Equal(t, 2, ClampFolds(0, 10))
	assert.Equal(t, 2, ClampFolds(-5, 10))
	assert.Equal(t, 10, ClampFolds(50, 10))
	assert.Equal(t, 5, ClampFolds(5, 10))
	// Fold count is capped at 20 even when more rows are available.
	assert.Equal(t, 20, ClampFolds(50, 100))
	assert.Equal(t, 20, ClampFolds(100, 100))
}

func TestCrossValidateLinearTarget(t *testing.T) {
	// y = 3·x0 − 2·x1 + 5, exactly.
	n := 40
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i)
		b := float64((i * 7) % 11)
		x[i] = []float64{a, b}
		y[i] = 3*a - 2*b + 5
	}

	report, err := CrossValidate(x, y, 5, 42)
	require.NoError(t, err)
	require.False(t, report.Fallback)
	require.Len(t, report.Folds, 5)

	require.NotNil(t, report.MeanR2)
	assert.InDelta(t, 1.0, *report.MeanR2, 1e-6)
	assert.InDelta(t, 0.0, report.MeanMAE, 1e-6)
	assert.Equal(t, n, report.NumRows)
	assert.Len(t, report.Coefficients, 2)

	// Per-row predictions come from the full-data fit, so on an exactly
	// linear target every residual vanishes.
	require.Len(t, report.Predictions, n)
	for i := range y {
		assert.InDelta(t, y[i], report.Predictions[i], 1e-6)
	}
}

func TestCrossValidateFallbackPaths(t *testing.T) {
	// Too few rows.
	report, err := CrossValidate([][]float64{{1}, {2}}, []float64{1, 2}, 5, 1)
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.InDelta(t, 1.5, report.Baseline, 1e-12)

	// The fallback predicts the batch mean for every row.
	require.Len(t, report.Predictions, 2)
	assert.InDelta(t, 1.5, report.Predictions[0], 1e-12)
	assert.InDelta(t, 1.5, report.Predictions[1], 1e-12)

	// Constant target.
	x := [][]float64{{1}, {2}, {3}, {4}}
	report, err = CrossValidate(x, []float64{7, 7, 7, 7}, 2, 1)
	require.NoError(t, err)
	assert.True(t, report.Fallback)
	assert.InDelta(t, 7, report.Baseline, 1e-12)
	assert.Empty(t, report.Folds)

	// Constant target means zero residuals against the mean baseline.
	require.Len(t, report.Predictions, 4)
	for _, p := range report.Predictions {
		assert.InDelta(t, 7, p, 1e-12)
	}
}

func TestCrossValidateClampsFoldCount(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 5}

	report, err := CrossValidate(x, y, 100, 42)
	require.NoError(t, err)
	assert.Len(t, report.Folds, 4)
}

func TestCrossValidateRejectsMismatch(t *testing.T) {
	_, err := CrossValidate([][]float64{{1}}, []float64{1, 2}, 2, 1)
	assert.Error(t, err)
	_, err = CrossValidate(nil, nil, 2, 1)
	assert.Error(t, err)
}

func TestRSquaredUndefinedOnConstantFold(t *testing.T) {
	_, ok := rSquared([]float64{4, 4, 4}, []float64{3, 4, 5})
	assert.False(t, ok)

	r2, ok := rSquared([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.True(t, ok)
	assert.InDelta(t, 1.0, r2, 1e-12)
}
