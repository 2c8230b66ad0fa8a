package mathx

import (
	"math"

	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// ridgeEps is the diagonal regularizer added to every normal-equation system.
// It leaves well-conditioned solutions untouched and keeps collinear feature
// sets solvable instead of singular.
const ridgeEps = 1e-10

// SolveLinearSystem solves A·x = b in place using Gaussian elimination with
// partial pivoting. A must be square; A and b are mutated.
func SolveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, errors.New(errors.ErrCodeModelTraining, "linear system dimensions do not match")
	}

	for col := 0; col < n; col++ {
		// Pivot on the largest remaining magnitude in this column.
		pivot := col
		best := math.Abs(a[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(a[r][col]); v > best {
				best = v
				pivot = r
			}
		}
		if best == 0 {
			return nil, errors.New(errors.ErrCodeModelTraining, "singular linear system")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		inv := 1.0 / a[col][col]
		for r := col + 1; r < n; r++ {
			factor := a[r][col] * inv
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	if !AllFinite(x) {
		return nil, errors.New(errors.ErrCodeModelTraining, "non-finite solution")
	}
	return x, nil
}

// LeastSquares solves min ‖X·β − y‖² via the ridge-stabilized normal
// equations and returns β. X is n×d; y length n.
func LeastSquares(x [][]float64, y []float64) ([]float64, error) {
	n := len(x)
	if n == 0 || len(y) != n {
		return nil, errors.New(errors.ErrCodeModelTraining, "least squares dimensions do not match")
	}
	d := len(x[0])

	// XᵀX with ridge diagonal, and Xᵀy.
	xtx := make([][]float64, d)
	for i := range xtx {
		xtx[i] = make([]float64, d)
	}
	xty := make([]float64, d)
	for r := 0; r < n; r++ {
		row := x[r]
		for i := 0; i < d; i++ {
			vi := row[i]
			if vi == 0 {
				continue
			}
			xty[i] += vi * y[r]
			for j := i; j < d; j++ {
				xtx[i][j] += vi * row[j]
			}
		}
	}
	for i := 0; i < d; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
		xtx[i][i] += ridgeEps
	}
	return SolveLinearSystem(xtx, xty)
}
