package recon

import (
	"math/rand"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// RegressionBackend is the linear fallback: rows are compressed through a
// fixed random Gaussian projection and rebuilt by a least-squares decoder
// fitted per output column. No iterative training is involved, so it always
// succeeds on well-formed input.
type RegressionBackend struct{}

func (RegressionBackend) Name() string { return BackendRegression }

type linearRecon struct {
	projection [][]float64 // bottleneck×d
	decoder    [][]float64 // d rows of (bottleneck+1) coefficients, last is intercept
	bottleneck int
}

func (r *linearRecon) encode(row []float64) []float64 {
	code := make([]float64, r.bottleneck+1)
	for k := 0; k < r.bottleneck; k++ {
		var sum float64
		for j, v := range row {
			sum += r.projection[k][j] * v
		}
		code[k] = sum
	}
	code[r.bottleneck] = 1 // intercept column
	return code
}

func (r *linearRecon) Reconstruct(row []float64) []float64 {
	code := r.encode(row)
	out := make([]float64, len(r.decoder))
	for j, beta := range r.decoder {
		var sum float64
		for k, c := range code {
			sum += beta[k] * c
		}
		out[j] = sum
	}
	return out
}

// Fit projects rows to the bottleneck width and fits the linear decoder by
// least squares, one output column at a time. Epochs and learning rate do
// not apply here.
func (RegressionBackend) Fit(rows [][]float64, hp Hyper) (Reconstructor, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.InsufficientData("reconstruction needs at least one row")
	}
	d := len(rows[0])
	bottleneck := hp.Bottleneck
	if bottleneck > d {
		bottleneck = d
	}

	rng := rand.New(rand.NewSource(hp.Seed))
	r := &linearRecon{
		projection: make([][]float64, bottleneck),
		bottleneck: bottleneck,
	}
	for k := range r.projection {
		r.projection[k] = make([]float64, d)
		for j := range r.projection[k] {
			r.projection[k][j] = rng.NormFloat64()
		}
	}

	codes := make([][]float64, n)
	for i, row := range rows {
		codes[i] = r.encode(row)
	}

	r.decoder = make([][]float64, d)
	y := make([]float64, n)
	for j := 0; j < d; j++ {
		for i, row := range rows {
			y[i] = row[j]
		}
		beta, err := mathx.LeastSquares(codes, y)
		if err != nil {
			return nil, err
		}
		r.decoder[j] = beta
	}
	return r, nil
}
