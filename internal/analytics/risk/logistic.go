package risk

import "math"

const (
	learningRate = 0.5
	l2Penalty    = 1.0
	gradTol      = 1e-6
)

// LogisticModel is a binary logistic regression over sparse rows.
type LogisticModel struct {
	Weights   []float64
	Intercept float64
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// TrainLogistic fits by full-batch gradient descent on the weighted,
// L2-regularized log-loss. sampleWeight balances classes; maxIter bounds
// the descent. dim is the total feature dimension.
func TrainLogistic(rows []SparseVec, labels []int, sampleWeight []float64, dim, maxIter int) *LogisticModel {
	n := len(rows)
	w := make([]float64, dim)
	var b float64

	grad := make([]float64, dim)
	for iter := 0; iter < maxIter; iter++ {
		for j := range grad {
			grad[j] = l2Penalty * w[j]
		}
		var gradB float64
		for i := 0; i < n; i++ {
			z := b
			for j, x := range rows[i] {
				z += w[j] * x
			}
			resid := sampleWeight[i] * (sigmoid(z) - float64(labels[i]))
			for j, x := range rows[i] {
				grad[j] += resid * x
			}
			gradB += resid
		}

		step := learningRate / float64(n)
		var maxGrad float64
		for j := range w {
			w[j] -= step * grad[j]
			if g := math.Abs(grad[j]); g > maxGrad {
				maxGrad = g
			}
		}
		b -= step * gradB
		if math.Abs(gradB) > maxGrad {
			maxGrad = math.Abs(gradB)
		}
		if maxGrad < gradTol {
			break
		}
	}
	return &LogisticModel{Weights: w, Intercept: b}
}

// Prob returns the positive-class probability for one row.
func (m *LogisticModel) Prob(row SparseVec) float64 {
	z := m.Intercept
	for j, x := range row {
		z += m.Weights[j] * x
	}
	return sigmoid(z)
}

// BalancedWeights computes per-sample weights n/(k·n_c) for k observed
// classes, so each class contributes equally to the loss.
func BalancedWeights(labels []int) []float64 {
	counts := make(map[int]int)
	for _, y := range labels {
		counts[y]++
	}
	n := float64(len(labels))
	k := float64(len(counts))
	out := make([]float64, len(labels))
	for i, y := range labels {
		out[i] = n / (k * float64(counts[y]))
	}
	return out
}
