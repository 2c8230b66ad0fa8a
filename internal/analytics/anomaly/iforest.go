// Package anomaly isolates outlying feature rows with an isolation forest
// and explains each flagged row by its strongest z-score deviations.
package anomaly

import (
	"math"
	"math/rand"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

const defaultSubsample = 256

type treeNode struct {
	left, right *treeNode
	splitCol    int
	splitVal    float64
	size        int
}

// Forest is a fitted isolation forest.
type Forest struct {
	trees     []*treeNode
	subsample int
}

// harmonic approximates H(n) via ln(n) + Euler–Mascheroni.
func harmonic(n float64) float64 {
	return math.Log(n) + 0.5772156649
}

// avgPathLength is c(n), the expected unsuccessful-search path length in a
// BST of n nodes, used to normalize isolation depths.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	if n == 2 {
		return 1
	}
	f := float64(n)
	return 2*harmonic(f-1) - 2*(f-1)/f
}

// FitForest grows trees isolation trees over rows, each on a random
// subsample of at most defaultSubsample rows.
func FitForest(rows [][]float64, trees int, seed int64) (*Forest, error) {
	n := len(rows)
	if n < 2 {
		return nil, errors.InsufficientData("isolation forest needs >= 2 rows, have %d", n)
	}
	if trees < 1 {
		trees = 1
	}
	sub := defaultSubsample
	if sub > n {
		sub = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sub))))

	rng := rand.New(rand.NewSource(seed))
	f := &Forest{trees: make([]*treeNode, trees), subsample: sub}
	for t := range f.trees {
		sample := make([][]float64, sub)
		for i := range sample {
			sample[i] = rows[rng.Intn(n)]
		}
		f.trees[t] = growTree(sample, 0, maxDepth, rng)
	}
	return f, nil
}

func growTree(rows [][]float64, depth, maxDepth int, rng *rand.Rand) *treeNode {
	n := len(rows)
	if n <= 1 || depth >= maxDepth {
		return &treeNode{size: n}
	}

	d := len(rows[0])
	// Try a handful of random columns for one with spread; constant
	// subsamples terminate as leaves.
	for attempt := 0; attempt < d; attempt++ {
		col := rng.Intn(d)
		lo, hi := rows[0][col], rows[0][col]
		for _, row := range rows[1:] {
			if row[col] < lo {
				lo = row[col]
			}
			if row[col] > hi {
				hi = row[col]
			}
		}
		if hi <= lo {
			continue
		}
		split := lo + rng.Float64()*(hi-lo)
		var left, right [][]float64
		for _, row := range rows {
			if row[col] < split {
				left = append(left, row)
			} else {
				right = append(right, row)
			}
		}
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		return &treeNode{
			splitCol: col,
			splitVal: split,
			size:     n,
			left:     growTree(left, depth+1, maxDepth, rng),
			right:    growTree(right, depth+1, maxDepth, rng),
		}
	}
	return &treeNode{size: n}
}

func pathLength(node *treeNode, row []float64, depth float64) float64 {
	if node.left == nil {
		return depth + avgPathLength(node.size)
	}
	if row[node.splitCol] < node.splitVal {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// Score returns the anomaly score in (0,1) for one row: 2^(-E[h(x)]/c(ψ)).
// Higher means more isolated.
func (f *Forest) Score(row []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += pathLength(t, row, 0)
	}
	avg := sum / float64(len(f.trees))
	return math.Pow(2, -avg/avgPathLength(f.subsample))
}

// Scores evaluates every row.
func (f *Forest) Scores(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = f.Score(row)
	}
	return out
}

// ValidateContamination bounds the expected outlier fraction to the open
// interval (0, 0.5).
func ValidateContamination(c float64) error {
	if c <= 0 || c >= 0.5 {
		return errors.InvalidParam("contamination must be in (0, 0.5), got %g", c)
	}
	return nil
}

// Flag marks the top contamination fraction of scores as anomalous via the
// (1-contamination) quantile. At least one row is flagged.
func Flag(scores []float64, contamination float64) []bool {
	threshold := mathx.Quantile(scores, 1-contamination)

	out := make([]bool, len(scores))
	flagged := 0
	for i, s := range scores {
		if s >= threshold {
			out[i] = true
			flagged++
		}
	}
	if flagged == 0 && len(scores) > 0 {
		best, bestScore := 0, math.Inf(-1)
		for i, s := range scores {
			if s > bestScore {
				best, bestScore = i, s
			}
		}
		out[best] = true
	}
	return out
}
