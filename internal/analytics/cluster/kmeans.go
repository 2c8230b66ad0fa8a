// Package cluster groups feature rows with k-means: k-means++ seeding,
// Lloyd iterations, and multiple restarts keeping the lowest-inertia run.
package cluster

import (
	"math"
	"math/rand"
	"sort"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

const (
	maxLloydIters = 300
	convergeTol   = 1e-6
)

// Result is one finished clustering: per-row assignments and the centroids
// that produced them, in the same feature space as the input rows.
type Result struct {
	K         int
	Labels    []int
	Centroids [][]float64
	Inertia   float64
	Sizes     []int
}

// ClampK bounds a requested cluster count to [1, n].
func ClampK(k, n int) int {
	if k < 1 {
		return 1
	}
	if k > n {
		return n
	}
	return k
}

// Fit clusters rows into k groups, running restarts independent seedings and
// keeping the best. rows must be non-empty and rectangular.
func Fit(rows [][]float64, k, restarts int, seed int64) (*Result, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.InsufficientData("k-means needs at least one row")
	}
	k = ClampK(k, n)
	if restarts < 1 {
		restarts = 1
	}

	rng := rand.New(rand.NewSource(seed))
	var best *Result
	for r := 0; r < restarts; r++ {
		res := runOnce(rows, k, rng)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}

	best.Sizes = make([]int, k)
	for _, c := range best.Labels {
		best.Sizes[c]++
	}
	return best, nil
}

func runOnce(rows [][]float64, k int, rng *rand.Rand) *Result {
	centroids := seedPlusPlus(rows, k, rng)
	n, d := len(rows), len(rows[0])
	labels := make([]int, n)

	var inertia float64
	for iter := 0; iter < maxLloydIters; iter++ {
		inertia = 0
		for i, row := range rows {
			c, dist := nearest(row, centroids)
			labels[i] = c
			inertia += dist
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, d)
		}
		for i, row := range rows {
			c := labels[i]
			counts[c]++
			for j, v := range row {
				next[c][j] += v
			}
		}

		var shift float64
		for c := range next {
			if counts[c] == 0 {
				// Empty cluster: reseed on the row farthest from its centroid.
				copy(next[c], rows[farthestRow(rows, labels, centroids)])
				counts[c] = 1
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
			shift += sqDist(next[c], centroids[c])
		}
		centroids = next
		if shift < convergeTol {
			break
		}
	}

	// Final assignment against the converged centroids.
	inertia = 0
	for i, row := range rows {
		c, dist := nearest(row, centroids)
		labels[i] = c
		inertia += dist
	}
	return &Result{K: k, Labels: labels, Centroids: centroids, Inertia: inertia}
}

// seedPlusPlus picks initial centroids with k-means++: first uniformly,
// then each next one with probability proportional to squared distance
// from the closest chosen centroid.
func seedPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(rows[rng.Intn(n)]))

	dists := make([]float64, n)
	for len(centroids) < k {
		var total float64
		last := centroids[len(centroids)-1]
		for i, row := range rows {
			d := sqDist(row, last)
			if len(centroids) == 1 || d < dists[i] {
				dists[i] = d
			}
			total += dists[i]
		}
		if total == 0 {
			centroids = append(centroids, cloneRow(rows[rng.Intn(n)]))
			continue
		}
		target := rng.Float64() * total
		idx := n - 1
		var cum float64
		for i, d := range dists {
			cum += d
			if cum >= target {
				idx = i
				break
			}
		}
		centroids = append(centroids, cloneRow(rows[idx]))
	}
	return centroids
}

func nearest(row []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, cent := range centroids {
		if d := sqDist(row, cent); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func farthestRow(rows [][]float64, labels []int, centroids [][]float64) int {
	best, bestDist := 0, -1.0
	for i, row := range rows {
		if d := sqDist(row, centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for j := range a {
		d := a[j] - b[j]
		s += d * d
	}
	return s
}

func cloneRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}

// TopFeature pairs a feature name with its centroid value.
type TopFeature struct {
	Name  string
	Value float64
}

// TopFeatures ranks one centroid's coordinates by absolute standardized
// magnitude and returns the strongest limit entries in original units.
// scaled is the centroid in standardized space, original the same centroid
// inverse-transformed.
func TopFeatures(names []string, scaled, original []float64, limit int) []TopFeature {
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(scaled[idx[a]]) > math.Abs(scaled[idx[b]])
	})
	if limit > len(idx) {
		limit = len(idx)
	}
	out := make([]TopFeature, 0, limit)
	for _, j := range idx[:limit] {
		out = append(out, TopFeature{Name: names[j], Value: original[j]})
	}
	return out
}

// InverseCentroids maps centroids from standardized space back to original
// feature units.
func InverseCentroids(s *mathx.Standardizer, centroids [][]float64) [][]float64 {
	out := make([][]float64, len(centroids))
	for i, c := range centroids {
		out[i] = s.Inverse(c)
	}
	return out
}
