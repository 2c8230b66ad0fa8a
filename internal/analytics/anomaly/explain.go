package anomaly

import (
	"math"
	"sort"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
)

// Deviation is one feature's standardized departure from the batch.
type Deviation struct {
	Feature string
	Value   float64
	ZScore  float64
}

// Explainer precomputes per-column batch statistics so flagged rows can be
// explained by their largest z-scores.
type Explainer struct {
	names []string
	means []float64
	stds  []float64
}

// NewExplainer builds column statistics from the original (unscaled) rows.
func NewExplainer(names []string, rows [][]float64) *Explainer {
	e := &Explainer{
		names: names,
		means: make([]float64, len(names)),
		stds:  make([]float64, len(names)),
	}
	col := make([]float64, len(rows))
	for j := range names {
		for i, row := range rows {
			col[i] = row[j]
		}
		e.means[j] = mathx.Mean(col)
		s := mathx.SampleStd(col)
		if s < mathx.EpsStd {
			s = mathx.EpsStd
		}
		e.stds[j] = s
	}
	return e
}

// Explain returns the top deviations of one row by absolute z-score.
func (e *Explainer) Explain(row []float64, top int) []Deviation {
	devs := make([]Deviation, len(e.names))
	for j, name := range e.names {
		devs[j] = Deviation{
			Feature: name,
			Value:   row[j],
			ZScore:  (row[j] - e.means[j]) / e.stds[j],
		}
	}
	sort.SliceStable(devs, func(a, b int) bool {
		return math.Abs(devs[a].ZScore) > math.Abs(devs[b].ZScore)
	})
	if top > len(devs) {
		top = len(devs)
	}
	return devs[:top]
}
