package recon

import (
	"sort"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// varianceEps is the standard-deviation floor below which a feature column
// is treated as constant and dropped before training.
const varianceEps = 1e-8

// RowScore is one row's reconstruction result: the raw mean squared error
// and its min-max normalized score across the batch.
type RowScore struct {
	Index int
	MSE   float64
	Score float64
}

// Detector runs the full reconstruction pipeline over a feature matrix.
type Detector struct {
	selector  *Selector
	maxEpochs int
	seed      int64
}

// NewDetector wires a backend selector with the training bounds.
func NewDetector(selector *Selector, maxEpochs int, seed int64) *Detector {
	return &Detector{selector: selector, maxEpochs: maxEpochs, seed: seed}
}

// Detect drops zero-variance columns, standardizes the rest, trains the
// selected backend, and returns rows ranked by descending normalized error.
// top bounds the result size; top <= 0 returns every row. The clamped
// hyperparameters are returned alongside so callers can echo them.
func (d *Detector) Detect(m feature.Matrix, hp Hyper, top int) ([]RowScore, string, Hyper, error) {
	if m.NumRows() < 2 {
		return nil, "", hp, errors.InsufficientData("reconstruction needs >= 2 rows, have %d", m.NumRows())
	}

	kept := m.DropZeroVariance(varianceEps)
	if kept.NumCols() == 0 {
		return nil, "", hp, errors.DegenerateTarget("all features are constant")
	}

	hp.Seed = d.seed
	hp = hp.Clamp(kept.NumCols(), d.maxEpochs)

	scaler := mathx.FitStandardizer(kept.Rows, true)
	scaled := scaler.Transform(kept.Rows)

	backend := d.selector.Backend()
	model, err := backend.Fit(scaled, hp)
	if err != nil {
		return nil, backend.Name(), hp, err
	}

	mse := make([]float64, len(scaled))
	for i, row := range scaled {
		rebuilt := model.Reconstruct(row)
		var sum float64
		for j := range row {
			diff := rebuilt[j] - row[j]
			sum += diff * diff
		}
		mse[i] = sum / float64(len(row))
	}

	norm := mathx.MinMaxNormalize(mse)
	scores := make([]RowScore, len(mse))
	for i := range mse {
		scores[i] = RowScore{Index: i, MSE: mse[i], Score: norm[i]}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].MSE > scores[b].MSE })
	if top > 0 && top < len(scores) {
		scores = scores[:top]
	}
	return scores, backend.Name(), hp, nil
}
