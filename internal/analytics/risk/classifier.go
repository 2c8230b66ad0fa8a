package risk

import (
	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// MinTrainRows is the labeled-row gate below which the heuristic scorer is
// used instead of a trained model.
const MinTrainRows = 5

// Tier is the coarse risk bucket derived from a probability.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// TierFor buckets a risk probability: HIGH at or above 0.66, MEDIUM at or
// above 0.33, LOW otherwise.
func TierFor(p float64) Tier {
	switch {
	case p >= 0.66:
		return TierHigh
	case p >= 0.33:
		return TierMedium
	default:
		return TierLow
	}
}

// HeuristicRisk scores a deadline from its due distance alone:
// 1/(1+exp(0.5·days)). Past-due deadlines approach 1, far-future ones
// approach 0. Unknown due dates sit at 0.5.
func HeuristicRisk(daysToDue *int) float64 {
	if daysToDue == nil {
		return 0.5
	}
	return sigmoid(-0.5 * float64(*daysToDue))
}

// Model is a trained risk scorer: TF-IDF text block plus scale-only
// standardized numeric block into a logistic regression.
type Model struct {
	vec    *Vectorizer
	scaler *mathx.Standardizer
	lr     *LogisticModel
	numDim int
}

// combine builds the sparse row for one sample: text columns first, then
// the scaled numeric block offset by the vocabulary size.
func (m *Model) combine(text string, numeric []float64) SparseVec {
	row := m.vec.Transform(text)
	scaled := m.scaler.TransformRow(numeric)
	base := m.vec.Size()
	for j, v := range scaled {
		if v != 0 {
			row[base+j] = v
		}
	}
	return row
}

// Train fits the model on labeled samples. texts, numeric and labels are
// parallel. It fails with an insufficient-data error below MinTrainRows and
// with a degenerate-target error when only one class is present.
func Train(texts []string, numeric [][]float64, labels []int, maxIter int) (*Model, error) {
	n := len(labels)
	if n < MinTrainRows {
		return nil, errors.InsufficientData("risk training needs >= %d labeled deadlines, have %d", MinTrainRows, n)
	}
	if mathx.DistinctCount(intsToFloats(labels)) < 2 {
		return nil, errors.DegenerateTarget("risk labels are single-class, nothing to separate")
	}

	m := &Model{
		vec: FitVectorizer(texts),
		// Scale-only standardization keeps the concatenated row sparse.
		scaler: mathx.FitStandardizer(numeric, false),
	}
	if len(numeric) > 0 {
		m.numDim = len(numeric[0])
	}

	rows := make([]SparseVec, n)
	for i := range texts {
		rows[i] = m.combine(texts[i], numeric[i])
	}
	m.lr = TrainLogistic(rows, labels, BalancedWeights(labels), m.vec.Size()+m.numDim, maxIter)
	return m, nil
}

// Score returns the risk probability for one sample.
func (m *Model) Score(text string, numeric []float64) float64 {
	return m.lr.Prob(m.combine(text, numeric))
}

func intsToFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
