// Package recon scores rows by reconstruction error: a model compresses each
// row through a bottleneck and rebuilds it, and rows the model rebuilds
// poorly are reported as anomalous. Two interchangeable backends exist — a
// trained neural autoencoder and a linear projection fallback — picked by a
// one-time capability probe when the configuration says "auto".
package recon

import (
	"sync"

	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// Backend names accepted by the configuration.
const (
	BackendAuto       = "auto"
	BackendNeural     = "neural"
	BackendRegression = "regression"
)

// Reconstructor rebuilds a row from its compressed representation.
type Reconstructor interface {
	Reconstruct(row []float64) []float64
}

// Hyper bounds one training run. Zero Hidden or Bottleneck derive their
// sizes from the input width.
type Hyper struct {
	Hidden       int
	Bottleneck   int
	Epochs       int
	LearningRate float64
	Seed         int64
}

// Clamp bounds the hyperparameters for an input of width d, filling derived
// defaults: hidden = d/2 (min 2), bottleneck = hidden/2 (min 1). maxEpochs
// caps the caller-requested epochs.
func (h Hyper) Clamp(d, maxEpochs int) Hyper {
	if h.Hidden < 2 {
		h.Hidden = d / 2
		if h.Hidden < 2 {
			h.Hidden = 2
		}
	}
	if h.Bottleneck < 1 {
		h.Bottleneck = h.Hidden / 2
		if h.Bottleneck < 1 {
			h.Bottleneck = 1
		}
	}
	if h.Bottleneck > h.Hidden {
		h.Bottleneck = h.Hidden
	}
	if h.Epochs < 1 {
		h.Epochs = maxEpochs
	}
	if h.Epochs > maxEpochs {
		h.Epochs = maxEpochs
	}
	if h.LearningRate <= 0 || h.LearningRate > 1 {
		h.LearningRate = defaultLearningRate
	}
	return h
}

// Backend trains a Reconstructor on standardized rows.
type Backend interface {
	Name() string
	Fit(rows [][]float64, hp Hyper) (Reconstructor, error)
}

// Selector resolves the configured backend name once and caches the result,
// so the probe runs a single time per process.
type Selector struct {
	configured string

	once     sync.Once
	resolved Backend
}

// NewSelector validates the configured backend name.
func NewSelector(configured string) (*Selector, error) {
	switch configured {
	case BackendAuto, BackendNeural, BackendRegression:
		return &Selector{configured: configured}, nil
	default:
		return nil, errors.InvalidParam("unknown reconstruction backend %q", configured)
	}
}

// Backend returns the resolved backend, probing on first use. "auto" tries
// a tiny neural fit and falls back to the linear backend if that fails.
func (s *Selector) Backend() Backend {
	s.once.Do(func() {
		switch s.configured {
		case BackendNeural:
			s.resolved = &NeuralBackend{}
		case BackendRegression:
			s.resolved = &RegressionBackend{}
		default:
			s.resolved = probeNeural()
		}
	})
	return s.resolved
}

// probeNeural fits a miniature autoencoder on synthetic rows; any failure
// selects the linear fallback instead.
func probeNeural() Backend {
	probe := [][]float64{{0, 1}, {1, 0}, {0.5, 0.5}, {1, 1}}
	nb := &NeuralBackend{}
	if _, err := nb.Fit(probe, Hyper{Epochs: 5, LearningRate: defaultLearningRate}.Clamp(2, 5)); err != nil {
		return &RegressionBackend{}
	}
	return nb
}
