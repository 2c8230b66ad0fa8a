package recon

import (
	"math"
	"math/rand"

	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

const (
	defaultLearningRate = 0.01
	adamBeta1           = 0.9
	adamBeta2           = 0.999
	adamEps             = 1e-8
	lossTol             = 1e-9
)

// NeuralBackend trains a symmetric d→h→b→h→d autoencoder with ReLU hidden
// activations, full-batch Adam on mean squared error.
type NeuralBackend struct{}

func (NeuralBackend) Name() string { return BackendNeural }

// layer is one dense layer with Adam moment state per parameter.
type layer struct {
	in, out int
	w       []float64 // out×in, row-major
	b       []float64

	mw, vw []float64
	mb, vb []float64
}

func newLayer(in, out int, rng *rand.Rand) *layer {
	l := &layer{
		in: in, out: out,
		w:  make([]float64, out*in),
		b:  make([]float64, out),
		mw: make([]float64, out*in),
		vw: make([]float64, out*in),
		mb: make([]float64, out),
		vb: make([]float64, out),
	}
	// Glorot-uniform initialization.
	limit := math.Sqrt(6 / float64(in+out))
	for i := range l.w {
		l.w[i] = (rng.Float64()*2 - 1) * limit
	}
	return l
}

func (l *layer) forward(x []float64) []float64 {
	out := make([]float64, l.out)
	for o := 0; o < l.out; o++ {
		sum := l.b[o]
		row := l.w[o*l.in : (o+1)*l.in]
		for i, v := range x {
			sum += row[i] * v
		}
		out[o] = sum
	}
	return out
}

func relu(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if x > 0 {
			out[i] = x
		}
	}
	return out
}

// autoencoder holds the four dense layers of the symmetric network.
type autoencoder struct {
	layers []*layer // enc1, enc2, dec1, dec2
	lr     float64
}

// Reconstruct runs one standardized row through the network.
func (a *autoencoder) Reconstruct(row []float64) []float64 {
	h := relu(a.layers[0].forward(row))
	code := relu(a.layers[1].forward(h))
	h2 := relu(a.layers[2].forward(code))
	return a.layers[3].forward(h2)
}

// Fit trains the autoencoder on rows for up to hp.Epochs full-batch Adam
// steps, stopping early once the loss stops improving.
func (NeuralBackend) Fit(rows [][]float64, hp Hyper) (Reconstructor, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.InsufficientData("autoencoder needs at least one row")
	}
	d := len(rows[0])

	rng := rand.New(rand.NewSource(hp.Seed))
	net := &autoencoder{
		layers: []*layer{
			newLayer(d, hp.Hidden, rng),
			newLayer(hp.Hidden, hp.Bottleneck, rng),
			newLayer(hp.Bottleneck, hp.Hidden, rng),
			newLayer(hp.Hidden, d, rng),
		},
		lr: hp.LearningRate,
	}

	prevLoss := math.Inf(1)
	for epoch := 1; epoch <= hp.Epochs; epoch++ {
		loss := net.trainEpoch(rows, epoch)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, errors.New(errors.ErrCodeModelTraining, "autoencoder loss diverged")
		}
		if math.Abs(prevLoss-loss) < lossTol {
			break
		}
		prevLoss = loss
	}
	return net, nil
}

// trainEpoch does one full-batch forward/backward pass and an Adam update,
// returning the mean squared reconstruction error.
func (a *autoencoder) trainEpoch(rows [][]float64, step int) float64 {
	n := len(rows)
	grads := make([]*layerGrad, len(a.layers))
	for i, l := range a.layers {
		grads[i] = newLayerGrad(l)
	}

	var total float64
	for _, x := range rows {
		// Forward, keeping pre- and post-activation per layer.
		acts := make([][]float64, len(a.layers)+1)
		pre := make([][]float64, len(a.layers))
		acts[0] = x
		for li, l := range a.layers {
			pre[li] = l.forward(acts[li])
			if li < len(a.layers)-1 {
				acts[li+1] = relu(pre[li])
			} else {
				acts[li+1] = pre[li]
			}
		}

		out := acts[len(acts)-1]
		delta := make([]float64, len(out))
		for j := range out {
			diff := out[j] - x[j]
			total += diff * diff
			// d/dŷ of mean-over-elements squared error.
			delta[j] = 2 * diff / float64(len(out))
		}

		for li := len(a.layers) - 1; li >= 0; li-- {
			l := a.layers[li]
			g := grads[li]
			input := acts[li]
			for o := 0; o < l.out; o++ {
				dv := delta[o]
				g.b[o] += dv
				row := g.w[o*l.in : (o+1)*l.in]
				for i, v := range input {
					row[i] += dv * v
				}
			}
			if li > 0 {
				next := make([]float64, l.in)
				for i := 0; i < l.in; i++ {
					var sum float64
					for o := 0; o < l.out; o++ {
						sum += l.w[o*l.in+i] * delta[o]
					}
					if pre[li-1][i] > 0 {
						next[i] = sum
					}
				}
				delta = next
			}
		}
	}

	scale := 1 / float64(n)
	for li, l := range a.layers {
		l.adamUpdate(grads[li], scale, step, a.lr)
	}
	return total / float64(n*len(rows[0]))
}

type layerGrad struct {
	w, b []float64
}

func newLayerGrad(l *layer) *layerGrad {
	return &layerGrad{w: make([]float64, len(l.w)), b: make([]float64, len(l.b))}
}

func (l *layer) adamUpdate(g *layerGrad, scale float64, step int, lr float64) {
	c1 := 1 - math.Pow(adamBeta1, float64(step))
	c2 := 1 - math.Pow(adamBeta2, float64(step))
	for i := range l.w {
		grad := g.w[i] * scale
		l.mw[i] = adamBeta1*l.mw[i] + (1-adamBeta1)*grad
		l.vw[i] = adamBeta2*l.vw[i] + (1-adamBeta2)*grad*grad
		l.w[i] -= lr * (l.mw[i] / c1) / (math.Sqrt(l.vw[i]/c2) + adamEps)
	}
	for i := range l.b {
		grad := g.b[i] * scale
		l.mb[i] = adamBeta1*l.mb[i] + (1-adamBeta1)*grad
		l.vb[i] = adamBeta2*l.vb[i] + (1-adamBeta2)*grad*grad
		l.b[i] -= lr * (l.mb[i] / c1) / (math.Sqrt(l.vb[i]/c2) + adamEps)
	}
}
