package mathx

import "math"

// Standardizer is the fitted zero-mean/unit-variance transform shared by the
// models. When WithMean is false only the variance scaling is applied, which
// keeps sparse text blocks sparse when numerics are concatenated with them.
// Zero-variance columns scale by 1 so the transform never divides by zero
// and the inverse stays exact.
type Standardizer struct {
	Mean     []float64
	Scale    []float64
	WithMean bool
}

// FitStandardizer computes per-column mean and scale over rows. Columns with
// population std below EpsStd get scale 1.
func FitStandardizer(rows [][]float64, withMean bool) *Standardizer {
	if len(rows) == 0 {
		return &Standardizer{WithMean: withMean}
	}
	cols := len(rows[0])
	n := float64(len(rows))
	mean := make([]float64, cols)
	scale := make([]float64, cols)

	for j := 0; j < cols; j++ {
		var sum float64
		for _, r := range rows {
			sum += r[j]
		}
		mean[j] = sum / n
	}
	for j := 0; j < cols; j++ {
		var sumSq float64
		for _, r := range rows {
			d := r[j] - mean[j]
			sumSq += d * d
		}
		sd := math.Sqrt(sumSq / n)
		if sd < EpsStd {
			sd = 1
		}
		scale[j] = sd
	}
	return &Standardizer{Mean: mean, Scale: scale, WithMean: withMean}
}

// Transform returns the standardized copy of rows.
func (s *Standardizer) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		row := make([]float64, len(r))
		for j, v := range r {
			if s.WithMean {
				v -= s.Mean[j]
			}
			row[j] = v / s.Scale[j]
		}
		out[i] = row
	}
	return out
}

// TransformRow standardizes a single row.
func (s *Standardizer) TransformRow(r []float64) []float64 {
	row := make([]float64, len(r))
	for j, v := range r {
		if s.WithMean {
			v -= s.Mean[j]
		}
		row[j] = v / s.Scale[j]
	}
	return row
}

// Inverse maps a standardized row back to original feature units.
func (s *Standardizer) Inverse(r []float64) []float64 {
	row := make([]float64, len(r))
	for j, v := range r {
		v *= s.Scale[j]
		if s.WithMean {
			v += s.Mean[j]
		}
		row[j] = v
	}
	return row
}
