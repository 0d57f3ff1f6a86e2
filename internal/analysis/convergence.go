package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Rate is an exponential fit error(k) ≈ A·exp(-PerFrame·k).
type Rate struct {
	PerFrame float64
	// HalfLife is the number of frames that halves the error.
	HalfLife float64
	// RSquared measures how exponential the decay really is.
	RSquared float64
	Samples  int
}

// ConvergenceRate fits ln(error) against frame index by least squares.
// Samples at or below floor are left out, since they are converged frames
// rather than part of the decay. Fewer than two usable samples give a zero
// Rate.
func ConvergenceRate(frames []int, errors []float64, floor float64) Rate {
	xs := make([]float64, 0, len(errors))
	ys := make([]float64, 0, len(errors))
	for i, e := range errors {
		if i >= len(frames) {
			break
		}
		if e <= floor || math.IsNaN(e) || math.IsInf(e, 0) {
			continue
		}
		xs = append(xs, float64(frames[i]))
		ys = append(ys, math.Log(e))
	}
	if len(xs) < 2 {
		return Rate{Samples: len(xs)}
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r := Rate{
		PerFrame: -beta,
		RSquared: stat.RSquared(xs, ys, nil, alpha, beta),
		Samples:  len(xs),
	}
	if r.PerFrame > 0 {
		r.HalfLife = math.Ln2 / r.PerFrame
	} else {
		r.HalfLife = math.Inf(1)
	}
	return r
}
