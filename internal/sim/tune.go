package sim

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/iksim/internal/ik"
)

// TuneResult scores one step size on one target.
type TuneResult struct {
	StepSize   float64
	Converged  bool
	Frames     int
	FinalError float64
	// Monotonic is false if the error ever grew between stepped frames,
	// the usual sign of a step size too large for the chain's scale.
	Monotonic bool
	PeakError float64
}

// TuneStepSize runs the same target once per candidate step size and
// returns the results together with the index of the best candidate: the
// monotonic, converged run with the fewest frames, or -1 if none qualifies.
func TuneStepSize(ctx context.Context, base ik.SolverConfig, target mgl64.Vec2, steps []float64, frames int) ([]TuneResult, int, error) {
	results := make([]TuneResult, 0, len(steps))
	best := -1

	for _, step := range steps {
		cfg := base
		cfg.StepSize = step
		s, err := ik.NewSolver(cfg)
		if err != nil {
			return nil, -1, err
		}
		s.SetTarget(target.X(), target.Y())

		res, err := NewRunner(s).Run(ctx, Config{Frames: frames, StopOnConverge: true, SettleFrames: 1, SampleEvery: 1})
		if err != nil {
			return results, best, err
		}

		errs := res.Errors()
		tr := TuneResult{
			StepSize:   step,
			Converged:  res.Converged,
			Frames:     res.FramesRun,
			FinalError: res.FinalError,
			Monotonic:  nonIncreasing(errs, 1e-12),
		}
		if len(errs) > 0 {
			tr.PeakError = floats.Max(errs)
		}
		if math.IsNaN(tr.FinalError) || math.IsInf(tr.FinalError, 0) {
			tr.Monotonic = false
		}

		results = append(results, tr)
		if tr.Converged && tr.Monotonic && (best < 0 || tr.Frames < results[best].Frames) {
			best = len(results) - 1
		}
	}

	return results, best, nil
}

func nonIncreasing(xs []float64, tol float64) bool {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] <= xs[i-1]+tol) {
			return false
		}
	}
	return true
}

// LogSpace returns n values spaced evenly in log10 between lo and hi.
func LogSpace(lo, hi float64, n int) []float64 {
	if n <= 0 || lo <= 0 || hi <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	floats.LogSpan(out, lo, hi)
	return out
}
