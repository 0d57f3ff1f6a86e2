package sim

import (
	"context"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/iksim/internal/ik"
)

// SweepResult is the outcome of solving one target from the rest pose.
type SweepResult struct {
	Target     mgl64.Vec2
	Reachable  bool
	Converged  bool
	Frames     int
	FinalError float64
}

// Sweep solves every target with its own solver, spreading the targets over
// workers goroutines. Solvers share nothing; results keep the order of
// targets.
func Sweep(ctx context.Context, solverCfg ik.SolverConfig, runCfg Config, targets []mgl64.Vec2, workers int) ([]SweepResult, error) {
	if err := validateConfig(runCfg); err != nil {
		return nil, err
	}
	// Fail before spawning anything.
	probe, err := ik.NewSolver(solverCfg)
	if err != nil {
		return nil, err
	}
	reach := probe.Reach()

	runCfg.SampleEvery = math.MaxInt
	results := make([]SweepResult, len(targets))
	errs := make([]error, len(targets))

	ParallelFor(len(targets), workers, func(start, end int) {
		for i := start; i < end; i++ {
			s, err := ik.NewSolver(solverCfg)
			if err != nil {
				errs[i] = err
				return
			}
			t := targets[i]
			s.SetTarget(t.X(), t.Y())

			res, err := NewRunner(s).Run(ctx, runCfg)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = SweepResult{
				Target:     t,
				Reachable:  t.Len() <= reach,
				Converged:  res.Converged,
				Frames:     res.FramesRun,
				FinalError: res.FinalError,
			}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// GridTargets lays an n x n grid over the square [-extent, extent]².
func GridTargets(extent float64, n int) []mgl64.Vec2 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []mgl64.Vec2{{0, 0}}
	}
	out := make([]mgl64.Vec2, 0, n*n)
	step := 2 * extent / float64(n-1)
	for row := 0; row < n; row++ {
		y := extent - float64(row)*step
		for col := 0; col < n; col++ {
			out = append(out, mgl64.Vec2{-extent + float64(col)*step, y})
		}
	}
	return out
}

// RingTargets places n targets evenly on a circle of the given radius.
func RingTargets(radius float64, n int) []mgl64.Vec2 {
	if n < 1 {
		return nil
	}
	out := make([]mgl64.Vec2, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = mgl64.Vec2{radius * math.Cos(a), radius * math.Sin(a)}
	}
	return out
}

// ParallelFor splits [0, n) into contiguous chunks over at most workers goroutines.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
