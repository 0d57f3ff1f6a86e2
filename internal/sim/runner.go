package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/iksim/internal/ik"
)

// Runner drives a solver frame by frame without a display, standing in for
// the render loop.
type Runner struct {
	solver    *ik.Solver
	metrics   []Metric
	observers []Observer
}

func NewRunner(solver *ik.Solver) *Runner {
	return &Runner{
		solver:    solver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }
func (r *Runner) Solver() *ik.Solver     { return r.solver }

// Run steps the solver until cfg.Frames frames have run, the chain settles,
// or ctx is done. On cancellation the partial result is returned with
// ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, min(cfg.Frames/every+1, 4096)),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	settled := 0
	var f ik.Frame
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, f)
			return result, ctx.Err()
		default:
		}

		f = r.solver.StepFrame()
		result.FramesRun++

		for _, m := range r.metrics {
			m.Observe(f)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f)
		}

		if f.Status == ik.Converged {
			settled++
		} else {
			settled = 0
		}
		done := cfg.StopOnConverge && settled >= cfg.SettleFrames

		if i%every == 0 || done || i == cfg.Frames-1 {
			result.Samples = append(result.Samples, NewSample(f))
		}
		if done {
			break
		}
	}

	r.finish(result, f)
	return result, nil
}

func (r *Runner) finish(result *Result, last ik.Frame) {
	result.Final = last.Clone()
	result.Converged = last.Status == ik.Converged
	result.FinalError = r.solver.Distance()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps the solver until the callback returns false or ctx
// is done. The frame passed to the callback is only valid during the call.
func (r *Runner) RunWithCallback(ctx context.Context, callback func(ik.Frame) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(r.solver.StepFrame()) {
			return nil
		}
	}
}

func validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.StopOnConverge && cfg.SettleFrames <= 0 {
		return fmt.Errorf("settle frames must be positive when stopping on convergence, got %d", cfg.SettleFrames)
	}
	return nil
}
