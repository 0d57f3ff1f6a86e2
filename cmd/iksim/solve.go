package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/iksim/internal/config"
	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/metrics"
	"github.com/san-kum/iksim/internal/sim"
	"github.com/san-kum/iksim/internal/storage"
	"github.com/san-kum/iksim/internal/viz"
)

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func newSolver(cfg *config.Config) (*ik.Solver, error) {
	solver, err := ik.NewSolver(cfg.SolverConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build solver: %w", err)
	}
	return solver, nil
}

func requireTarget(cfg *config.Config) error {
	if cfg.Target == nil {
		return errors.New("no target: use --x/--y, a preset or a config file")
	}
	return nil
}

// progressLogger reports the solve at debug level every interval frames.
type progressLogger struct {
	log      *zap.Logger
	interval int
}

func (p progressLogger) OnFrame(f ik.Frame) {
	if f.Index > 0 && f.Index%p.interval == 0 {
		p.log.Debug("progress",
			zap.Int("frame", f.Index),
			zap.Stringer("status", f.Status),
			zap.Float64("error", f.Error),
		)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireTarget(cfg); err != nil {
		return err
	}

	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}
	solver.SetTarget(cfg.Target.X, cfg.Target.Y)

	runner := sim.NewRunner(solver)
	for _, m := range metrics.Default(cfg.StepSize) {
		runner.AddMetric(m)
	}

	log := logger.With(zap.String("chain", cfg.Chain))
	runner.AddObserver(progressLogger{log: log, interval: 10000})
	log.Info("solving",
		zap.Float64("x", cfg.Target.X),
		zap.Float64("y", cfg.Target.Y),
		zap.Float64("step_size", cfg.StepSize),
		zap.Int("frames", cfg.Frames),
	)

	start := time.Now()
	result, err := runner.Run(cmd.Context(), sim.Config{
		Frames:         cfg.Frames,
		StopOnConverge: true,
		SettleFrames:   max(cfg.Settle, 1),
		SampleEvery:    sampleEvery,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		log.Warn("solve interrupted", zap.Int("frames", result.FramesRun))
	}
	elapsed := elapsedSince(start)
	log.Info("solve finished",
		zap.Int("frames", result.FramesRun),
		zap.Bool("converged", result.Converged),
		zap.Float64("final_error", result.FinalError),
		zap.Duration("elapsed", elapsed),
	)

	if !noSave {
		st := openStore()
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunInfo{
			Chain:     cfg.Chain,
			Lengths:   cfg.Lengths,
			StepSize:  cfg.StepSize,
			Threshold: cfg.Threshold,
			TargetX:   cfg.Target.X,
			TargetY:   cfg.Target.Y,
		}, result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", result.FramesRun)
	fmt.Printf("converged: %v\n", result.Converged)
	fmt.Printf("final error: %.6g\n", result.FinalError)
	if d := solver.Target().Len(); d > solver.Reach() {
		fmt.Printf("target lies outside reach (%.3f > %.3f)\n", d, solver.Reach())
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}
	logger.Debug("starting live view", zap.String("chain", cfg.Chain))
	return viz.RunLive(viz.NewModel(solver, cfg, logger.Named("live")))
}
