package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/iksim/internal/config"
	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/metrics"
	"github.com/san-kum/iksim/internal/sim"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}

	var targets []mgl64.Vec2
	if ringR > 0 {
		targets = sim.RingTargets(ringR, ringN)
	} else {
		targets = sim.GridTargets(solver.Reach(), gridN)
	}
	if len(targets) == 0 {
		return fmt.Errorf("no targets to sweep")
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger.Info("sweeping", zap.String("chain", cfg.Chain), zap.Int("targets", len(targets)), zap.Int("workers", workers))
	start := time.Now()
	results, err := sim.Sweep(cmd.Context(), cfg.SolverConfig(), sim.Config{
		Frames:         cfg.Frames,
		StopOnConverge: true,
		SettleFrames:   max(cfg.Settle, 1),
	}, targets, workers)
	if err != nil {
		return err
	}
	logger.Info("sweep finished", zap.Duration("elapsed", elapsedSince(start)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tREACHABLE\tCONVERGED\tFRAMES\tERROR")
	var (
		reachable, converged int
		frameCounts          []float64
	)
	for _, r := range results {
		fmt.Fprintf(w, "(%.2f, %.2f)\t%v\t%v\t%d\t%.3g\n", r.Target.X(), r.Target.Y(), r.Reachable, r.Converged, r.Frames, r.FinalError)
		if r.Reachable {
			reachable++
			if r.Converged {
				converged++
				frameCounts = append(frameCounts, float64(r.Frames))
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nreachable targets converged: %d/%d\n", converged, reachable)
	if len(frameCounts) > 0 {
		mean, std := stat.MeanStdDev(frameCounts, nil)
		fmt.Printf("frames to converge: mean %.0f, std %.0f\n", mean, std)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := sim.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}

	runner := sim.NewRunner(solver)
	for _, m := range metrics.Default(cfg.StepSize) {
		runner.AddMetric(m)
	}

	logger.Info("running scenario", zap.String("name", sc.Name), zap.Int("steps", len(sc.Steps)))
	outcomes, err := sim.RunScenario(cmd.Context(), runner, sc, cfg.Settle)
	if err != nil {
		return err
	}

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLABEL\tTARGET\tFRAMES\tCONVERGED\tERROR\tTRAVEL")
	for _, o := range outcomes {
		st := sc.Steps[o.Step-1]
		target := fmt.Sprintf("(%.2f, %.2f)", st.X, st.Y)
		if st.Clear {
			target = "cleared"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%v\t%.3g\t%.4f\n",
			o.Step, o.Label, target, o.Result.FramesRun, o.Result.Converged, o.Result.FinalError, o.Result.Metrics["joint_travel"])
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireTarget(cfg); err != nil {
		return err
	}

	steps := sim.LogSpace(tuneMin, tuneMax, tuneCount)
	if len(steps) == 0 {
		return fmt.Errorf("invalid step range [%g, %g] x %d", tuneMin, tuneMax, tuneCount)
	}

	target := mgl64.Vec2{cfg.Target.X, cfg.Target.Y}
	fmt.Printf("tuning step size for %s toward (%.2f, %.2f), %d frames each\n\n", cfg.Chain, target.X(), target.Y(), tuneFrames)

	results, best, err := sim.TuneStepSize(cmd.Context(), cfg.SolverConfig(), target, steps, tuneFrames)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCONVERGED\tFRAMES\tMONOTONIC\tPEAK\tERROR\t")
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "<- best"
		}
		fmt.Fprintf(w, "%.3g\t%v\t%d\t%v\t%.3g\t%.3g\t%s\n", r.StepSize, r.Converged, r.Frames, r.Monotonic, r.PeakError, r.FinalError, mark)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best < 0 {
		fmt.Println("\nno step size converged monotonically; widen the range or raise --frames")
	}
	return nil
}

func benchChains(cmd *cobra.Command, args []string) error {
	fmt.Printf("benchmarking %d frames per chain\n\n", benchFrames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tJOINTS\tFRAMES\tTIME\tFRAMES/SEC")
	for _, name := range config.ListChains() {
		cfg := config.DefaultConfig()
		cfg.Lengths = config.Chains[name]
		cfg.Joints = len(cfg.Lengths)
		solver, err := ik.NewSolver(cfg.SolverConfig())
		if err != nil {
			return err
		}
		// A target on the far side keeps the chain stepping.
		solver.SetTarget(-solver.Reach()*0.5, solver.Reach()*0.5)

		ran := 0
		start := time.Now()
		err = sim.NewRunner(solver).RunWithCallback(cmd.Context(), func(ik.Frame) bool {
			ran++
			return ran < benchFrames
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			name, solver.Chain().Len(), ran, elapsed.Round(time.Microsecond), float64(ran)/elapsed.Seconds())
	}
	return w.Flush()
}
