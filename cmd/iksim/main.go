package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/iksim/internal/config"
	"github.com/san-kum/iksim/internal/logging"
	"github.com/san-kum/iksim/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	chainName  string
	preset     string
	lengths    []float64
	stepSize   float64
	threshold  float64
	targetX    float64
	targetY    float64
	frames     int
	settle     int
	// Trace sampling for solve
	sampleEvery int
	noSave      bool
	// Live view
	frameRate     int
	framesPerTick int
	theme         string
	// Sweep
	gridN   int
	ringR   float64
	ringN   int
	workers int
	// Tune
	tuneMin    float64
	tuneMax    float64
	tuneCount  int
	tuneFrames int
	// Analyze
	perturbation float64
	// Bench
	benchFrames int
	// Export
	outFile string
	svgMode string
	svgSize int

	logger = zap.NewNop()
)

// main registers the commands and runs the live view when no subcommand is
// given. It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "iksim",
		Short:         "planar inverse kinematics lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".iksim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	addChainFlags(rootCmd)
	addLiveFlags(rootCmd)

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve headless and store the run",
		RunE:  runSolve,
	}
	addChainFlags(solveCmd)
	solveCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frame budget")
	solveCmd.Flags().IntVar(&settle, "settle", config.DefaultSettleFrames, "converged frames before stopping")
	solveCmd.Flags().IntVar(&sampleEvery, "sample-every", 100, "keep every n-th frame in the trace")
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "solve with live visualization; click to set the target",
		RunE:  runLive,
	}
	addChainFlags(liveCmd)
	addLiveFlags(liveCmd)

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "pick a chain and preset interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot error and joint angles of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "draw the effector path of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  pathPlot,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export final pose or effector path to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgMode, "mode", "pose", "what to draw: pose, path or braille")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets [chain]",
		Short: "list chains, or the presets of one chain",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve a grid or ring of targets in parallel",
		RunE:  runSweep,
	}
	addChainFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frame budget per target")
	sweepCmd.Flags().IntVar(&gridN, "grid", 5, "grid points per axis")
	sweepCmd.Flags().Float64Var(&ringR, "ring", 0, "solve targets on a circle of this radius instead of a grid")
	sweepCmd.Flags().IntVar(&ringN, "count", 12, "targets on the ring")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker count (default GOMAXPROCS)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted sequence of targets",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addChainFlags(scenarioCmd)
	scenarioCmd.Flags().IntVar(&settle, "settle", config.DefaultSettleFrames, "converged frames before moving on")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "compare step sizes on one target",
		RunE:  runTune,
	}
	addChainFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneFrames, "frames", 20000, "frame budget per step size")
	tuneCmd.Flags().Float64Var(&tuneMin, "min", 1e-6, "smallest step size")
	tuneCmd.Flags().Float64Var(&tuneMax, "max", 1e-2, "largest step size")
	tuneCmd.Flags().IntVar(&tuneCount, "count", 9, "step sizes to try (log spaced)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "convergence rate and target sensitivity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-3, "target nudge for the sensitivity test")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure solver throughput for every chain",
		RunE:  benchChains,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 100000, "frames per chain")

	rootCmd.AddCommand(solveCmd, liveCmd, menuCmd, listCmd, plotCmd, pathCmd, showCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd, scenarioCmd, tuneCmd, analyzeCmd, benchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addChainFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&chainName, "chain", config.DefaultChain, "chain name")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64SliceVar(&lengths, "lengths", nil, "custom bone lengths")
	cmd.Flags().Float64Var(&stepSize, "step", 0, "step size")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "convergence threshold")
	cmd.Flags().Float64Var(&targetX, "x", 0, "target x")
	cmd.Flags().Float64Var(&targetY, "y", 0, "target y")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().IntVar(&framesPerTick, "frames-per-tick", config.DefaultFramesPerTick, "solver frames per redraw")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
}

// resolveConfig layers the preset, the config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(chainName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, chainName, config.ListPresets(chainName))
		}
		cfg = p
	} else if flags.Changed("chain") {
		ls, ok := config.Chains[chainName]
		if !ok {
			return nil, fmt.Errorf("unknown chain: %s (available: %v)", chainName, config.ListChains())
		}
		cfg.Chain = chainName
		cfg.Lengths = append([]float64(nil), ls...)
		cfg.Joints = len(ls)
	}

	if configFile != "" {
		loaded, err := config.LoadWith(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("lengths") {
		cfg.Chain = "custom"
		cfg.Lengths = append([]float64(nil), lengths...)
		cfg.Joints = len(lengths)
	}
	if flags.Changed("step") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("x") || flags.Changed("y") {
		t := config.TargetConfig{}
		if cfg.Target != nil {
			t = *cfg.Target
		}
		if flags.Changed("x") {
			t.X = targetX
		}
		if flags.Changed("y") {
			t.Y = targetY
		}
		cfg.Target = &t
	}
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Lookup("settle") != nil && flags.Changed("settle") {
		cfg.Settle = settle
	}
	if flags.Lookup("fps") != nil {
		if flags.Changed("fps") {
			cfg.View.FPS = frameRate
		}
		if flags.Changed("frames-per-tick") {
			cfg.View.FramesPerTick = framesPerTick
		}
		if flags.Changed("theme") {
			cfg.View.Theme = theme
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("configuration resolved",
		zap.String("chain", cfg.Chain),
		zap.Float64s("lengths", cfg.Lengths),
		zap.Float64("step_size", cfg.StepSize),
		zap.Float64("threshold", cfg.Threshold),
	)
	return cfg, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := openStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHAIN\tTIME\tTARGET\tFRAMES\tCONVERGED\tERROR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t(%.2f, %.2f)\t%d\t%v\t%.3g\n",
			run.ID,
			run.Chain,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TargetX, run.TargetY,
			run.Frames,
			run.Converged,
			run.FinalError,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHAIN\tLENGTHS\tPRESETS")
		for _, name := range config.ListChains() {
			fmt.Fprintf(w, "%s\t%v\t%v\n", name, config.Chains[name], config.ListPresets(name))
		}
		return w.Flush()
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for chain: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		cfg := config.GetPreset(args[0], p)
		fmt.Printf("  %-12s target (%.2f, %.2f) step %g\n", p, cfg.Target.X, cfg.Target.Y, cfg.StepSize)
	}
	return nil
}

func elapsedSince(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
