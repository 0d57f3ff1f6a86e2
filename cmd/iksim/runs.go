package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gocarina/gocsv"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/iksim/internal/analysis"
	"github.com/san-kum/iksim/internal/export"
	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/sim"
	"github.com/san-kum/iksim/internal/storage"
	"github.com/san-kum/iksim/internal/viz"
)

func loadRun(runID string) (*storage.RunMetadata, []sim.Sample, error) {
	st := openStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

// finalPose rebuilds the stored end pose of a run.
func finalPose(meta *storage.RunMetadata) (*ik.Pose, error) {
	if len(meta.Lengths) == 0 || len(meta.FinalTheta) != len(meta.Lengths) {
		return nil, fmt.Errorf("run %s has no final pose", meta.ID)
	}
	pose := ik.NewPose(len(meta.Lengths))
	ik.ForwardKinematics(meta.Lengths, meta.FinalTheta, pose)
	return pose, nil
}

// sceneExtent frames both the chain's reach and the target.
func sceneExtent(meta *storage.RunMetadata) float64 {
	reach := floats.Sum(meta.Lengths)
	target := mgl64.Vec2{meta.TargetX, meta.TargetY}.Len()
	return math.Max(reach, target) * 1.1
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("chain: %s %v\n", meta.Chain, meta.Lengths)
	fmt.Printf("samples: %d\n\n", len(samples))

	errs := make([]float64, len(samples))
	logErrs := make([]float64, len(samples))
	for i, s := range samples {
		errs[i] = s.Error
		logErrs[i] = math.Log10(math.Max(s.Error, 1e-12))
	}
	fmt.Println(asciigraph.Plot(errs, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("error")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(logErrs, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("log10 error")))
	fmt.Println()
	fmt.Printf("error: start %.4g  min %.4g  max %.4g\n\n", errs[0], floats.Min(errs), floats.Max(errs))

	joints := len(samples[0].Theta)
	maxPlots := 6
	if joints > maxPlots {
		joints = maxPlots
	}
	for j := 0; j < joints; j++ {
		data := make([]float64, len(samples))
		for i, s := range samples {
			if j < len(s.Theta) {
				data[i] = mgl64.RadToDeg(s.Theta[j])
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("theta%d (deg)", j)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func pathPlot(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	pose, err := finalPose(meta)
	if err != nil {
		return err
	}

	fmt.Printf("effector path: %s\n", meta.ID)
	fmt.Printf("chain: %s, target (%.2f, %.2f)\n\n", meta.Chain, meta.TargetX, meta.TargetY)

	view := viz.Viewport{Extent: sceneExtent(meta), Cols: 60, Rows: 30}
	canvas := viz.NewCanvas(view.Cols, view.Rows)
	viz.DrawScene(canvas, view, viz.Scene{
		Pose:      pose,
		Target:    mgl64.Vec2{meta.TargetX, meta.TargetY},
		HasTarget: true,
		Reach:     floats.Sum(meta.Lengths),
		ShowReach: true,
		Trail:     sim.TracePath(samples),
	})
	fmt.Print(canvas.String())
	fmt.Printf("\nextent ±%.1f  dots: path  x: target  circle: reach\n", view.Extent)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return gocsv.Marshal(&samples, os.Stdout)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return export.TraceJSON(os.Stdout, meta, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	frame := export.Frame{Extent: sceneExtent(meta), Size: svgSize}
	target := mgl64.Vec2{meta.TargetX, meta.TargetY}

	var svg string
	switch svgMode {
	case "pose":
		pose, err := finalPose(meta)
		if err != nil {
			return err
		}
		svg = export.PoseToSVG(pose, &target, frame)
	case "path":
		svg = export.PathToSVG(sim.TracePath(samples), frame, "#00ff88")
	case "braille":
		pose, err := finalPose(meta)
		if err != nil {
			return err
		}
		view := viz.Viewport{Extent: frame.Extent, Cols: 60, Rows: 30}
		canvas := viz.NewCanvas(view.Cols, view.Rows)
		viz.DrawScene(canvas, view, viz.Scene{Pose: pose, Target: target, HasTarget: true, Trail: sim.TracePath(samples)})
		svg = export.CanvasToSVG(canvas, float64(svgSize)/float64(view.Cols*2))
	default:
		return fmt.Errorf("unknown svg mode: %s (pose, path, braille)", svgMode)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw for run %s", meta.ID)
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err = io.WriteString(w, svg)
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}

	fmt.Printf("convergence analysis: %s\n", meta.ID)
	fmt.Printf("chain: %s, target (%.2f, %.2f)\n\n", meta.Chain, meta.TargetX, meta.TargetY)

	frameIdx := make([]int, len(samples))
	errs := make([]float64, len(samples))
	for i, s := range samples {
		frameIdx[i], errs[i] = s.Frame, s.Error
	}
	rate := analysis.ConvergenceRate(frameIdx, errs, meta.Threshold)
	fmt.Printf("decay rate: %.4g per frame (R² %.4f over %d samples)\n", rate.PerFrame, rate.RSquared, rate.Samples)
	fmt.Printf("half-life: %.0f frames\n", rate.HalfLife)

	if reach := floats.Sum(meta.Lengths); (mgl64.Vec2{meta.TargetX, meta.TargetY}).Len() > reach {
		fmt.Printf("\ntarget lies outside reach %.2f; skipping sensitivity\n", reach)
		return nil
	}

	cfg := ik.SolverConfig{Lengths: meta.Lengths, StepSize: meta.StepSize, Threshold: meta.Threshold}
	budget := max(meta.Frames*2, 1000)
	s, err := analysis.TargetSensitivity(cmd.Context(), cfg, mgl64.Vec2{meta.TargetX, meta.TargetY}, perturbation, budget)
	if err != nil {
		return err
	}
	fmt.Printf("\ntarget sensitivity (nudge %g):\n", perturbation)
	fmt.Printf("  joint    x %.4g  y %.4g rad/unit\n", s.Joint[0], s.Joint[1])
	fmt.Printf("  effector x %.4g  y %.4g\n", s.Effector[0], s.Effector[1])
	if !s.Converged {
		fmt.Println("  (not every nudged solve converged within the budget)")
	}
	return nil
}
