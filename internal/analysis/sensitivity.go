package analysis

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/sim"
)

// Sensitivity compares the solution for a target with the solutions for
// the target nudged by the perturbation along x and along y. Joint is the
// joint-space separation per unit of target change; Effector is the same
// for effector positions and is near 1 when all three runs converge.
type Sensitivity struct {
	Base      []float64
	Joint     [2]float64
	Effector  [2]float64
	Converged bool
}

func solve(ctx context.Context, cfg ik.SolverConfig, target mgl64.Vec2, frames int) (*sim.Result, error) {
	s, err := ik.NewSolver(cfg)
	if err != nil {
		return nil, err
	}
	s.SetTarget(target.X(), target.Y())
	return sim.NewRunner(s).Run(ctx, sim.Config{
		Frames:         frames,
		StopOnConverge: true,
		SettleFrames:   1,
		SampleEvery:    frames,
	})
}

// TargetSensitivity runs three solves from the rest pose: the target and
// the target shifted by perturbation along each axis.
func TargetSensitivity(ctx context.Context, cfg ik.SolverConfig, target mgl64.Vec2, perturbation float64, frames int) (Sensitivity, error) {
	if !(perturbation > 0) {
		perturbation = 1e-3
	}

	base, err := solve(ctx, cfg, target, frames)
	if err != nil {
		return Sensitivity{}, err
	}
	out := Sensitivity{
		Base:      append([]float64(nil), base.Final.Theta...),
		Converged: base.Converged,
	}

	for axis, d := range []mgl64.Vec2{{perturbation, 0}, {0, perturbation}} {
		res, err := solve(ctx, cfg, target.Add(d), frames)
		if err != nil {
			return Sensitivity{}, err
		}
		out.Converged = out.Converged && res.Converged
		out.Joint[axis] = floats.Distance(base.Final.Theta, res.Final.Theta, 2) / perturbation
		sep := res.Final.Effector.Sub(base.Final.Effector).Len()
		out.Effector[axis] = sep / perturbation
		if math.IsNaN(out.Joint[axis]) {
			out.Joint[axis] = math.Inf(1)
		}
	}
	return out, nil
}
