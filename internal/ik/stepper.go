package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Status describes what a frame did.
type Status int

const (
	// NoTarget means no target has been set; the chain held its pose.
	NoTarget Status = iota
	// Converged means the effector was within the threshold; no update.
	Converged
	// Stepped means the angles were updated.
	Stepped
)

func (s Status) String() string {
	switch s {
	case NoTarget:
		return "no_target"
	case Converged:
		return "converged"
	case Stepped:
		return "stepped"
	default:
		return "unknown"
	}
}

// Stepper applies the Jacobian-transpose update
//
//	dtheta[i] = J[i] · (target − effector)
//	theta[i] += dtheta[i] · StepSize
//
// StepSize has to be small relative to the squared length scale of the chain
// or the update oscillates.
type Stepper struct {
	StepSize  float64
	Threshold float64
}

func NewStepper(stepSize, threshold float64) (Stepper, error) {
	if !(stepSize > 0) || math.IsInf(stepSize, 0) {
		return Stepper{}, configErr("step_size", -1, stepSize, ErrInvalidStepSize)
	}
	if !(threshold >= 0) || math.IsInf(threshold, 0) {
		return Stepper{}, configErr("threshold", -1, threshold, ErrInvalidThreshold)
	}
	return Stepper{StepSize: stepSize, Threshold: threshold}, nil
}

// Step updates theta in place and writes the per-joint increments (before
// scaling by StepSize) into dtheta. It returns the effector-to-target
// distance measured before the update and whether theta changed. Every
// increment is computed from the same pre-update columns.
func (s Stepper) Step(cols []mgl64.Vec3, effector, target mgl64.Vec3, theta, dtheta []float64) (float64, bool) {
	if len(cols) != len(theta) || len(dtheta) != len(theta) {
		panic(ErrDimensionMismatch)
	}

	v := target.Sub(effector)
	dist := v.Len()
	if dist <= s.Threshold {
		for i := range dtheta {
			dtheta[i] = 0
		}
		return dist, false
	}

	for i, c := range cols {
		dtheta[i] = c.Dot(v)
	}
	for i := range theta {
		theta[i] += dtheta[i] * s.StepSize
	}
	return dist, true
}
