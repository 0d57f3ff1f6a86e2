package ik

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultStepSize  = 1e-5
	DefaultThreshold = 1e-5
	ReferenceJoints  = 5
)

// ReferenceLengths returns the bone lengths of the reference 5-bone chain.
func ReferenceLengths() []float64 {
	return []float64{7, 13.5, 11, 3.5, 4}
}

// SolverConfig holds the construction parameters of a Solver. Joints, when
// non-zero, is the bone count the chain must have.
type SolverConfig struct {
	Lengths   []float64
	StepSize  float64
	Threshold float64
	Joints    int
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Lengths:   ReferenceLengths(),
		StepSize:  DefaultStepSize,
		Threshold: DefaultThreshold,
		Joints:    ReferenceJoints,
	}
}

// Frame is the outcome of one StepFrame call. Joints, Effector and Theta are
// the post-update pose to render; Error is the distance that drove the
// update. Slices alias solver buffers and are overwritten by the next frame.
type Frame struct {
	Index     int
	Status    Status
	Error     float64
	Joints    []mgl64.Vec3
	Effector  mgl64.Vec3
	Target    mgl64.Vec3
	HasTarget bool
	Theta     []float64
	DTheta    []float64
	Columns   []mgl64.Vec3
}

// Clone deep-copies the frame so it survives later frames.
func (f Frame) Clone() Frame {
	c := f
	c.Joints = append([]mgl64.Vec3(nil), f.Joints...)
	c.Theta = append([]float64(nil), f.Theta...)
	c.DTheta = append([]float64(nil), f.DTheta...)
	c.Columns = append([]mgl64.Vec3(nil), f.Columns...)
	return c
}

// Solver ties a chain, a stepper and a target together and runs one IK
// iteration per frame. All per-frame buffers are allocated up front.
type Solver struct {
	chain     *Chain
	stepper   Stepper
	target    mgl64.Vec3
	hasTarget bool

	pose   *Pose
	next   *Pose
	cols   []mgl64.Vec3
	dtheta []float64
	theta  []float64
	frame  int
}

func NewSolver(cfg SolverConfig) (*Solver, error) {
	var (
		chain *Chain
		err   error
	)
	if cfg.Joints > 0 {
		chain, err = NewChainN(cfg.Joints, cfg.Lengths)
	} else {
		chain, err = NewChain(cfg.Lengths)
	}
	if err != nil {
		return nil, err
	}

	stepper, err := NewStepper(cfg.StepSize, cfg.Threshold)
	if err != nil {
		return nil, err
	}

	n := chain.Len()
	return &Solver{
		chain:   chain,
		stepper: stepper,
		pose:    NewPose(n),
		next:    NewPose(n),
		cols:    make([]mgl64.Vec3, n),
		dtheta:  make([]float64, n),
		theta:   make([]float64, n),
	}, nil
}

func (s *Solver) Chain() *Chain      { return s.chain }
func (s *Solver) Stepper() Stepper   { return s.stepper }
func (s *Solver) FrameCount() int    { return s.frame }
func (s *Solver) Theta() []float64   { return s.chain.Theta() }
func (s *Solver) Reach() float64     { return s.chain.Reach() }
func (s *Solver) HasTarget() bool    { return s.hasTarget }
func (s *Solver) Target() mgl64.Vec2 { return s.target.Vec2() }

// SetTarget overwrites the target and marks it defined.
func (s *Solver) SetTarget(x, y float64) {
	s.target = mgl64.Vec3{x, y, 0}
	s.hasTarget = true
}

// ClearTarget returns the solver to the undefined-target state.
func (s *Solver) ClearTarget() {
	s.target = mgl64.Vec3{}
	s.hasTarget = false
}

// Reset returns the chain to its rest pose. The target is kept.
func (s *Solver) Reset() {
	s.chain.Reset()
	s.frame = 0
}

// StepFrame runs forward kinematics, the Jacobian and one gradient step.
// Without a target the angles are left untouched.
func (s *Solver) StepFrame() Frame {
	s.chain.Pose(s.pose)
	ComputeJacobian(s.pose, s.cols)

	status := NoTarget
	dist := 0.0
	if s.hasTarget {
		var stepped bool
		dist, stepped = s.stepper.Step(s.cols, s.pose.Effector, s.target, s.chain.theta, s.dtheta)
		status = Converged
		if stepped {
			status = Stepped
		}
	} else {
		for i := range s.dtheta {
			s.dtheta[i] = 0
		}
	}

	s.chain.Pose(s.next)
	copy(s.theta, s.chain.theta)

	f := Frame{
		Index:     s.frame,
		Status:    status,
		Error:     dist,
		Joints:    s.next.Joints,
		Effector:  s.next.Effector,
		Target:    s.target,
		HasTarget: s.hasTarget,
		Theta:     s.theta,
		DTheta:    s.dtheta,
		Columns:   s.cols,
	}
	s.frame++
	return f
}

// Pose evaluates the current pose without stepping.
func (s *Solver) Pose() *Pose {
	p := NewPose(s.chain.Len())
	s.chain.Pose(p)
	return p
}

// Distance is the current effector-to-target distance, or zero without a target.
func (s *Solver) Distance() float64 {
	if !s.hasTarget {
		return 0
	}
	s.chain.Pose(s.pose)
	return s.target.Sub(s.pose.Effector).Len()
}
