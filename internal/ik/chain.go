package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the world-space geometry of a chain for one angle vector.
// Joints[0] is always the base at the origin. Z components are always zero.
type Pose struct {
	Joints   []mgl64.Vec3
	Effector mgl64.Vec3
}

// NewPose allocates a pose for an n-bone chain.
func NewPose(n int) *Pose {
	return &Pose{Joints: make([]mgl64.Vec3, n)}
}

// ForwardKinematics writes the joint origins and end effector of the chain
// described by lengths and theta into out.
//
// Bone i's frame is T(i-1) · translate(lengths[i-1]) · rotate(theta[i]), so
// each bone pivots about its own proximal joint. lengths, theta and
// out.Joints must all have the same length.
func ForwardKinematics(lengths, theta []float64, out *Pose) {
	n := len(lengths)
	if len(theta) != n || len(out.Joints) != n {
		panic(ErrDimensionMismatch)
	}

	m := mgl64.Ident4()
	for i := 0; i < n; i++ {
		if i > 0 {
			m = m.Mul4(mgl64.Translate3D(lengths[i-1], 0, 0))
		}
		m = m.Mul4(mgl64.HomogRotate3DZ(theta[i]))
		out.Joints[i] = m.Col(3).Vec3()
	}
	m = m.Mul4(mgl64.Translate3D(lengths[n-1], 0, 0))
	out.Effector = m.Col(3).Vec3()
}

// Chain is a planar serial chain: fixed bone lengths and mutable joint angles.
type Chain struct {
	lengths []float64
	theta   []float64
}

// NewChain builds a chain in its rest pose (all angles zero).
func NewChain(lengths []float64) (*Chain, error) {
	if len(lengths) == 0 {
		return nil, ErrEmptyChain
	}
	for i, l := range lengths {
		if !(l > 0) || math.IsInf(l, 0) {
			return nil, configErr("lengths", i, l, ErrInvalidLength)
		}
	}

	c := &Chain{
		lengths: make([]float64, len(lengths)),
		theta:   make([]float64, len(lengths)),
	}
	copy(c.lengths, lengths)
	return c, nil
}

// NewChainN is NewChain with an expected bone count.
func NewChainN(n int, lengths []float64) (*Chain, error) {
	if len(lengths) != n {
		return nil, configErr("joints", -1, float64(len(lengths)), ErrJointCount)
	}
	return NewChain(lengths)
}

func (c *Chain) Len() int { return len(c.lengths) }

func (c *Chain) Lengths() []float64 {
	out := make([]float64, len(c.lengths))
	copy(out, c.lengths)
	return out
}

func (c *Chain) Theta() []float64 {
	out := make([]float64, len(c.theta))
	copy(out, c.theta)
	return out
}

// SetTheta overwrites every joint angle.
func (c *Chain) SetTheta(theta []float64) error {
	if len(theta) != len(c.theta) {
		return ErrDimensionMismatch
	}
	copy(c.theta, theta)
	return nil
}

// Reset returns the chain to its rest pose.
func (c *Chain) Reset() {
	for i := range c.theta {
		c.theta[i] = 0
	}
}

// Reach is the distance from the base to the effector when fully extended.
func (c *Chain) Reach() float64 {
	sum := 0.0
	for _, l := range c.lengths {
		sum += l
	}
	return sum
}

// Pose evaluates forward kinematics for the current angles into out.
func (c *Chain) Pose(out *Pose) {
	ForwardKinematics(c.lengths, c.theta, out)
}
