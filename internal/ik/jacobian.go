package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// RotationAxis is shared by every joint of a planar chain.
var RotationAxis = mgl64.Vec3{0, 0, 1}

// ComputeJacobian fills out[i] with the linear velocity of the effector for a
// unit angular velocity at joint i: RotationAxis × (effector − joint_i).
// A zero lever arm yields the zero column.
func ComputeJacobian(pose *Pose, out []mgl64.Vec3) {
	if len(out) != len(pose.Joints) {
		panic(ErrDimensionMismatch)
	}
	for i, j := range pose.Joints {
		out[i] = RotationAxis.Cross(pose.Effector.Sub(j))
	}
}

// JacobianMatrix packs the planar part of the columns into a 2xN matrix.
func JacobianMatrix(cols []mgl64.Vec3) *mat.Dense {
	j := mat.NewDense(2, len(cols), nil)
	for i, c := range cols {
		j.Set(0, i, c.X())
		j.Set(1, i, c.Y())
	}
	return j
}

// Manipulability returns sqrt(det(J·Jᵀ)). It is zero at singular
// configurations such as a fully stretched chain.
func Manipulability(cols []mgl64.Vec3) float64 {
	if len(cols) == 0 {
		return 0
	}
	j := JacobianMatrix(cols)
	var jjt mat.Dense
	jjt.Mul(j, j.T())
	d := mat.Det(&jjt)
	if d <= 0 {
		return 0
	}
	return math.Sqrt(d)
}
