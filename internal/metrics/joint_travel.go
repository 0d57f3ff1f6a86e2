package metrics

import (
	"math"

	"github.com/san-kum/iksim/internal/ik"
)

// JointTravel is the total absolute angle change, in radians, summed over
// all joints and frames.
type JointTravel struct {
	name     string
	stepSize float64
	sum      float64
}

func NewJointTravel(stepSize float64) *JointTravel {
	return &JointTravel{name: "joint_travel", stepSize: stepSize}
}

func (j *JointTravel) Name() string { return j.name }

func (j *JointTravel) Observe(f ik.Frame) {
	for _, d := range f.DTheta {
		j.sum += math.Abs(d) * j.stepSize
	}
}

func (j *JointTravel) Value() float64 { return j.sum }

func (j *JointTravel) Reset() { j.sum = 0 }
