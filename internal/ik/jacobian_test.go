package ik_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
)

var _ = Describe("ComputeJacobian", func() {
	DescribeTable("columns are perpendicular to the lever arm",
		func(theta []float64) {
			lengths := ik.ReferenceLengths()
			pose := ik.NewPose(len(lengths))
			ik.ForwardKinematics(lengths, theta, pose)

			cols := make([]mgl64.Vec3, len(lengths))
			ik.ComputeJacobian(pose, cols)

			for i, c := range cols {
				arm := pose.Effector.Sub(pose.Joints[i])
				Expect(c.Dot(arm)).To(BeNumerically("~", 0, 1e-9), "joint %d", i)
				Expect(c.Len()).To(BeNumerically("~", arm.Len(), 1e-9), "joint %d", i)
				Expect(c.Z()).To(Equal(0.0))
			}
		},
		Entry("rest pose", []float64{0, 0, 0, 0, 0}),
		Entry("bent", []float64{0.9, -1.57, 1.57, 0.2, -0.30}),
		Entry("folded", []float64{math.Pi, math.Pi, -math.Pi / 3, 2, -2}),
		Entry("large angles", []float64{12.5, -40, 7, 3.3, -0.01}),
	)

	It("points along +y for a straight chain", func() {
		lengths := []float64{1, 2}
		pose := ik.NewPose(2)
		ik.ForwardKinematics(lengths, []float64{0, 0}, pose)
		cols := make([]mgl64.Vec3, 2)
		ik.ComputeJacobian(pose, cols)

		expectNear(cols[0], mgl64.Vec3{0, 3, 0})
		expectNear(cols[1], mgl64.Vec3{0, 2, 0})
	})

	It("yields a zero column for a zero lever arm", func() {
		pose := &ik.Pose{
			Joints: []mgl64.Vec3{
				{0, 0, 0},
				{3, 1, 0},
				{5, 2, 0},
			},
			Effector: mgl64.Vec3{5, 2, 0},
		}
		cols := make([]mgl64.Vec3, 3)
		ik.ComputeJacobian(pose, cols)

		Expect(cols[2]).To(Equal(mgl64.Vec3{0, 0, 0}))
		Expect(cols[0]).NotTo(Equal(mgl64.Vec3{0, 0, 0}))
	})

	Describe("Manipulability", func() {
		It("vanishes for a stretched chain", func() {
			pose := ik.NewPose(5)
			ik.ForwardKinematics(ik.ReferenceLengths(), make([]float64, 5), pose)
			cols := make([]mgl64.Vec3, 5)
			ik.ComputeJacobian(pose, cols)

			Expect(ik.Manipulability(cols)).To(BeNumerically("~", 0, 1e-6))
		})

		It("is positive for a bent chain", func() {
			pose := ik.NewPose(5)
			ik.ForwardKinematics(ik.ReferenceLengths(), []float64{0.9, -1.57, 1.57, 0.2, -0.30}, pose)
			cols := make([]mgl64.Vec3, 5)
			ik.ComputeJacobian(pose, cols)

			Expect(ik.Manipulability(cols)).To(BeNumerically(">", 1))
		})

		It("packs columns into a 2xN matrix", func() {
			cols := []mgl64.Vec3{{1, 2, 0}, {3, 4, 0}, {5, 6, 0}}
			j := ik.JacobianMatrix(cols)
			r, c := j.Dims()
			Expect(r).To(Equal(2))
			Expect(c).To(Equal(3))
			Expect(j.At(0, 1)).To(Equal(3.0))
			Expect(j.At(1, 2)).To(Equal(6.0))
		})
	})
})
