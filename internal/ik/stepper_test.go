package ik_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
)

var _ = Describe("Stepper", func() {
	DescribeTable("validates its parameters",
		func(step, threshold float64, want error) {
			_, err := ik.NewStepper(step, threshold)
			Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
		},
		Entry("zero step", 0.0, 1e-5, ik.ErrInvalidStepSize),
		Entry("negative step", -1e-5, 1e-5, ik.ErrInvalidStepSize),
		Entry("NaN step", math.NaN(), 1e-5, ik.ErrInvalidStepSize),
		Entry("negative threshold", 1e-5, -1.0, ik.ErrInvalidThreshold),
		Entry("infinite threshold", 1e-5, math.Inf(1), ik.ErrInvalidThreshold),
	)

	It("applies the transpose rule to every joint at once", func() {
		s, err := ik.NewStepper(0.5, 1e-5)
		Expect(err).NotTo(HaveOccurred())

		cols := []mgl64.Vec3{{0, 2, 0}, {1, 1, 0}}
		theta := []float64{0.1, 0.2}
		dtheta := make([]float64, 2)

		dist, stepped := s.Step(cols, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 4, 0}, theta, dtheta)

		Expect(stepped).To(BeTrue())
		Expect(dist).To(BeNumerically("~", 5, 1e-12))
		Expect(dtheta).To(Equal([]float64{8, 7}))
		Expect(theta[0]).To(BeNumerically("~", 4.1, 1e-12))
		Expect(theta[1]).To(BeNumerically("~", 3.7, 1e-12))
	})

	It("skips the update inside the threshold", func() {
		s, err := ik.NewStepper(1, 1e-3)
		Expect(err).NotTo(HaveOccurred())

		cols := []mgl64.Vec3{{0, 2, 0}}
		theta := []float64{0.3}
		dtheta := []float64{99}

		_, stepped := s.Step(cols, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1.0005, 0}, theta, dtheta)

		Expect(stepped).To(BeFalse())
		Expect(theta).To(Equal([]float64{0.3}))
		Expect(dtheta).To(Equal([]float64{0}))
	})

	It("gives a zero increment for a zero column", func() {
		s, err := ik.NewStepper(ik.DefaultStepSize, ik.DefaultThreshold)
		Expect(err).NotTo(HaveOccurred())

		pose := &ik.Pose{
			Joints:   []mgl64.Vec3{{0, 0, 0}, {4, 0, 0}},
			Effector: mgl64.Vec3{4, 0, 0},
		}
		cols := make([]mgl64.Vec3, 2)
		ik.ComputeJacobian(pose, cols)

		theta := []float64{0, 1.25}
		dtheta := make([]float64, 2)
		_, stepped := s.Step(cols, pose.Effector, mgl64.Vec3{0, 10, 0}, theta, dtheta)

		Expect(stepped).To(BeTrue())
		Expect(dtheta[1]).To(Equal(0.0))
		Expect(theta[1]).To(Equal(1.25))
		Expect(dtheta[0]).NotTo(Equal(0.0))
	})

	It("names its statuses", func() {
		Expect(ik.NoTarget.String()).To(Equal("no_target"))
		Expect(ik.Converged.String()).To(Equal("converged"))
		Expect(ik.Stepped.String()).To(Equal("stepped"))
	})
})
