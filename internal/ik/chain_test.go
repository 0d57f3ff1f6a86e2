package ik_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
)

var _ = Describe("Chain", func() {
	Describe("construction", func() {
		It("starts in the rest pose", func() {
			c, err := ik.NewChain(ik.ReferenceLengths())
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Len()).To(Equal(5))
			Expect(c.Theta()).To(Equal([]float64{0, 0, 0, 0, 0}))
			Expect(c.Reach()).To(BeNumerically("~", 39, 1e-12))
		})

		DescribeTable("rejects malformed lengths",
			func(lengths []float64, want error) {
				_, err := ik.NewChain(lengths)
				Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
			},
			Entry("empty", []float64{}, ik.ErrEmptyChain),
			Entry("zero length", []float64{1, 0, 2}, ik.ErrInvalidLength),
			Entry("negative length", []float64{-1}, ik.ErrInvalidLength),
			Entry("NaN length", []float64{1, math.NaN()}, ik.ErrInvalidLength),
			Entry("infinite length", []float64{math.Inf(1)}, ik.ErrInvalidLength),
		)

		It("reports the offending bone", func() {
			_, err := ik.NewChain([]float64{1, 2, -3})
			var cfgErr *ik.ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Index).To(Equal(2))
			Expect(cfgErr.Value).To(Equal(-3.0))
		})

		It("enforces the expected joint count", func() {
			_, err := ik.NewChainN(5, []float64{1, 2, 3})
			Expect(err).To(MatchError(ik.ErrJointCount))

			_, err = ik.NewChainN(5, ik.ReferenceLengths())
			Expect(err).NotTo(HaveOccurred())
		})

		It("does not alias the caller's lengths", func() {
			lengths := []float64{1, 2}
			c, err := ik.NewChain(lengths)
			Expect(err).NotTo(HaveOccurred())
			lengths[0] = 100
			Expect(c.Lengths()).To(Equal([]float64{1, 2}))
		})
	})

	Describe("ForwardKinematics", func() {
		It("lays the rest pose along the positive x-axis", func() {
			lengths := ik.ReferenceLengths()
			pose := ik.NewPose(len(lengths))
			ik.ForwardKinematics(lengths, make([]float64, len(lengths)), pose)

			sum := 0.0
			for i, j := range pose.Joints {
				Expect(j.X()).To(BeNumerically("~", sum, 1e-12))
				Expect(j.Y()).To(Equal(0.0))
				sum += lengths[i]
			}
			Expect(pose.Effector.X()).To(BeNumerically("~", sum, 1e-12))
			Expect(pose.Effector.Y()).To(Equal(0.0))
		})

		It("keeps the base at the origin for any angles", func() {
			pose := ik.NewPose(3)
			ik.ForwardKinematics([]float64{1, 2, 3}, []float64{0.7, -1.2, 2.5}, pose)
			Expect(pose.Joints[0]).To(Equal(mgl64.Vec3{0, 0, 0}))
		})

		It("rotates each bone about its own proximal joint", func() {
			pose := ik.NewPose(2)
			ik.ForwardKinematics([]float64{2, 3}, []float64{0, math.Pi / 2}, pose)

			expectNear(pose.Joints[1], mgl64.Vec3{2, 0, 0})
			expectNear(pose.Effector, mgl64.Vec3{2, 3, 0})
		})

		It("accumulates rotations down the chain", func() {
			pose := ik.NewPose(3)
			ik.ForwardKinematics([]float64{1, 1, 1}, []float64{math.Pi / 2, math.Pi / 2, 0}, pose)

			expectNear(pose.Joints[1], mgl64.Vec3{0, 1, 0})
			expectNear(pose.Joints[2], mgl64.Vec3{-1, 1, 0})
			expectNear(pose.Effector, mgl64.Vec3{-2, 1, 0})
		})

		It("preserves bone lengths", func() {
			lengths := ik.ReferenceLengths()
			theta := []float64{0.9, -1.57, 1.57, 0.2, -0.30}
			pose := ik.NewPose(len(lengths))
			ik.ForwardKinematics(lengths, theta, pose)

			for i := 1; i < len(lengths); i++ {
				Expect(pose.Joints[i].Sub(pose.Joints[i-1]).Len()).To(BeNumerically("~", lengths[i-1], 1e-9))
			}
			Expect(pose.Effector.Sub(pose.Joints[4]).Len()).To(BeNumerically("~", lengths[4], 1e-9))
		})

		It("panics on mismatched dimensions", func() {
			Expect(func() {
				ik.ForwardKinematics([]float64{1, 2}, []float64{0}, ik.NewPose(2))
			}).To(Panic())
		})
	})

	It("rejects angle vectors of the wrong length", func() {
		c, err := ik.NewChain([]float64{1, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.SetTheta([]float64{1})).To(MatchError(ik.ErrDimensionMismatch))
		Expect(c.SetTheta([]float64{1, 2})).To(Succeed())
		c.Reset()
		Expect(c.Theta()).To(Equal([]float64{0, 0}))
	})
})
