package ik_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
)

func newReferenceSolver() *ik.Solver {
	s, err := ik.NewSolver(ik.DefaultSolverConfig())
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Solver", func() {
	DescribeTable("fails fast on malformed configuration",
		func(mutate func(*ik.SolverConfig), want error) {
			cfg := ik.DefaultSolverConfig()
			mutate(&cfg)
			_, err := ik.NewSolver(cfg)
			Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
		},
		Entry("wrong joint count", func(c *ik.SolverConfig) { c.Lengths = []float64{1, 2, 3} }, ik.ErrJointCount),
		Entry("non-positive length", func(c *ik.SolverConfig) { c.Lengths[2] = 0 }, ik.ErrInvalidLength),
		Entry("zero step size", func(c *ik.SolverConfig) { c.StepSize = 0 }, ik.ErrInvalidStepSize),
		Entry("negative threshold", func(c *ik.SolverConfig) { c.Threshold = -1 }, ik.ErrInvalidThreshold),
	)

	It("accepts any bone count when Joints is zero", func() {
		s, err := ik.NewSolver(ik.SolverConfig{Lengths: []float64{4, 4, 4}, StepSize: 1e-4, Threshold: 1e-5})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Chain().Len()).To(Equal(3))
	})

	Context("before any target is set", func() {
		It("holds the rest pose across many frames", func() {
			s := newReferenceSolver()
			for i := 0; i < 1000; i++ {
				f := s.StepFrame()
				Expect(f.Status).To(Equal(ik.NoTarget))
				Expect(f.HasTarget).To(BeFalse())
			}
			Expect(s.Theta()).To(Equal([]float64{0, 0, 0, 0, 0}))
			Expect(s.FrameCount()).To(Equal(1000))
		})

		It("still reports the pose for rendering", func() {
			s := newReferenceSolver()
			f := s.StepFrame()
			Expect(f.Joints).To(HaveLen(5))
			Expect(f.Effector.X()).To(BeNumerically("~", 39, 1e-12))
		})

		It("goes back to holding after the target is cleared", func() {
			s := newReferenceSolver()
			s.SetTarget(10, 15)
			s.StepFrame()
			s.ClearTarget()
			before := s.Theta()
			for i := 0; i < 100; i++ {
				Expect(s.StepFrame().Status).To(Equal(ik.NoTarget))
			}
			Expect(s.Theta()).To(Equal(before))
		})
	})

	DescribeTable("converges to reachable targets",
		func(x, y float64) {
			s := newReferenceSolver()
			s.SetTarget(x, y)

			prev := math.Inf(1)
			converged := -1
			for i := 0; i < 200000; i++ {
				f := s.StepFrame()
				Expect(f.Error).To(BeNumerically("<=", prev+1e-12), "frame %d", i)
				prev = f.Error
				if f.Status == ik.Converged {
					converged = i
					break
				}
			}
			Expect(converged).To(BeNumerically(">", 0))
			Expect(s.Distance()).To(BeNumerically("<=", ik.DefaultThreshold))

			theta := s.Theta()
			for i := 0; i < 500; i++ {
				f := s.StepFrame()
				Expect(f.Status).To(Equal(ik.Converged))
				Expect(f.DTheta).To(Equal([]float64{0, 0, 0, 0, 0}))
			}
			Expect(s.Theta()).To(Equal(theta))
		},
		Entry("up and right", 20.0, 15.0),
		Entry("close in", 10.0, 15.0),
		Entry("behind the base", -10.0, 20.0),
		Entry("below the axis", 25.0, -10.0),
		Entry("straight up", 0.0, 30.0),
	)

	DescribeTable("settles at the reach deficit for unreachable targets",
		func(x, y float64) {
			s := newReferenceSolver()
			s.SetTarget(x, y)
			deficit := math.Hypot(x, y) - s.Reach()

			prev := math.Inf(1)
			for i := 0; i < 50000; i++ {
				f := s.StepFrame()
				Expect(f.Error).To(BeNumerically("<=", prev+1e-12), "frame %d", i)
				Expect(f.Error).To(BeNumerically(">=", deficit-1e-9))
				prev = f.Error
			}
			Expect(s.Distance()).To(BeNumerically("~", deficit, 1e-6))
			for _, th := range s.Theta() {
				Expect(math.IsNaN(th) || math.IsInf(th, 0)).To(BeFalse())
			}
		},
		Entry("diagonal", 40.0, 40.0),
		Entry("behind", -30.0, 45.0),
	)

	It("exposes the post-step pose and the increments it applied", func() {
		s := newReferenceSolver()
		s.SetTarget(20, 15)
		f := s.StepFrame()

		Expect(f.Status).To(Equal(ik.Stepped))
		Expect(f.Error).To(BeNumerically("~", math.Hypot(19, 15), 1e-9))
		for i, d := range f.DTheta {
			Expect(f.Theta[i]).To(BeNumerically("~", d*ik.DefaultStepSize, 1e-15))
		}
		expectNear(f.Effector, s.Pose().Effector)
	})

	It("stays put for a target on the rest axis", func() {
		s := newReferenceSolver()
		s.SetTarget(20, 0)
		for i := 0; i < 100; i++ {
			f := s.StepFrame()
			Expect(f.Status).To(Equal(ik.Stepped))
			Expect(f.Error).To(BeNumerically("~", 19, 1e-12))
		}
		Expect(s.Theta()).To(Equal([]float64{0, 0, 0, 0, 0}))
	})

	It("keeps cloned frames independent of later frames", func() {
		s := newReferenceSolver()
		s.SetTarget(20, 15)
		first := s.StepFrame().Clone()
		s.StepFrame()
		Expect(first.Theta).NotTo(Equal(s.Theta()))
	})

	It("resets angles but keeps the target", func() {
		s := newReferenceSolver()
		s.SetTarget(20, 15)
		for i := 0; i < 10; i++ {
			s.StepFrame()
		}
		s.Reset()
		Expect(s.Theta()).To(Equal([]float64{0, 0, 0, 0, 0}))
		Expect(s.HasTarget()).To(BeTrue())
		Expect(s.Target().X()).To(Equal(20.0))
	})
})
