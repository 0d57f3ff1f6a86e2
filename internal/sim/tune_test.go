package sim_test

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/sim"
)

var _ = Describe("TuneStepSize", func() {
	It("prefers the fastest stable step size", func() {
		steps := []float64{1e-5, 1e-4, 1e-3, 5e-3}
		results, best, err := sim.TuneStepSize(context.Background(), ik.DefaultSolverConfig(), mgl64.Vec2{20, 15}, steps, 20000)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for _, r := range results[:3] {
			Expect(r.Converged).To(BeTrue(), "step %g", r.StepSize)
			Expect(r.Monotonic).To(BeTrue(), "step %g", r.StepSize)
		}
		Expect(results[0].Frames).To(BeNumerically(">", results[1].Frames))
		Expect(results[1].Frames).To(BeNumerically(">", results[2].Frames))

		Expect(results[3].Converged).To(BeFalse())
		Expect(results[3].Monotonic).To(BeFalse())

		Expect(best).To(Equal(2))
	})

	It("reports no winner when nothing converges", func() {
		_, best, err := sim.TuneStepSize(context.Background(), ik.DefaultSolverConfig(), mgl64.Vec2{40, 40}, []float64{1e-5}, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(best).To(Equal(-1))
	})

	It("spaces candidates logarithmically", func() {
		xs := sim.LogSpace(1e-6, 1e-2, 5)
		Expect(xs).To(HaveLen(5))
		Expect(xs[0]).To(BeNumerically("~", 1e-6, 1e-18))
		Expect(xs[2]).To(BeNumerically("~", 1e-4, 1e-15))
		Expect(xs[4]).To(BeNumerically("~", 1e-2, 1e-14))
		Expect(sim.LogSpace(1e-3, 1, 1)).To(Equal([]float64{1e-3}))
	})
})
