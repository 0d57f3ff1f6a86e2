package sim_test

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/sim"
)

var _ = Describe("Sweep", func() {
	It("solves each target independently and keeps their order", func() {
		targets := []mgl64.Vec2{{20, 15}, {40, 40}, {-10, 20}, {0, 30}}
		cfg := sim.Config{Frames: 60000, StopOnConverge: true, SettleFrames: 1}

		results, err := sim.Sweep(context.Background(), ik.DefaultSolverConfig(), cfg, targets, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, r := range results {
			Expect(r.Target).To(Equal(targets[i]))
		}
		Expect(results[0].Converged).To(BeTrue())
		Expect(results[1].Reachable).To(BeFalse())
		Expect(results[1].Converged).To(BeFalse())
		Expect(results[1].FinalError).To(BeNumerically("~", math.Hypot(40, 40)-39, 1e-6))
		Expect(results[2].Converged).To(BeTrue())
		Expect(results[3].Converged).To(BeTrue())
	})

	It("fails before running on a bad solver config", func() {
		cfg := ik.DefaultSolverConfig()
		cfg.StepSize = -1
		_, err := sim.Sweep(context.Background(), cfg, sim.DefaultConfig(), []mgl64.Vec2{{1, 1}}, 2)
		Expect(err).To(MatchError(ik.ErrInvalidStepSize))
	})

	It("builds grids and rings", func() {
		grid := sim.GridTargets(10, 3)
		Expect(grid).To(HaveLen(9))
		Expect(grid[0]).To(Equal(mgl64.Vec2{-10, 10}))
		Expect(grid[8]).To(Equal(mgl64.Vec2{10, -10}))
		Expect(sim.GridTargets(10, 1)).To(Equal([]mgl64.Vec2{{0, 0}}))

		ring := sim.RingTargets(5, 4)
		Expect(ring).To(HaveLen(4))
		for _, p := range ring {
			Expect(p.Len()).To(BeNumerically("~", 5, 1e-12))
		}
	})
})

var _ = Describe("ParallelFor", func() {
	DescribeTable("visits every index exactly once",
		func(n, workers int) {
			hits := make([]int32, n)
			sim.ParallelFor(n, workers, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				Expect(h).To(Equal(int32(1)), "index %d", i)
			}
		},
		Entry("serial", 10, 1),
		Entry("even split", 12, 4),
		Entry("ragged split", 13, 4),
		Entry("more workers than items", 3, 8),
		Entry("empty", 0, 4),
	)
})
