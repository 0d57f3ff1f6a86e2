package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/sim"
)

type countingObserver struct {
	frames int
	last   ik.Status
}

func (c *countingObserver) OnFrame(f ik.Frame) {
	c.frames++
	c.last = f.Status
}

type stepCounter struct{ stepped int }

func (m *stepCounter) Name() string { return "stepped" }
func (m *stepCounter) Observe(f ik.Frame) {
	if f.Status == ik.Stepped {
		m.stepped++
	}
}
func (m *stepCounter) Value() float64 { return float64(m.stepped) }
func (m *stepCounter) Reset()         { m.stepped = 0 }

func referenceSolver() *ik.Solver {
	s, err := ik.NewSolver(ik.DefaultSolverConfig())
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Runner", func() {
	It("rejects a non-positive frame budget", func() {
		r := sim.NewRunner(referenceSolver())
		_, err := r.Run(context.Background(), sim.Config{Frames: 0})
		Expect(err).To(HaveOccurred())
	})

	It("runs to convergence and stops", func() {
		s := referenceSolver()
		s.SetTarget(20, 15)
		r := sim.NewRunner(s)
		obs := &countingObserver{}
		counter := &stepCounter{}
		r.AddObserver(obs)
		r.AddMetric(counter)

		res, err := r.Run(context.Background(), sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.FinalError).To(BeNumerically("<=", ik.DefaultThreshold))
		Expect(res.FramesRun).To(BeNumerically("<", 200000))
		Expect(obs.frames).To(Equal(res.FramesRun))
		Expect(obs.last).To(Equal(ik.Converged))
		Expect(res.Metrics["stepped"]).To(BeNumerically("==", res.FramesRun-1))
		Expect(res.Samples).To(HaveLen(res.FramesRun))
		Expect(res.Samples[len(res.Samples)-1].Status).To(Equal("converged"))

		path := res.Path()
		Expect(path).To(HaveLen(len(res.Samples)))
		Expect(path[len(path)-1].X()).To(BeNumerically("~", 20, 1e-4))
		Expect(path[len(path)-1].Y()).To(BeNumerically("~", 15, 1e-4))
		Expect(res.Errors()[0]).To(BeNumerically(">", res.Errors()[len(path)-1]))
	})

	It("waits for the configured number of settled frames", func() {
		s := referenceSolver()
		s.SetTarget(20, 15)
		first, err := sim.NewRunner(s).Run(context.Background(), sim.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		s.Reset()
		cfg := sim.DefaultConfig()
		cfg.SettleFrames = 10
		second, err := sim.NewRunner(s).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.FramesRun).To(Equal(first.FramesRun + 9))
	})

	It("holds the pose for the whole budget without a target", func() {
		s := referenceSolver()
		res, err := sim.NewRunner(s).Run(context.Background(), sim.Config{Frames: 250, StopOnConverge: true, SettleFrames: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.FramesRun).To(Equal(250))
		Expect(res.Converged).To(BeFalse())
		Expect(s.Theta()).To(Equal([]float64{0, 0, 0, 0, 0}))
	})

	It("thins the trace but keeps the last frame", func() {
		s := referenceSolver()
		s.SetTarget(20, 15)
		res, err := sim.NewRunner(s).Run(context.Background(), sim.Config{Frames: 1000, SampleEvery: 100})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples).To(HaveLen(11))
		Expect(res.Samples[10].Frame).To(Equal(999))
	})

	It("returns the partial result on cancellation", func() {
		s := referenceSolver()
		s.SetTarget(20, 15)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := sim.NewRunner(s).Run(ctx, sim.DefaultConfig())
		Expect(err).To(MatchError(context.Canceled))
		Expect(res).NotTo(BeNil())
		Expect(res.FramesRun).To(Equal(0))
	})

	It("stops a callback run when asked", func() {
		s := referenceSolver()
		s.SetTarget(20, 15)
		n := 0
		err := sim.NewRunner(s).RunWithCallback(context.Background(), func(f ik.Frame) bool {
			n++
			return f.Status != ik.Converged
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Distance()).To(BeNumerically("<=", ik.DefaultThreshold))
		Expect(n).To(BeNumerically(">", 1))
	})
})

var _ = Describe("Angles", func() {
	It("round-trips through a CSV field", func() {
		in := sim.Angles{0.5, -1.25, 3e-7}
		s, err := in.MarshalCSV()
		Expect(err).NotTo(HaveOccurred())

		var out sim.Angles
		Expect(out.UnmarshalCSV(s)).To(Succeed())
		Expect(out).To(Equal(in))
	})

	It("rejects garbage", func() {
		var out sim.Angles
		Expect(out.UnmarshalCSV("1;x")).NotTo(Succeed())
	})
})
