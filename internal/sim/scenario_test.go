package sim_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/sim"
)

const clickScenario = `
name: clicks
description: retarget while the chain is moving
steps:
  - label: idle
    clear: true
    frames: 50
  - label: first
    x: 20
    y: 15
    frames: 3000
  - label: second
    x: -10
    y: 20
    frames: 60000
`

var _ = Describe("Scenario", func() {
	It("parses steps and default labels", func() {
		sc, err := sim.ParseScenario([]byte("name: s\nsteps:\n  - {x: 1, y: 2, frames: 5}\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Steps).To(HaveLen(1))
		Expect(sc.Steps[0].X).To(Equal(1.0))
	})

	It("rejects empty scenarios and bad frame counts", func() {
		_, err := sim.ParseScenario([]byte("name: empty\n"))
		Expect(err).To(HaveOccurred())

		_, err = sim.ParseScenario([]byte("name: s\nsteps:\n  - {x: 1, y: 2, frames: 0}\n"))
		Expect(err).To(HaveOccurred())
	})

	It("loads from disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "clicks.yaml")
		Expect(os.WriteFile(path, []byte(clickScenario), 0644)).To(Succeed())

		sc, err := sim.LoadScenario(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Name).To(Equal("clicks"))
		Expect(sc.Steps).To(HaveLen(3))
	})

	It("carries the pose between retargets", func() {
		sc, err := sim.ParseScenario([]byte(clickScenario))
		Expect(err).NotTo(HaveOccurred())

		s, err := ik.NewSolver(ik.DefaultSolverConfig())
		Expect(err).NotTo(HaveOccurred())

		out, err := sim.RunScenario(context.Background(), sim.NewRunner(s), sc, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(3))

		idle := out[0].Result
		Expect(idle.FramesRun).To(Equal(50))
		Expect(idle.Final.Theta).To(Equal([]float64{0, 0, 0, 0, 0}))

		first := out[1].Result
		Expect(first.Converged).To(BeFalse())
		Expect(first.FramesRun).To(Equal(3000))

		second := out[2].Result
		Expect(second.Converged).To(BeTrue())
		Expect(second.Samples[0].Theta).NotTo(Equal(sim.Angles{0, 0, 0, 0, 0}))
		Expect(out[2].Label).To(Equal("second"))
	})
})
