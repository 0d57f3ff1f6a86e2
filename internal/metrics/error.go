package metrics

import (
	"github.com/san-kum/iksim/internal/ik"
)

// FinalError reports the effector-to-target distance of the last targeted frame.
type FinalError struct {
	name  string
	last  float64
	valid bool
}

func NewFinalError() *FinalError {
	return &FinalError{name: "final_error"}
}

func (e *FinalError) Name() string { return e.name }

func (e *FinalError) Observe(f ik.Frame) {
	if !f.HasTarget {
		return
	}
	e.last = f.Error
	e.valid = true
}

func (e *FinalError) Value() float64 {
	if !e.valid {
		return 0
	}
	return e.last
}

func (e *FinalError) Reset() {
	e.last = 0
	e.valid = false
}

// FramesToConverge counts frames until the first converged frame. It reports
// -1 while the chain has not converged.
type FramesToConverge struct {
	name      string
	frames    int
	converged bool
}

func NewFramesToConverge() *FramesToConverge {
	return &FramesToConverge{name: "frames_to_converge"}
}

func (c *FramesToConverge) Name() string { return c.name }

func (c *FramesToConverge) Observe(f ik.Frame) {
	if c.converged {
		return
	}
	c.frames++
	if f.Status == ik.Converged {
		c.converged = true
	}
}

func (c *FramesToConverge) Value() float64 {
	if !c.converged {
		return -1
	}
	return float64(c.frames)
}

func (c *FramesToConverge) Reset() {
	c.frames = 0
	c.converged = false
}
