package metrics

import (
	"github.com/san-kum/iksim/internal/ik"
)

// Monotonic is the fraction of consecutive stepped frames whose error did
// not grow. Anything below 1 means the step size is too large for the chain.
type Monotonic struct {
	name       string
	tolerance  float64
	prev       float64
	havePrev   bool
	samples    int
	violations int
}

func NewMonotonic(tolerance float64) *Monotonic {
	return &Monotonic{name: "monotonic", tolerance: tolerance}
}

func (m *Monotonic) Name() string { return m.name }

func (m *Monotonic) Observe(f ik.Frame) {
	if f.Status != ik.Stepped {
		m.havePrev = false
		return
	}
	if m.havePrev {
		m.samples++
		if !(f.Error <= m.prev+m.tolerance) {
			m.violations++
		}
	}
	m.prev = f.Error
	m.havePrev = true
}

func (m *Monotonic) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(m.violations)/float64(m.samples)
}

func (m *Monotonic) Reset() {
	m.prev = 0
	m.havePrev = false
	m.samples = 0
	m.violations = 0
}
