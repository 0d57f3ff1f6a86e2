package metrics

import (
	"github.com/san-kum/iksim/internal/ik"
)

// Manipulability averages sqrt(det(J·Jᵀ)) over targeted frames.
type Manipulability struct {
	name    string
	sum     float64
	samples int
}

func NewManipulability() *Manipulability {
	return &Manipulability{name: "manipulability"}
}

func (m *Manipulability) Name() string { return m.name }

func (m *Manipulability) Observe(f ik.Frame) {
	if !f.HasTarget {
		return
	}
	m.sum += ik.Manipulability(f.Columns)
	m.samples++
}

func (m *Manipulability) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Manipulability) Reset() {
	m.sum = 0
	m.samples = 0
}
