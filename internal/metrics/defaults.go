package metrics

import "github.com/san-kum/iksim/internal/sim"

// Default is the metric set recorded for every solve.
func Default(stepSize float64) []sim.Metric {
	return []sim.Metric{
		NewFinalError(),
		NewFramesToConverge(),
		NewJointTravel(stepSize),
		NewMonotonic(1e-12),
		NewManipulability(),
	}
}
