// Package analysis characterizes how a solver run behaves.
//
//   - [ConvergenceRate]: exponential decay rate of the error trace
//   - [TargetSensitivity]: how far the solved posture moves when the target
//     is nudged along each axis
//
// # Singular postures
//
// Near a singular posture a tiny target change can demand a large change
// in joint angles:
//
//	s, _ := analysis.TargetSensitivity(cfg, target, 1e-3, 200000)
//	if s.Joint[0] > 10 {
//	    // posture is close to singular along x
//	}
package analysis
