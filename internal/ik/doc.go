// Package ik implements an iterative inverse-kinematics solver for planar
// serial chains.
//
// A chain is an ordered list of rigid bones joined by revolute joints that
// all rotate about the out-of-plane axis (0, 0, 1). Each frame the solver
//
//   - evaluates forward kinematics for the current joint angles ([ForwardKinematics]),
//   - builds one geometric Jacobian column per joint ([ComputeJacobian]),
//   - applies a Jacobian-transpose gradient step toward the target ([Stepper]).
//
// The joint-angle vector is the only state carried between frames.
//
// # Example
//
//	s, _ := ik.NewSolver(ik.DefaultSolverConfig())
//	s.SetTarget(20, 15)
//	for {
//		f := s.StepFrame()
//		draw(f.Joints, f.Effector)
//	}
//
// # Thread Safety
//
// Solver and Chain are NOT safe for concurrent use. Run one solver per
// goroutine when solving many targets at once.
package ik
