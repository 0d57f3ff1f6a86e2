// Package viz renders a planar chain in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live solver view; a left click sets the target
//   - [Canvas]: Braille-based pixel canvas
//   - [Viewport]: world to canvas mapping, and back for mouse input
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume solving
//	R      - Reset joint angles
//	C      - Clear target
//	Arrows - Nudge target
//	+/-    - Frames per tick
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
