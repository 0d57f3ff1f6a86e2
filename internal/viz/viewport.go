package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport maps the world square [-Extent, Extent]² onto a canvas of Cols x
// Rows cells, with +y pointing up on screen.
type Viewport struct {
	Extent     float64
	Cols, Rows int
}

func (v Viewport) dotsW() float64 { return float64(v.Cols * 2) }
func (v Viewport) dotsH() float64 { return float64(v.Rows * 4) }

// Scale is the number of horizontal dots per world unit.
func (v Viewport) Scale() float64 {
	return v.dotsW() / (2 * v.Extent)
}

// ToCanvas returns the dot containing world point p.
func (v Viewport) ToCanvas(p mgl64.Vec2) (int, int) {
	x := (p.X()/(2*v.Extent) + 0.5) * v.dotsW()
	y := (0.5 - p.Y()/(2*v.Extent)) * v.dotsH()
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToWorld maps a dot position back to world coordinates.
func (v Viewport) ToWorld(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{
		(x/v.dotsW() - 0.5) * 2 * v.Extent,
		(-y/v.dotsH() + 0.5) * 2 * v.Extent,
	}
}

// CellToWorld maps the centre of a terminal cell to world coordinates.
func (v Viewport) CellToWorld(col, row int) mgl64.Vec2 {
	return v.ToWorld(float64(col*2)+1, float64(row*4)+2)
}

// Contains reports whether a terminal cell lies on the canvas.
func (v Viewport) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < v.Cols && row < v.Rows
}
