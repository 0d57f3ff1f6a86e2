package viz

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/iksim/internal/ik"
)

// Scene is everything drawn for one frame.
type Scene struct {
	Pose      *ik.Pose
	Target    mgl64.Vec2
	HasTarget bool
	Reach     float64
	ShowReach bool
	Trail     []mgl64.Vec2
}

// DrawScene renders the chain, its trail and the target marker.
func DrawScene(c *Canvas, v Viewport, s Scene) {
	c.Clear()

	bx, by := v.ToCanvas(mgl64.Vec2{})
	if s.ShowReach && s.Reach > 0 {
		c.DrawCircle(bx, by, int(s.Reach*v.Scale()+0.5))
	}

	for _, p := range s.Trail {
		x, y := v.ToCanvas(p)
		c.Set(x, y)
	}

	if s.Pose != nil && len(s.Pose.Joints) > 0 {
		px, py := v.ToCanvas(s.Pose.Joints[0].Vec2())
		c.DrawDisc(px, py, 2)
		for _, j := range s.Pose.Joints[1:] {
			x, y := v.ToCanvas(j.Vec2())
			c.DrawLine(px, py, x, y)
			c.DrawDisc(x, y, 1)
			px, py = x, y
		}
		ex, ey := v.ToCanvas(s.Pose.Effector.Vec2())
		c.DrawLine(px, py, ex, ey)
		c.DrawCircle(ex, ey, 2)
	}

	if s.HasTarget {
		tx, ty := v.ToCanvas(s.Target)
		c.DrawCross(tx, ty, 3)
	}
}
