package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/iksim/internal/ik"
	"github.com/san-kum/iksim/internal/viz"
)

const svgBackground = "#0a0a0a"

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="#00ff00">
`, width, height, width, height, svgBackground))

	dotRadius := scale * 0.4

	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Frame is the world square and pixel size of a vector export.
type Frame struct {
	Extent float64
	Size   int
}

func (f Frame) project(p mgl64.Vec2) (float64, float64) {
	s := float64(f.Size)
	return (p.X()/(2*f.Extent) + 0.5) * s, (0.5 - p.Y()/(2*f.Extent)) * s
}

func header(sb *strings.Builder, size int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, svgBackground))
}

func polyline(sb *strings.Builder, f Frame, points []mgl64.Vec2, stroke string, width float64) {
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, stroke, width))
	for i, p := range points {
		x, y := f.project(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}

// PoseToSVG draws the bones, joints and effector of pose, plus the target
// marker when target is non-nil.
func PoseToSVG(pose *ik.Pose, target *mgl64.Vec2, f Frame) string {
	if pose == nil || len(pose.Joints) == 0 {
		return ""
	}

	var sb strings.Builder
	header(&sb, f.Size)

	points := make([]mgl64.Vec2, 0, len(pose.Joints)+1)
	for _, j := range pose.Joints {
		points = append(points, j.Vec2())
	}
	points = append(points, pose.Effector.Vec2())
	polyline(&sb, f, points, "#ff00ff", 3)

	for i, p := range points[:len(points)-1] {
		x, y := f.project(p)
		r := 4.0
		if i == 0 {
			r = 6
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#00ffff"/>
`, x, y, r))
	}
	ex, ey := f.project(points[len(points)-1])
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="none" stroke="#ffffff" stroke-width="2"/>
`, ex, ey))

	if target != nil {
		tx, ty := f.project(*target)
		sb.WriteString(fmt.Sprintf(`<path stroke="#ffff00" stroke-width="2" d="M%.1f,%.1f L%.1f,%.1f M%.1f,%.1f L%.1f,%.1f"/>
`, tx-6, ty-6, tx+6, ty+6, tx-6, ty+6, tx+6, ty-6))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PathToSVG draws the effector path recorded in a trace.
func PathToSVG(path []mgl64.Vec2, f Frame, strokeColor string) string {
	if len(path) < 2 {
		return ""
	}

	var sb strings.Builder
	header(&sb, f.Size)
	polyline(&sb, f, path, strokeColor, 1.5)
	sb.WriteString("</svg>")
	return sb.String()
}
