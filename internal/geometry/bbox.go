// Package geometry computes bounding boxes and performs the coarse hit and
// overlap tests used for selection and erasing.
package geometry

import (
	"math"
	"strings"

	"RoomBoard/internal/state"
)

// ComputeBoundingBox derives the box of s from its current geometry. The
// measurer is only consulted for text; a nil measurer falls back to
// ApproxMeasurer.
func ComputeBoundingBox(s state.Shape, m TextMeasurer) state.BoundingBox {
	switch g := s.Geometry.(type) {
	case state.Stroke:
		return strokeBox(g.Points, s.Style.StrokeWidth)
	case state.Frame:
		f := g.Normalize()
		return state.BoundingBox{X: f.Origin.X, Y: f.Origin.Y, Width: f.Width, Height: f.Height}
	case state.Segment:
		return spanBox(g.Start, g.End)
	case state.Label:
		return textBox(g, s.Style.FontSize, m)
	default:
		return state.BoundingBox{}
	}
}

// Refresh recomputes and stores the bounding box of s.
func Refresh(s *state.Shape, m TextMeasurer) {
	s.Bounds = ComputeBoundingBox(*s, m)
}

// RefreshAll recomputes every box in the scene in place.
func RefreshAll(sc state.Scene, m TextMeasurer) {
	for i := range sc {
		Refresh(&sc[i], m)
	}
}

func strokeBox(pts []state.Point, width float64) state.BoundingBox {
	if len(pts) == 0 {
		return state.BoundingBox{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	half := math.Max(width, 0) / 2
	return state.BoundingBox{
		X:      minX - half,
		Y:      minY - half,
		Width:  maxX - minX + 2*half,
		Height: maxY - minY + 2*half,
	}
}

func spanBox(a, b state.Point) state.BoundingBox {
	x, y := math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return state.BoundingBox{X: x, Y: y, Width: math.Abs(a.X - b.X), Height: math.Abs(a.Y - b.Y)}
}

func textBox(l state.Label, fontSize float64, m TextMeasurer) state.BoundingBox {
	if m == nil {
		m = ApproxMeasurer{}
	}
	lines := strings.Split(l.Content, "\n")
	var width, lineHeight float64
	for _, line := range lines {
		ext := m.Measure(line, fontSize)
		width = math.Max(width, ext.Advance)
		lineHeight = ext.Ascent + ext.Descent
	}
	return state.BoundingBox{
		X:      l.Anchor.X,
		Y:      l.Anchor.Y,
		Width:  width,
		Height: lineHeight * float64(len(lines)),
	}
}

// HitTest reports whether p lies inside the shape's bounding box, edges
// included. There is no path containment test.
func HitTest(p state.Point, s state.Shape) bool {
	b := s.Bounds
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// BoxesIntersect is an inclusive AABB overlap test, so touching and
// zero-area boxes count as intersecting.
func BoxesIntersect(a, b state.BoundingBox) bool {
	return a.X <= b.Right() && b.X <= a.Right() &&
		a.Y <= b.Bottom() && b.Y <= a.Bottom()
}

// BoxAround returns a square of the given side centred on p.
func BoxAround(p state.Point, size float64) state.BoundingBox {
	half := math.Max(size, 0) / 2
	return state.BoundingBox{X: p.X - half, Y: p.Y - half, Width: 2 * half, Height: 2 * half}
}

// TopmostAt returns the last-painted shape whose box contains p.
func TopmostAt(sc state.Scene, p state.Point) (state.Shape, bool) {
	for i := len(sc) - 1; i >= 0; i-- {
		if HitTest(p, sc[i]) {
			return sc[i], true
		}
	}
	return state.Shape{}, false
}

// SceneBounds returns the union of every box in the scene.
func SceneBounds(sc state.Scene) (state.BoundingBox, bool) {
	if len(sc) == 0 {
		return state.BoundingBox{}, false
	}
	minX, minY := sc[0].Bounds.X, sc[0].Bounds.Y
	maxX, maxY := sc[0].Bounds.Right(), sc[0].Bounds.Bottom()
	for _, s := range sc[1:] {
		minX = math.Min(minX, s.Bounds.X)
		minY = math.Min(minY, s.Bounds.Y)
		maxX = math.Max(maxX, s.Bounds.Right())
		maxY = math.Max(maxY, s.Bounds.Bottom())
	}
	return state.BoundingBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}
