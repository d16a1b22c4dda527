package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"

	"RoomBoard/internal/state"
	"RoomBoard/internal/view"
)

const (
	// coordLimit bounds the screen coordinates handed to gg. Segments that
	// reach further are cut down to the surface plus clipMargin first.
	coordLimit = 1 << 20
	clipMargin = 1 << 10
)

// surface batches vector drawing in a gg context over dst. Glyphs are drawn
// straight into dst, so the context is flushed before every label to keep
// scene order.
type surface struct {
	dst   *image.RGBA
	dc    *gg.Context
	width float64
	dirty bool
	err   error
}

func newSurface(dst *image.RGBA) *surface {
	return &surface{dst: dst, dc: gg.NewContext(dst.Rect.Dx(), dst.Rect.Dy())}
}

func (s *surface) close() {
	_ = s.dc.Close()
}

// flush composites pending strokes over dst and clears the context.
func (s *surface) flush() {
	if !s.dirty {
		return
	}
	if err := s.dc.FlushGPU(); err != nil {
		s.fail(err)
	}
	draw.Draw(s.dst, s.dst.Rect, straight(s.dc.Image()), image.Point{}, draw.Over)
	s.dc.Clear()
	s.dirty = false
}

// coverage returns the alpha the context has painted so far and clears it.
func (s *surface) coverage() *gg.Mask {
	if err := s.dc.FlushGPU(); err != nil {
		s.fail(err)
	}
	m := gg.NewMaskFromAlpha(s.dc.Image())
	s.dc.Clear()
	s.dirty = false
	return m
}

func (s *surface) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *surface) pen(c color.Color, width float64) {
	s.width = width
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
}

// shape strokes the outline of s in screen space with color c.
func (s *surface) shape(sh state.Shape, v view.Transform, c color.Color) {
	s.pen(c, math.Max(math.Max(sh.Style.StrokeWidth, 1)*v.Zoom, 1))

	switch g := sh.Geometry.(type) {
	case state.Stroke:
		s.polyline(toScreen(v, g.Points...), false)
	case state.Frame:
		f := g.Normalize()
		if sh.Kind == state.KindEllipse {
			s.ellipse(f, v)
			break
		}
		o := f.Origin
		s.polyline(toScreen(v,
			o,
			o.Add(f.Width, 0),
			o.Add(f.Width, f.Height),
			o.Add(0, f.Height),
		), true)
	case state.Segment:
		s.polyline(toScreen(v, g.Start, g.End), false)
		for _, barb := range arrowHead(g, math.Max(sh.Style.StrokeWidth, 1)) {
			s.polyline(toScreen(v, g.End, barb), false)
		}
	case state.Label:
		// Text is drawn with glyphs, not a stroked path.
	}
}

// polyline strokes pts with the current pen. A single point, or a run of
// identical points, leaves a round dot.
func (s *surface) polyline(pts []state.Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	if same(pts) {
		x, y := pts[0].X, pts[0].Y
		if far(pts[0]) {
			return
		}
		s.dc.DrawCircle(x, y, s.width/2)
		s.fill()
		return
	}
	if closed {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}

	var last state.Point
	drawing := false
	for i := 1; i < len(pts); i++ {
		a, b, ok := s.clip(pts[i-1], pts[i])
		if !ok {
			drawing = false
			continue
		}
		if !drawing || a != last {
			s.dc.MoveTo(a.X, a.Y)
		}
		s.dc.LineTo(b.X, b.Y)
		last, drawing = b, true
	}
	s.stroke()
}

func (s *surface) ellipse(f state.Frame, v view.Transform) {
	cx, cy := v.WorldToScreen(state.Point{X: f.Origin.X + f.Width/2, Y: f.Origin.Y + f.Height/2})
	rx, ry := f.Width/2*v.Zoom, f.Height/2*v.Zoom
	if rx == 0 || ry == 0 || far(state.Point{X: math.Abs(cx) + rx, Y: math.Abs(cy) + ry}) {
		s.polyline(ellipsePoints(f, v), true)
		return
	}
	s.dc.DrawEllipse(cx, cy, rx, ry)
	s.stroke()
}

func (s *surface) rect(b state.BoundingBox, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	s.fill()
}

func (s *surface) stroke() {
	if err := s.dc.Stroke(); err != nil {
		s.fail(err)
	}
	s.dirty = true
}

func (s *surface) fill() {
	if err := s.dc.Fill(); err != nil {
		s.fail(err)
	}
	s.dirty = true
}

// clip cuts segment ab down to the surface plus clipMargin when either end
// lies beyond coordLimit.
func (s *surface) clip(a, b state.Point) (state.Point, state.Point, bool) {
	if !far(a) && !far(b) {
		return a, b, true
	}
	w, h := float64(s.dc.Width()), float64(s.dc.Height())
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, a.X + clipMargin},
		{dx, w + clipMargin - a.X},
		{-dy, a.Y + clipMargin},
		{dy, h + clipMargin - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if math.IsNaN(t) {
			return a, b, false
		}
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return state.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, state.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func far(p state.Point) bool {
	return !(math.Abs(p.X) <= coordLimit && math.Abs(p.Y) <= coordLimit)
}

func same(pts []state.Point) bool {
	for _, p := range pts[1:] {
		if p != pts[0] {
			return false
		}
	}
	return true
}

// straight reads a gg image as non-premultiplied, which is how gg keeps its
// pixels.
func straight(img image.Image) image.Image {
	if rgba, ok := img.(*image.RGBA); ok {
		return &image.NRGBA{Pix: rgba.Pix, Stride: rgba.Stride, Rect: rgba.Rect}
	}
	return img
}

// cutOut removes the coverage of m from dst, destination-out style: a pixel
// keeps (1 - coverage) of its value.
func cutOut(dst *image.RGBA, m *gg.Mask) {
	m.Invert()
	keep := &image.Alpha{Pix: m.Data(), Stride: m.Width(), Rect: m.Bounds()}
	out := image.NewRGBA(dst.Rect)
	draw.DrawMask(out, out.Rect, dst, dst.Rect.Min, keep, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Rect, out, out.Rect.Min, draw.Src)
}

// Flatten composites src over a solid background into a new image. Eraser
// holes show the background.
func Flatten(src *image.RGBA, bg color.Color) *image.RGBA {
	out := image.NewRGBA(src.Rect)
	draw.Draw(out, out.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Rect, src, src.Rect.Min, draw.Over)
	return out
}
