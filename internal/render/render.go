// Package render paints a scene into an RGBA surface with gg. Regular shapes
// are painted first in scene order, then the coverage of every eraser stroke
// is cut out of the result, then selection and text-edit overlays.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"RoomBoard/internal/state"
	"RoomBoard/internal/view"
)

var ErrNoSurface = errors.New("render: no surface")

const (
	handleSize     = 6.0
	selectionPad   = 4.0
	ellipseSteps   = 64
	arrowHeadAngle = math.Pi / 6
)

// Frame is everything one render pass needs.
type Frame struct {
	Scene     state.Scene
	Selection []string
	View      view.Transform
	EditingID string
}

// FaceSource hands out font faces by pixel size.
// geometry.FontMeasurer implements it.
type FaceSource interface {
	Face(size float64) (font.Face, error)
}

type Renderer struct {
	mu    sync.Mutex
	faces FaceSource
	log   *slog.Logger
}

// New returns a renderer. With a nil face source text falls back to a fixed
// bitmap face.
func New(faces FaceSource, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{faces: faces, log: log}
}

// Render paints f into dst. Screen (0, 0) maps to dst.Rect.Min. A nil or
// empty surface skips the frame.
func (r *Renderer) Render(dst *image.RGBA, f Frame) error {
	if dst == nil || dst.Rect.Empty() {
		return ErrNoSurface
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	v := f.View
	draw.Draw(dst, dst.Rect, image.Transparent, image.Point{}, draw.Src)

	sf := newSurface(dst)
	defer sf.close()

	var erasers []state.Shape
	for _, s := range f.Scene {
		if s.Kind == state.KindEraser {
			erasers = append(erasers, s)
			continue
		}
		if l, ok := s.Geometry.(state.Label); ok {
			sf.flush()
			r.text(dst, l, s.Style.FontSize, r.color(s), v)
			continue
		}
		sf.shape(s, v, r.color(s))
	}
	sf.flush()

	if len(erasers) > 0 {
		for _, s := range erasers {
			sf.shape(s, v, color.White)
		}
		cutOut(dst, sf.coverage())
	}

	r.decorate(sf, f.Scene, f.Selection, v)
	if f.EditingID != "" {
		if i := f.Scene.Index(f.EditingID); i >= 0 {
			r.overlay(sf, f.Scene[i], v)
		}
	}
	sf.flush()
	if sf.err != nil {
		return fmt.Errorf("render: %w", sf.err)
	}
	return nil
}

func arrowHead(g state.Segment, strokeWidth float64) []state.Point {
	dx, dy := g.End.X-g.Start.X, g.End.Y-g.Start.Y
	if dx == 0 && dy == 0 {
		return nil
	}
	length := math.Max(10, 3*strokeWidth)
	angle := math.Atan2(dy, dx)
	barbs := make([]state.Point, 0, 2)
	for _, a := range []float64{angle + math.Pi - arrowHeadAngle, angle + math.Pi + arrowHeadAngle} {
		barbs = append(barbs, g.End.Add(length*math.Cos(a), length*math.Sin(a)))
	}
	return barbs
}

// ellipsePoints approximates f with a polygon, for ellipses too large or too
// flat to hand to gg directly.
func ellipsePoints(f state.Frame, v view.Transform) []state.Point {
	cx, cy := f.Origin.X+f.Width/2, f.Origin.Y+f.Height/2
	pts := make([]state.Point, ellipseSteps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSteps
		pts[i] = state.Point{X: cx + f.Width/2*math.Cos(a), Y: cy + f.Height/2*math.Sin(a)}
	}
	return toScreen(v, pts...)
}

func (r *Renderer) text(dst *image.RGBA, l state.Label, fontSize float64, c color.Color, v view.Transform) {
	if l.Content == "" {
		return
	}
	face := r.face(fontSize * v.Zoom)
	metrics := face.Metrics()
	lineHeight := metrics.Ascent + metrics.Descent
	x, y := v.WorldToScreen(l.Anchor)
	x += float64(dst.Rect.Min.X)
	y += float64(dst.Rect.Min.Y)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	for i, line := range strings.Split(l.Content, "\n") {
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(math.Round(x * 64)),
			Y: fixed.Int26_6(math.Round(y*64)) + metrics.Ascent + fixed.Int26_6(i)*lineHeight,
		}
		d.DrawString(line)
	}
}

// decorate outlines every selected shape and marks its corners.
func (r *Renderer) decorate(sf *surface, scene state.Scene, selection []string, v view.Transform) {
	for _, id := range selection {
		i := scene.Index(id)
		if i < 0 {
			continue
		}
		box := pad(v.BoxToScreen(scene[i].Bounds), selectionPad)
		sf.pen(selectionColor, 1)
		sf.polyline(corners(box), true)
		for _, c := range corners(box) {
			sf.rect(state.BoundingBox{X: c.X - handleSize/2, Y: c.Y - handleSize/2, Width: handleSize, Height: handleSize}, selectionColor)
		}
	}
}

// overlay draws the edit frame and a caret after the last line of the text
// under edit.
func (r *Renderer) overlay(sf *surface, s state.Shape, v view.Transform) {
	l, ok := s.Geometry.(state.Label)
	if !ok {
		return
	}
	sf.pen(overlayColor, 1)
	sf.polyline(corners(pad(v.BoxToScreen(s.Bounds), 2)), true)

	face := r.face(s.Style.FontSize * v.Zoom)
	metrics := face.Metrics()
	lineHeight := fixedToFloat(metrics.Ascent + metrics.Descent)
	lines := strings.Split(l.Content, "\n")
	last := len(lines) - 1

	x, y := v.WorldToScreen(l.Anchor)
	cx := x + fixedToFloat(font.MeasureString(face, lines[last]))
	top := y + float64(last)*lineHeight
	sf.pen(overlayColor, 1.5)
	sf.polyline([]state.Point{{X: cx, Y: top}, {X: cx, Y: top + lineHeight}}, false)
}

func (r *Renderer) face(size float64) font.Face {
	if r.faces != nil {
		face, err := r.faces.Face(size)
		if err == nil {
			return face
		}
		r.log.Debug("font face unavailable", "size", size, "err", err)
	}
	return basicfont.Face7x13
}

func (r *Renderer) color(s state.Shape) color.RGBA {
	c, err := ParseColor(s.Style.Color)
	if err != nil {
		r.log.Debug("falling back to black", "shape", s.ID, "err", err)
		return color.RGBA{A: 0xff}
	}
	return c
}

func toScreen(v view.Transform, pts ...state.Point) []state.Point {
	out := make([]state.Point, len(pts))
	for i, p := range pts {
		x, y := v.WorldToScreen(p)
		out[i] = state.Point{X: x, Y: y}
	}
	return out
}

func corners(b state.BoundingBox) []state.Point {
	return []state.Point{
		{X: b.X, Y: b.Y},
		{X: b.Right(), Y: b.Y},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.X, Y: b.Bottom()},
	}
}

func pad(b state.BoundingBox, n float64) state.BoundingBox {
	return state.BoundingBox{X: b.X - n, Y: b.Y - n, Width: b.Width + 2*n, Height: b.Height + 2*n}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
