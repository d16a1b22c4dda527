package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownKind  = errors.New("unknown shape kind")
	ErrKindMismatch = errors.New("geometry does not match shape kind")
	ErrMissingID    = errors.New("shape has no id")
)

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the point moved by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// BoundingBox is an axis-aligned box with non-negative size. It is always
// derived from a shape's geometry, never authored.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b BoundingBox) Right() float64  { return b.X + b.Width }
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Kind discriminates the shape union.
type Kind string

const (
	KindFreehand  Kind = "freehand"
	KindEraser    Kind = "eraser"
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindArrow     Kind = "arrow"
	KindText      Kind = "text"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFreehand, KindEraser, KindRectangle, KindEllipse, KindArrow, KindText:
		return true
	}
	return false
}

// IsStroke reports whether shapes of this kind are point sequences.
func (k Kind) IsStroke() bool {
	return k == KindFreehand || k == KindEraser
}

// Geometry is the per-kind payload of a Shape. The set of implementations
// is closed: Stroke, Frame, Segment and Label.
type Geometry interface {
	Translate(dx, dy float64) Geometry
	Clone() Geometry
	fits(k Kind) bool
}

// Stroke is the payload of freehand and eraser shapes.
type Stroke struct {
	Points []Point
}

func (s Stroke) Translate(dx, dy float64) Geometry {
	pts := make([]Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = p.Add(dx, dy)
	}
	return Stroke{Points: pts}
}

func (s Stroke) Clone() Geometry {
	return Stroke{Points: append([]Point(nil), s.Points...)}
}

// Extend returns the stroke with p appended.
func (s Stroke) Extend(p Point) Stroke {
	return Stroke{Points: append(s.Points, p)}
}

func (s Stroke) fits(k Kind) bool { return k.IsStroke() }

// Frame is the payload of rectangles and ellipses. Width and Height may be
// negative while a drag is in progress.
type Frame struct {
	Origin Point
	Width  float64
	Height float64
}

func (f Frame) Translate(dx, dy float64) Geometry {
	f.Origin = f.Origin.Add(dx, dy)
	return f
}

func (f Frame) Clone() Geometry { return f }

// WithCorner returns the frame stretched so that its far corner is p.
func (f Frame) WithCorner(p Point) Frame {
	f.Width = p.X - f.Origin.X
	f.Height = p.Y - f.Origin.Y
	return f
}

// Normalize moves the origin so that width and height are non-negative.
func (f Frame) Normalize() Frame {
	if f.Width < 0 {
		f.Origin.X += f.Width
		f.Width = -f.Width
	}
	if f.Height < 0 {
		f.Origin.Y += f.Height
		f.Height = -f.Height
	}
	return f
}

func (f Frame) fits(k Kind) bool { return k == KindRectangle || k == KindEllipse }

// Segment is the payload of arrows, pointing from Start to End.
type Segment struct {
	Start Point
	End   Point
}

func (s Segment) Translate(dx, dy float64) Geometry {
	return Segment{Start: s.Start.Add(dx, dy), End: s.End.Add(dx, dy)}
}

func (s Segment) Clone() Geometry { return s }

func (s Segment) fits(k Kind) bool { return k == KindArrow }

// Label is the payload of text shapes. Anchor is the top-left corner of the
// first line.
type Label struct {
	Anchor  Point
	Content string
}

func (l Label) Translate(dx, dy float64) Geometry {
	l.Anchor = l.Anchor.Add(dx, dy)
	return l
}

func (l Label) Clone() Geometry { return l }

func (l Label) fits(k Kind) bool { return k == KindText }

// Style carries the paint attributes. Fields a kind does not use are ignored.
type Style struct {
	Color       string
	StrokeWidth float64
	FontSize    float64
}

type Shape struct {
	ID       string
	Kind     Kind
	Style    Style
	Geometry Geometry
	Bounds   BoundingBox
}

// NewShape builds a shape with a fresh id. Bounds are left zero; callers
// refresh them through the geometry package.
func NewShape(kind Kind, style Style, g Geometry) (Shape, error) {
	if !kind.Valid() {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if g == nil || !g.fits(kind) {
		return Shape{}, fmt.Errorf("%w: %s with %T", ErrKindMismatch, kind, g)
	}
	return Shape{ID: NewID(), Kind: kind, Style: style, Geometry: g}, nil
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	if s.Geometry != nil {
		s.Geometry = s.Geometry.Clone()
	}
	return s
}

// Translate moves the geometry. Bounds are stale afterwards.
func (s *Shape) Translate(dx, dy float64) {
	if s.Geometry != nil {
		s.Geometry = s.Geometry.Translate(dx, dy)
	}
}

// Scene is an ordered shape list; later shapes paint on top.
type Scene []Shape

// Clone deep-copies the scene.
func (sc Scene) Clone() Scene {
	if sc == nil {
		return Scene{}
	}
	out := make(Scene, len(sc))
	for i, s := range sc {
		out[i] = s.Clone()
	}
	return out
}

// Index returns the position of id, or -1.
func (sc Scene) Index(id string) int {
	for i, s := range sc {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (sc Scene) IDs() []string {
	ids := make([]string, len(sc))
	for i, s := range sc {
		ids[i] = s.ID
	}
	return ids
}

type wireShape struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Color       string      `json:"color,omitempty"`
	StrokeWidth float64     `json:"strokeWidth,omitempty"`
	FontSize    float64     `json:"fontSize,omitempty"`
	BoundingBox BoundingBox `json:"boundingBox"`

	Points  []Point  `json:"points,omitempty"`
	Origin  *Point   `json:"origin,omitempty"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
	Start   *Point   `json:"start,omitempty"`
	End     *Point   `json:"end,omitempty"`
	Anchor  *Point   `json:"anchor,omitempty"`
	Content *string  `json:"content,omitempty"`
}

func (s Shape) MarshalJSON() ([]byte, error) {
	w := wireShape{
		ID:          s.ID,
		Kind:        s.Kind,
		Color:       s.Style.Color,
		StrokeWidth: s.Style.StrokeWidth,
		FontSize:    s.Style.FontSize,
		BoundingBox: s.Bounds,
	}
	if s.Geometry == nil || !s.Geometry.fits(s.Kind) {
		return nil, fmt.Errorf("encode shape %s: %w", s.ID, ErrKindMismatch)
	}
	switch g := s.Geometry.(type) {
	case Stroke:
		w.Points = g.Points
	case Frame:
		w.Origin, w.Width, w.Height = &g.Origin, &g.Width, &g.Height
	case Segment:
		w.Start, w.End = &g.Start, &g.End
	case Label:
		w.Anchor, w.Content = &g.Anchor, &g.Content
	}
	return json.Marshal(w)
}

func (s *Shape) UnmarshalJSON(data []byte) error {
	var w wireShape
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return ErrMissingID
	}
	if !w.Kind.Valid() {
		return fmt.Errorf("shape %s: %w: %q", w.ID, ErrUnknownKind, w.Kind)
	}

	var g Geometry
	switch w.Kind {
	case KindFreehand, KindEraser:
		if len(w.Points) == 0 {
			return fmt.Errorf("shape %s: %w: %s without points", w.ID, ErrKindMismatch, w.Kind)
		}
		g = Stroke{Points: w.Points}
	case KindRectangle, KindEllipse:
		if w.Origin == nil || w.Width == nil || w.Height == nil {
			return fmt.Errorf("shape %s: %w: %s without origin and size", w.ID, ErrKindMismatch, w.Kind)
		}
		g = Frame{Origin: *w.Origin, Width: *w.Width, Height: *w.Height}
	case KindArrow:
		if w.Start == nil || w.End == nil {
			return fmt.Errorf("shape %s: %w: arrow without endpoints", w.ID, ErrKindMismatch)
		}
		g = Segment{Start: *w.Start, End: *w.End}
	case KindText:
		if w.Anchor == nil {
			return fmt.Errorf("shape %s: %w: text without anchor", w.ID, ErrKindMismatch)
		}
		l := Label{Anchor: *w.Anchor}
		if w.Content != nil {
			l.Content = *w.Content
		}
		g = l
	}

	*s = Shape{
		ID:       w.ID,
		Kind:     w.Kind,
		Style:    Style{Color: w.Color, StrokeWidth: w.StrokeWidth, FontSize: w.FontSize},
		Geometry: g,
		Bounds:   w.BoundingBox,
	}
	return nil
}
