package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoomBoard/internal/state"
)

type fixedMeasurer struct{ advance, ascent, descent float64 }

func (f fixedMeasurer) Measure(content string, _ float64) TextExtents {
	return TextExtents{Advance: f.advance * float64(len(content)), Ascent: f.ascent, Descent: f.descent}
}

func TestComputeBoundingBox(t *testing.T) {
	m := fixedMeasurer{advance: 10, ascent: 8, descent: 2}
	tests := []struct {
		name  string
		shape state.Shape
		want  state.BoundingBox
	}{
		{
			name: "freehand expands by half stroke",
			shape: state.Shape{Kind: state.KindFreehand, Style: state.Style{StrokeWidth: 4},
				Geometry: state.Stroke{Points: []state.Point{{X: 10, Y: 20}, {X: 30, Y: 5}, {X: 15, Y: 12}}}},
			want: state.BoundingBox{X: 8, Y: 3, Width: 24, Height: 19},
		},
		{
			name: "single point eraser",
			shape: state.Shape{Kind: state.KindEraser, Style: state.Style{StrokeWidth: 20},
				Geometry: state.Stroke{Points: []state.Point{{X: 50, Y: 50}}}},
			want: state.BoundingBox{X: 40, Y: 40, Width: 20, Height: 20},
		},
		{
			name:  "rectangle uses origin and size",
			shape: state.Shape{Kind: state.KindRectangle, Style: state.Style{StrokeWidth: 6}, Geometry: state.Frame{Origin: state.Point{X: 1, Y: 2}, Width: 3, Height: 4}},
			want:  state.BoundingBox{X: 1, Y: 2, Width: 3, Height: 4},
		},
		{
			name:  "ellipse with negative drag size",
			shape: state.Shape{Kind: state.KindEllipse, Geometry: state.Frame{Origin: state.Point{X: 10, Y: 10}, Width: -15, Height: -5}},
			want:  state.BoundingBox{X: -5, Y: 5, Width: 15, Height: 5},
		},
		{
			name:  "arrow spans endpoints",
			shape: state.Shape{Kind: state.KindArrow, Geometry: state.Segment{Start: state.Point{X: 9, Y: 1}, End: state.Point{X: 3, Y: 7}}},
			want:  state.BoundingBox{X: 3, Y: 1, Width: 6, Height: 6},
		},
		{
			name:  "text from measured extents",
			shape: state.Shape{Kind: state.KindText, Style: state.Style{FontSize: 20}, Geometry: state.Label{Anchor: state.Point{X: 5, Y: 5}, Content: "abc"}},
			want:  state.BoundingBox{X: 5, Y: 5, Width: 30, Height: 10},
		},
		{
			name:  "multi-line text uses widest line",
			shape: state.Shape{Kind: state.KindText, Geometry: state.Label{Anchor: state.Point{}, Content: "a\nabcd\nab"}},
			want:  state.BoundingBox{Width: 40, Height: 30},
		},
		{
			name:  "empty text keeps one line of height",
			shape: state.Shape{Kind: state.KindText, Geometry: state.Label{Anchor: state.Point{X: 1, Y: 1}}},
			want:  state.BoundingBox{X: 1, Y: 1, Width: 0, Height: 10},
		},
		{
			name:  "missing geometry",
			shape: state.Shape{Kind: state.KindArrow},
			want:  state.BoundingBox{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBoundingBox(tt.shape, m)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ComputeBoundingBox(tt.shape, m), "box must be deterministic")
			assert.GreaterOrEqual(t, got.Width, 0.0)
			assert.GreaterOrEqual(t, got.Height, 0.0)
		})
	}
}

func TestComputeBoundingBox_NilMeasurer(t *testing.T) {
	s := state.Shape{Kind: state.KindText, Style: state.Style{FontSize: 10}, Geometry: state.Label{Content: "ab"}}
	got := ComputeBoundingBox(s, nil)
	assert.InDelta(t, 12, got.Width, 1e-9)
	assert.InDelta(t, 10, got.Height, 1e-9)
}

func TestHitTest_InclusiveEdges(t *testing.T) {
	s := state.Shape{Bounds: state.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}}
	assert.True(t, HitTest(state.Point{X: 0, Y: 0}, s))
	assert.True(t, HitTest(state.Point{X: 10, Y: 10}, s))
	assert.True(t, HitTest(state.Point{X: 5, Y: 5}, s))
	assert.False(t, HitTest(state.Point{X: 10.1, Y: 5}, s))
	assert.False(t, HitTest(state.Point{X: 5, Y: -0.1}, s))
}

func TestBoxesIntersect(t *testing.T) {
	base := state.BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    state.BoundingBox
		want bool
	}{
		{"overlap", state.BoundingBox{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"contained", state.BoundingBox{X: 2, Y: 2, Width: 1, Height: 1}, true},
		{"touching edge", state.BoundingBox{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"zero area inside", state.BoundingBox{X: 3, Y: 3}, true},
		{"left of", state.BoundingBox{X: -6, Y: 0, Width: 5, Height: 5}, false},
		{"below", state.BoundingBox{X: 0, Y: 11, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BoxesIntersect(base, tt.b))
			assert.Equal(t, tt.want, BoxesIntersect(tt.b, base))
		})
	}
}

func TestBoxAround(t *testing.T) {
	assert.Equal(t, state.BoundingBox{X: 40, Y: 90, Width: 20, Height: 20}, BoxAround(state.Point{X: 50, Y: 100}, 20))
}

func TestTopmostAt_PrefersLaterShapes(t *testing.T) {
	sc := state.Scene{
		{ID: "bottom", Bounds: state.BoundingBox{Width: 100, Height: 100}},
		{ID: "top", Bounds: state.BoundingBox{X: 40, Y: 40, Width: 20, Height: 20}},
	}
	got, ok := TopmostAt(sc, state.Point{X: 50, Y: 50})
	require.True(t, ok)
	assert.Equal(t, "top", got.ID)

	got, ok = TopmostAt(sc, state.Point{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, "bottom", got.ID)

	_, ok = TopmostAt(sc, state.Point{X: 500, Y: 500})
	assert.False(t, ok)
}

func TestSceneBounds(t *testing.T) {
	_, ok := SceneBounds(nil)
	assert.False(t, ok)

	got, ok := SceneBounds(state.Scene{
		{Bounds: state.BoundingBox{X: -5, Y: 0, Width: 5, Height: 5}},
		{Bounds: state.BoundingBox{X: 10, Y: 10, Width: 2, Height: 3}},
	})
	require.True(t, ok)
	assert.Equal(t, state.BoundingBox{X: -5, Y: 0, Width: 17, Height: 13}, got)
}

func TestFontMeasurer(t *testing.T) {
	m, err := NewFontMeasurer()
	require.NoError(t, err)

	short := m.Measure("hi", 20)
	long := m.Measure("hello world", 20)
	assert.Greater(t, short.Ascent, 0.0)
	assert.Greater(t, short.Descent, 0.0)
	assert.Greater(t, long.Advance, short.Advance)
	assert.Equal(t, short, m.Measure("hi", 20))

	big := m.Measure("hi", 40)
	assert.Greater(t, big.Ascent, short.Ascent)

	zero := m.Measure("hi", 0)
	assert.Equal(t, m.Measure("hi", DefaultFontSize), zero)
}
