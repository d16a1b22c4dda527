package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShape_RejectsMismatchedGeometry(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		geom Geometry
		ok   bool
	}{
		{"freehand stroke", KindFreehand, Stroke{Points: []Point{{1, 2}}}, true},
		{"eraser stroke", KindEraser, Stroke{Points: []Point{{1, 2}}}, true},
		{"rectangle frame", KindRectangle, Frame{}, true},
		{"ellipse frame", KindEllipse, Frame{}, true},
		{"arrow segment", KindArrow, Segment{}, true},
		{"text label", KindText, Label{}, true},
		{"rectangle with stroke", KindRectangle, Stroke{}, false},
		{"text with segment", KindText, Segment{}, false},
		{"nil geometry", KindArrow, nil, false},
		{"unknown kind", Kind("star"), Frame{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShape(tt.kind, Style{}, tt.geom)
			if tt.ok {
				require.NoError(t, err)
				assert.NotEmpty(t, s.ID)
				assert.Equal(t, tt.kind, s.Kind)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestNewShape_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s, err := NewShape(KindArrow, Style{}, Segment{})
		require.NoError(t, err)
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestFrame_Normalize(t *testing.T) {
	f := Frame{Origin: Point{10, 10}}.WithCorner(Point{-5, -5}).Normalize()
	assert.Equal(t, Frame{Origin: Point{-5, -5}, Width: 15, Height: 15}, f)

	f = Frame{Origin: Point{0, 0}, Width: 4, Height: -3}.Normalize()
	assert.Equal(t, Frame{Origin: Point{0, -3}, Width: 4, Height: 3}, f)
}

func TestShape_CloneIsIndependent(t *testing.T) {
	s, err := NewShape(KindFreehand, Style{Color: "red", StrokeWidth: 2}, Stroke{Points: []Point{{0, 0}, {1, 1}}})
	require.NoError(t, err)

	c := s.Clone()
	st := c.Geometry.(Stroke)
	st.Points[0] = Point{99, 99}

	assert.Equal(t, Point{0, 0}, s.Geometry.(Stroke).Points[0])
}

func TestShape_Translate(t *testing.T) {
	s, err := NewShape(KindArrow, Style{}, Segment{Start: Point{1, 1}, End: Point{2, 3}})
	require.NoError(t, err)
	s.Translate(10, -1)
	assert.Equal(t, Segment{Start: Point{11, 0}, End: Point{12, 2}}, s.Geometry)
}

func TestShape_JSONByKind(t *testing.T) {
	shapes := []Shape{
		{ID: "a", Kind: KindFreehand, Style: Style{Color: "black", StrokeWidth: 3}, Geometry: Stroke{Points: []Point{{1, 2}, {3, 4}}}},
		{ID: "b", Kind: KindEraser, Style: Style{StrokeWidth: 20}, Geometry: Stroke{Points: []Point{{0, 0}}}},
		{ID: "c", Kind: KindRectangle, Style: Style{Color: "#ff0000"}, Geometry: Frame{Origin: Point{0, 0}, Width: 0, Height: 5}},
		{ID: "d", Kind: KindEllipse, Geometry: Frame{Origin: Point{1, 1}, Width: 2, Height: 2}},
		{ID: "e", Kind: KindArrow, Geometry: Segment{Start: Point{0, 0}, End: Point{5, 5}}},
		{ID: "f", Kind: KindText, Style: Style{FontSize: 20}, Geometry: Label{Anchor: Point{4, 4}, Content: "hi"}},
	}
	data, err := json.Marshal(Scene(shapes))
	require.NoError(t, err)

	var got Scene
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Scene(shapes), got)
}

func TestShape_JSONWireFields(t *testing.T) {
	s := Shape{ID: "r1", Kind: KindRectangle, Style: Style{Color: "blue", StrokeWidth: 2}, Geometry: Frame{Origin: Point{1, 2}, Width: 3, Height: 4}}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "rectangle", raw["kind"])
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, raw["origin"])
	assert.Equal(t, 3.0, raw["width"])
	assert.NotContains(t, raw, "points")
	assert.Contains(t, raw, "boundingBox")
}

func TestShape_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown kind", `{"id":"x","kind":"star"}`, ErrUnknownKind},
		{"missing id", `{"kind":"arrow","start":{"x":0,"y":0},"end":{"x":1,"y":1}}`, ErrMissingID},
		{"stroke without points", `{"id":"x","kind":"freehand"}`, ErrKindMismatch},
		{"rectangle without size", `{"id":"x","kind":"rectangle","origin":{"x":0,"y":0}}`, ErrKindMismatch},
		{"arrow without end", `{"id":"x","kind":"arrow","start":{"x":0,"y":0}}`, ErrKindMismatch},
		{"text without anchor", `{"id":"x","kind":"text","content":"a"}`, ErrKindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Shape
			err := json.Unmarshal([]byte(tt.in), &s)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestShape_MarshalRejectsMismatch(t *testing.T) {
	_, err := json.Marshal(Shape{ID: "x", Kind: KindText, Geometry: Frame{}})
	require.ErrorIs(t, err, ErrKindMismatch)
}
