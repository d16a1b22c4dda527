package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrow(id string) Shape {
	return Shape{ID: id, Kind: KindArrow, Geometry: Segment{End: Point{1, 1}}}
}

func freehand(id string, pts ...Point) Shape {
	return Shape{ID: id, Kind: KindFreehand, Style: Style{StrokeWidth: 2}, Geometry: Stroke{Points: pts}}
}

func TestStore_InsertKeepsPaintOrder(t *testing.T) {
	s := NewStore()
	s.Insert(arrow("a"))
	s.Insert(arrow("b"))
	got := s.Insert(arrow("c"))
	assert.Equal(t, []string{"a", "b", "c"}, got.IDs())
	assert.Equal(t, 3, s.Len())
}

func TestStore_InsertExistingIDMovesToTop(t *testing.T) {
	s := NewStore()
	s.Insert(arrow("a"))
	s.Insert(arrow("b"))
	got := s.Insert(arrow("a"))
	assert.Equal(t, []string{"b", "a"}, got.IDs())
}

func TestStore_ReplaceAllDropsDuplicates(t *testing.T) {
	s := NewStore()
	s.Insert(arrow("x"))
	got := s.ReplaceAll(Scene{arrow("a"), arrow("b"), arrow("a")})
	assert.Equal(t, []string{"a", "b"}, got.IDs())
}

func TestStore_RemoveWhere(t *testing.T) {
	s := NewStore()
	s.ReplaceAll(Scene{arrow("a"), freehand("b", Point{}), arrow("c")})
	got := s.RemoveWhere(func(sh Shape) bool { return sh.Kind == KindArrow })
	assert.Equal(t, []string{"b"}, got.IDs())
}

func TestStore_UpdateByIDIsCopyOnWrite(t *testing.T) {
	s := NewStore()
	before := s.Insert(freehand("a", Point{0, 0}))

	after := s.UpdateByID("a", func(sh *Shape) {
		sh.Geometry = sh.Geometry.(Stroke).Extend(Point{5, 5})
		sh.ID = "renamed"
	})

	require.Len(t, after, 1)
	assert.Equal(t, "a", after[0].ID)
	assert.Len(t, after[0].Geometry.(Stroke).Points, 2)
	assert.Len(t, before[0].Geometry.(Stroke).Points, 1)
}

func TestStore_UpdateUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	s.Insert(arrow("a"))
	called := false
	got := s.UpdateByID("missing", func(*Shape) { called = true })
	assert.False(t, called)
	assert.Equal(t, []string{"a"}, got.IDs())
}

func TestStore_ReturnedScenesAreCopies(t *testing.T) {
	s := NewStore()
	got := s.Insert(freehand("a", Point{1, 1}))
	got[0].Geometry.(Stroke).Points[0] = Point{42, 42}

	sh, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, Point{1, 1}, sh.Geometry.(Stroke).Points[0])
}
