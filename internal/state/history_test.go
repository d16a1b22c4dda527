package state

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitN commits scenes growing one arrow at a time and returns them.
func commitN(h *History, n int) []Scene {
	var scenes []Scene
	var sc Scene
	for i := 0; i < n; i++ {
		sc = append(sc.Clone(), arrow(fmt.Sprintf("s%d", i)))
		h.Commit(sc)
		scenes = append(scenes, sc.Clone())
	}
	return scenes
}

func TestHistory_Initial(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Cursor())
	assert.Empty(t, h.Current())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	for n := 1; n <= 5; n++ {
		h := NewHistory(0)
		scenes := commitN(h, n)
		prior := h.Current()

		h.Undo()
		got := h.Redo()

		assert.Equal(t, prior, got)
		assert.Equal(t, scenes[n-1], got)
	}
}

func TestHistory_UndoAllThenNoop(t *testing.T) {
	h := NewHistory(0)
	n := 4
	commitN(h, n)
	for i := 0; i < n; i++ {
		h.Undo()
	}
	assert.Empty(t, h.Current())
	assert.Equal(t, 0, h.Cursor())

	got := h.Undo()
	assert.Empty(t, got)
	assert.Equal(t, 0, h.Cursor())
}

func TestHistory_RedoWithoutUndoIsNoop(t *testing.T) {
	h := NewHistory(0)
	commitN(h, 2)
	before := h.Current()
	assert.Equal(t, before, h.Redo())
	assert.Equal(t, 2, h.Cursor())
}

func TestHistory_CommitTruncatesRedoBranch(t *testing.T) {
	h := NewHistory(0)
	commitN(h, 3)
	h.Undo()
	h.Undo()
	require.True(t, h.CanRedo())

	h.Commit(Scene{arrow("branch")})
	assert.False(t, h.CanRedo())
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []string{"branch"}, h.Current().IDs())
}

func TestHistory_ApplyWithoutHistoryReplacesInPlace(t *testing.T) {
	h := NewHistory(0)
	commitN(h, 1)
	h.ApplyWithoutHistory(Scene{arrow("live")})

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []string{"live"}, h.Current().IDs())

	h.Undo()
	assert.Empty(t, h.Current())
	h.Redo()
	assert.Equal(t, []string{"live"}, h.Current().IDs())
}

func TestHistory_OverwriteDropsRedoBranch(t *testing.T) {
	h := NewHistory(0)
	commitN(h, 2)
	h.Undo()
	require.True(t, h.CanRedo())

	h.Overwrite(Scene{arrow("remote")})
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []string{"remote"}, h.Redo().IDs())

	h.Undo()
	assert.Empty(t, h.Current())
}

func TestHistory_ClearDiscardsEverything(t *testing.T) {
	h := NewHistory(0)
	commitN(h, 3)
	h.Undo()
	h.Clear()

	assert.Equal(t, 1, h.Len())
	assert.Empty(t, h.Current())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistory_LimitDropsOldest(t *testing.T) {
	h := NewHistory(3)
	commitN(h, 5)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())

	h.Undo()
	h.Undo()
	assert.Equal(t, []string{"s0", "s1", "s2"}, h.Current().IDs())
	h.Undo()
	assert.Equal(t, []string{"s0", "s1", "s2"}, h.Current().IDs())
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(0)
	sc := Scene{freehand("a", Point{1, 1})}
	h.Commit(sc)
	sc[0].Geometry.(Stroke).Points[0] = Point{9, 9}

	assert.Equal(t, Point{1, 1}, h.Current()[0].Geometry.(Stroke).Points[0])
}
