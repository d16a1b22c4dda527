package state

// History is a linear undo stack of whole-scene snapshots.
//
// snapshots[cursor] is always the scene on display. Committing after an
// undo discards the redo branch. When limit is positive the oldest
// snapshots are dropped once more than limit are retained.
type History struct {
	snapshots []Scene
	cursor    int
	limit     int
}

// NewHistory returns a history holding a single empty scene. A limit of
// zero or less keeps every snapshot.
func NewHistory(limit int) *History {
	return &History{snapshots: []Scene{{}}, limit: limit}
}

// Commit records scene as a new undoable step.
func (h *History) Commit(scene Scene) {
	h.snapshots = append(h.snapshots[:h.cursor+1], scene.Clone())
	if h.limit > 0 && len(h.snapshots) > h.limit {
		drop := len(h.snapshots) - h.limit
		h.snapshots = append([]Scene(nil), h.snapshots[drop:]...)
	}
	h.cursor = len(h.snapshots) - 1
}

// ApplyWithoutHistory replaces the current snapshot in place. Used for
// in-progress frames of a gesture.
func (h *History) ApplyWithoutHistory(scene Scene) {
	h.snapshots[h.cursor] = scene.Clone()
}

// Overwrite replaces the current snapshot with a scene that came from
// elsewhere and drops the redo branch, which no longer leads anywhere from
// it. Undo still steps back through local snapshots.
func (h *History) Overwrite(scene Scene) {
	h.snapshots = append(h.snapshots[:h.cursor], scene.Clone())
}

// Undo steps back one snapshot, if there is one, and returns the current
// scene.
func (h *History) Undo() Scene {
	if h.cursor > 0 {
		h.cursor--
	}
	return h.Current()
}

// Redo steps forward one snapshot, if there is one, and returns the current
// scene.
func (h *History) Redo() Scene {
	if h.cursor < len(h.snapshots)-1 {
		h.cursor++
	}
	return h.Current()
}

// Clear resets to a single empty scene. The cleared state cannot be undone.
func (h *History) Clear() {
	h.snapshots = []Scene{{}}
	h.cursor = 0
}

// Current returns a copy of the scene on display.
func (h *History) Current() Scene {
	return h.snapshots[h.cursor].Clone()
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
func (h *History) Len() int      { return len(h.snapshots) }
func (h *History) Cursor() int   { return h.cursor }
