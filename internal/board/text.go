package board

import (
	"RoomBoard/internal/geometry"
	"RoomBoard/internal/state"
)

func (b *Board) beginText(p state.Point) {
	shape, err := state.NewShape(state.KindText, b.style, state.Label{Anchor: p})
	if err != nil {
		b.log.Warn("cannot start text", "err", err)
		return
	}
	geometry.Refresh(&shape, b.measure)

	b.beginGesture()
	b.active = shape.ID
	b.created = true
	b.mode = ModeEditingText
	b.history.ApplyWithoutHistory(b.store.Insert(shape))
	b.changed()
}

// EditText replaces the content of the text being edited.
func (b *Board) EditText(content string) {
	if b.mode != ModeEditingText {
		return
	}
	scene := b.store.UpdateByID(b.active, func(s *state.Shape) {
		if l, ok := s.Geometry.(state.Label); ok {
			l.Content = content
			s.Geometry = l
		}
		geometry.Refresh(s, b.measure)
	})
	b.history.ApplyWithoutHistory(scene)
	b.changed()
}

// Blur closes the text overlay.
func (b *Board) Blur() {
	b.finishText()
}

// finishText closes the edit. An empty new text leaves no trace, an emptied
// existing text is committed as a deletion, and an unchanged text commits
// nothing.
func (b *Board) finishText() {
	if b.mode != ModeEditingText {
		return
	}
	id := b.active
	b.mode = ModeIdle
	defer b.resetGesture()

	shape, ok := b.store.Get(id)
	if !ok {
		b.changed()
		return
	}
	content := labelContent(shape)
	isID := func(s state.Shape) bool { return s.ID == id }

	switch {
	case content == "" && b.created:
		b.history.ApplyWithoutHistory(b.store.RemoveWhere(isID))
		b.pruneSelection()
		b.log.Debug("empty text discarded")
		b.changed()
	case content == "":
		b.commitGesture(b.store.RemoveWhere(isID))
	case !b.created && b.unchangedText(id, content):
		b.changed()
	default:
		scene := b.store.UpdateByID(id, func(s *state.Shape) {
			geometry.Refresh(s, b.measure)
		})
		b.commitGesture(scene)
	}
}

func (b *Board) unchangedText(id, content string) bool {
	i := b.base.Index(id)
	return i >= 0 && labelContent(b.base[i]) == content
}

func labelContent(s state.Shape) string {
	if l, ok := s.Geometry.(state.Label); ok {
		return l.Content
	}
	return ""
}
