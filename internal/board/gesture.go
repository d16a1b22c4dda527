package board

import (
	"RoomBoard/internal/geometry"
	"RoomBoard/internal/state"
)

// PointerDown starts a gesture according to the active tool. While a text
// edit is open the press only ends the edit.
func (b *Board) PointerDown(e PointerEvent) {
	if b.mode == ModeEditingText {
		b.finishText()
		return
	}
	if b.mode != ModeIdle {
		b.endGesture()
	}

	if e.Button == ButtonMiddle || (e.Button == ButtonPrimary && b.tool == ToolPan) {
		b.mode = ModePanning
		b.panX, b.panY = e.X, e.Y
		return
	}
	if e.Button != ButtonPrimary {
		return
	}

	p := b.view.ScreenToWorld(e.X, e.Y)
	switch b.tool {
	case ToolSelect:
		b.beginSelect(p, e.Modifiers)
	case ToolText:
		b.beginText(p)
	default:
		b.beginDraw(p)
	}
}

func (b *Board) PointerMove(e PointerEvent) {
	switch b.mode {
	case ModePanning:
		b.view.Pan(e.X-b.panX, e.Y-b.panY)
		b.panX, b.panY = e.X, e.Y
		b.changed()

	case ModeDrawing:
		p := b.view.ScreenToWorld(e.X, e.Y)
		scene := b.store.UpdateByID(b.active, func(s *state.Shape) {
			switch g := s.Geometry.(type) {
			case state.Stroke:
				s.Geometry = g.Extend(p)
			case state.Frame:
				s.Geometry = g.WithCorner(p)
			case state.Segment:
				g.End = p
				s.Geometry = g
			}
			geometry.Refresh(s, b.measure)
		})
		if b.tool == ToolEraser {
			scene = b.eraseAt(p)
		}
		b.history.ApplyWithoutHistory(scene)
		b.changed()

	case ModeDragging:
		p := b.view.ScreenToWorld(e.X, e.Y)
		dx, dy := p.X-b.last.X, p.Y-b.last.Y
		if dx == 0 && dy == 0 {
			return
		}
		b.last = p
		for id := range b.selection {
			b.store.UpdateByID(id, func(s *state.Shape) {
				s.Translate(dx, dy)
				geometry.Refresh(s, b.measure)
			})
		}
		b.moved = true
		b.history.ApplyWithoutHistory(b.store.Shapes())
		b.changed()
	}
}

func (b *Board) PointerUp(e PointerEvent) {
	b.endGesture()
}

// PointerLeave ends the gesture exactly like PointerUp, so a stroke that
// leaves the surface is committed as far as it got.
func (b *Board) PointerLeave(e PointerEvent) {
	b.endGesture()
}

// DoubleClick with the select tool opens the text shape under the pointer
// for editing.
func (b *Board) DoubleClick(e PointerEvent) {
	if b.tool != ToolSelect || e.Button != ButtonPrimary {
		return
	}
	b.settle()
	hit, ok := geometry.TopmostAt(b.store.Shapes(), b.view.ScreenToWorld(e.X, e.Y))
	if !ok || hit.Kind != state.KindText {
		return
	}
	b.beginGesture()
	b.active = hit.ID
	b.created = false
	b.mode = ModeEditingText
	b.selection = map[string]bool{hit.ID: true}
	b.changed()
}

// Wheel zooms about the pointer.
func (b *Board) Wheel(e WheelEvent) {
	b.view.Wheel(e.DeltaY, e.X, e.Y)
	b.changed()
}

// KeyDown handles the global shortcuts and reports whether the key was
// consumed. While a text edit is open only Escape is handled.
func (b *Board) KeyDown(e KeyEvent) bool {
	if b.mode == ModeEditingText {
		if e.Key.is(KeyEscape) {
			b.finishText()
			return true
		}
		return false
	}

	mods := e.Modifiers
	switch {
	case e.Key.is(KeyDelete), e.Key.is(KeyBackspace):
		b.DeleteSelected()
	case e.Key.is(KeyEscape):
		if len(b.selection) > 0 {
			b.selection = make(map[string]bool)
			b.changed()
		}
	case mods.shortcut() && e.Key.is(KeyZ) && mods.Has(ModShift):
		b.Redo()
	case mods.shortcut() && e.Key.is(KeyZ):
		b.Undo()
	case mods.shortcut() && e.Key.is(KeyY):
		b.Redo()
	default:
		return false
	}
	return true
}

func (b *Board) beginDraw(p state.Point) {
	kind, ok := b.tool.drawKind()
	if !ok {
		return
	}
	style := b.style
	var g state.Geometry
	switch kind {
	case state.KindFreehand:
		g = state.Stroke{Points: []state.Point{p}}
	case state.KindEraser:
		style.StrokeWidth = b.eraserWidth
		g = state.Stroke{Points: []state.Point{p}}
	case state.KindRectangle, state.KindEllipse:
		g = state.Frame{Origin: p}
	case state.KindArrow:
		g = state.Segment{Start: p, End: p}
	}
	shape, err := state.NewShape(kind, style, g)
	if err != nil {
		b.log.Warn("cannot start shape", "kind", kind, "err", err)
		return
	}
	geometry.Refresh(&shape, b.measure)

	b.beginGesture()
	b.active = shape.ID
	b.created = true
	b.mode = ModeDrawing

	scene := b.store.Insert(shape)
	if kind == state.KindEraser {
		scene = b.eraseAt(p)
	}
	b.history.ApplyWithoutHistory(scene)
	b.changed()
}

// beginSelect picks the topmost shape under p. Shift toggles membership;
// pressing on a shape that is already selected keeps the group so it can be
// dragged together.
func (b *Board) beginSelect(p state.Point, mods Modifiers) {
	hit, ok := geometry.TopmostAt(b.store.Shapes(), p)
	if !ok {
		if len(b.selection) > 0 {
			b.selection = make(map[string]bool)
			b.changed()
		}
		return
	}

	switch {
	case mods.Has(ModShift) && b.selection[hit.ID]:
		delete(b.selection, hit.ID)
		b.changed()
		return
	case mods.Has(ModShift):
		b.selection[hit.ID] = true
	case !b.selection[hit.ID]:
		b.selection = map[string]bool{hit.ID: true}
	}

	b.beginGesture()
	b.mode = ModeDragging
	b.last = p
	b.moved = false
	b.changed()
}

// endGesture finishes drawing, dragging or panning. Text editing is left
// alone; it ends through finishText.
func (b *Board) endGesture() {
	switch b.mode {
	case ModePanning:
		b.mode = ModeIdle

	case ModeDrawing:
		scene := b.store.UpdateByID(b.active, func(s *state.Shape) {
			if f, ok := s.Geometry.(state.Frame); ok {
				s.Geometry = f.Normalize()
			}
			geometry.Refresh(s, b.measure)
		})
		b.mode = ModeIdle
		b.commitGesture(scene)
		b.resetGesture()

	case ModeDragging:
		b.mode = ModeIdle
		if b.moved {
			b.commitGesture(b.store.Shapes())
		}
		b.resetGesture()
	}
}

// eraseAt removes every rigid shape whose box touches the eraser footprint at
// p. Strokes stay; the renderer cuts them visually.
func (b *Board) eraseAt(p state.Point) state.Scene {
	reach := geometry.BoxAround(p, b.eraserWidth)
	removed := 0
	scene := b.store.RemoveWhere(func(s state.Shape) bool {
		hit := !s.Kind.IsStroke() && geometry.BoxesIntersect(reach, s.Bounds)
		if hit {
			removed++
		}
		return hit
	})
	if removed > 0 {
		b.pruneSelection()
		b.log.Debug("eraser removed shapes", "count", removed)
	}
	return scene
}
