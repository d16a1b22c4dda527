package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"RoomBoard/internal/board"
	"RoomBoard/internal/state"
)

var keyNames = map[fyne.KeyName]board.Key{
	fyne.KeyDelete:    board.KeyDelete,
	fyne.KeyBackspace: board.KeyBackspace,
	fyne.KeyEscape:    board.KeyEscape,
}

func pointer(pos fyne.Position, b board.Button, mods board.Modifiers) board.PointerEvent {
	return board.PointerEvent{X: float64(pos.X), Y: float64(pos.Y), Button: b, Modifiers: mods}
}

func toButton(b desktop.MouseButton) board.Button {
	switch b {
	case desktop.MouseButtonTertiary:
		return board.ButtonMiddle
	case desktop.MouseButtonSecondary:
		return board.ButtonSecondary
	}
	return board.ButtonPrimary
}

func toModifiers(m fyne.KeyModifier) board.Modifiers {
	var out board.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= board.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= board.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= board.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= board.ModMeta
	}
	return out
}

func textOf(s state.Shape) string {
	if l, ok := s.Geometry.(state.Label); ok {
		return l.Content
	}
	return ""
}

// historyShortcuts are the undo and redo chords, with Ctrl and Cmd.
func historyShortcuts() []*desktop.CustomShortcut {
	var out []*desktop.CustomShortcut
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierControl, fyne.KeyModifierSuper} {
		out = append(out,
			&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod},
			&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod | fyne.KeyModifierShift},
			&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: mod},
		)
	}
	return out
}
