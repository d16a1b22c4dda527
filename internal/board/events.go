package board

import "strings"

type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

// shortcut reports whether the platform shortcut key (Ctrl or Cmd) is held.
func (m Modifiers) shortcut() bool { return m.Has(ModCtrl) || m.Has(ModMeta) }

// PointerEvent carries a pointer position in screen pixels.
type PointerEvent struct {
	X, Y      float64
	Button    Button
	Modifiers Modifiers
}

type WheelEvent struct {
	X, Y           float64
	DeltaX, DeltaY float64
	Modifiers      Modifiers
}

// Key names a keyboard key. Letter keys are matched case-insensitively.
type Key string

const (
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "Backspace"
	KeyEscape    Key = "Escape"
	KeyZ         Key = "Z"
	KeyY         Key = "Y"
)

func (k Key) is(other Key) bool { return strings.EqualFold(string(k), string(other)) }

type KeyEvent struct {
	Key       Key
	Modifiers Modifiers
}
