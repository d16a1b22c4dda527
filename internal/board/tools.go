package board

import "RoomBoard/internal/state"

// Tool is the active tool selected in the toolbar.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolFreehand
	ToolRectangle
	ToolEllipse
	ToolArrow
	ToolText
	ToolEraser
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolPan, ToolFreehand, ToolRectangle, ToolEllipse, ToolArrow, ToolText, ToolEraser}

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPan:
		return "pan"
	case ToolFreehand:
		return "freehand"
	case ToolRectangle:
		return "rectangle"
	case ToolEllipse:
		return "ellipse"
	case ToolArrow:
		return "arrow"
	case ToolText:
		return "text"
	case ToolEraser:
		return "eraser"
	}
	return "unknown"
}

// drawKind returns the kind a drag with this tool creates.
func (t Tool) drawKind() (state.Kind, bool) {
	switch t {
	case ToolFreehand:
		return state.KindFreehand, true
	case ToolRectangle:
		return state.KindRectangle, true
	case ToolEllipse:
		return state.KindEllipse, true
	case ToolArrow:
		return state.KindArrow, true
	case ToolEraser:
		return state.KindEraser, true
	}
	return "", false
}

// Mode is the state of the interaction machine.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeDragging
	ModePanning
	ModeEditingText
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModeDragging:
		return "dragging-selection"
	case ModePanning:
		return "panning"
	case ModeEditingText:
		return "editing-text"
	}
	return "unknown"
}
