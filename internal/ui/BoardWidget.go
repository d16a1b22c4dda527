package ui

import (
	"image"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"RoomBoard/internal/board"
	"RoomBoard/internal/render"
)

// scrollNotch is the fyne scroll delta of one wheel notch; the board
// expects 100 per notch.
const scrollNotch = 10

// BoardWidget paints a board and feeds it pointer and keyboard input. All
// of its methods run on the fyne main goroutine, which also owns the board.
type BoardWidget struct {
	widget.BaseWidget
	board    *board.Board
	renderer *render.Renderer
	raster   *canvas.Raster
	log      *slog.Logger

	pressed bool
	focused bool
	lastPos fyne.Position
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Focusable = (*BoardWidget)(nil)
var _ fyne.Shortcutable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board, r *render.Renderer, log *slog.Logger) *BoardWidget {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := &BoardWidget{board: b, renderer: r, log: log}
	w.ExtendBaseWidget(w)
	b.OnChange(w.Refresh)
	return w
}

func (w *BoardWidget) Board() *board.Board { return w.board }

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	w.raster = canvas.NewRaster(w.draw)
	return widget.NewSimpleRenderer(w.raster)
}

func (w *BoardWidget) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

// draw renders the current frame at the raster's pixel size over white.
func (w *BoardWidget) draw(pw, ph int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, pw, ph))
	f := w.board.Frame()
	if size := w.Size(); size.Width > 0 {
		scale := float64(pw) / float64(size.Width)
		f.View.Zoom *= scale
		f.View.OffsetX *= scale
		f.View.OffsetY *= scale
	}
	if err := w.renderer.Render(dst, f); err != nil {
		return dst
	}
	return render.Flatten(dst, color.White)
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	w.requestFocus()
	w.pressed = true
	w.lastPos = e.Position
	w.board.PointerDown(pointer(e.Position, toButton(e.Button), toModifiers(e.Modifier)))
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	w.pressed = false
	w.board.PointerUp(pointer(e.Position, toButton(e.Button), toModifiers(e.Modifier)))
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.lastPos = e.Position
	w.board.PointerMove(pointer(e.Position, board.ButtonPrimary, 0))
}

// DragEnd covers a release that happened outside the widget.
func (w *BoardWidget) DragEnd() {
	if w.pressed {
		w.pressed = false
		w.board.PointerUp(pointer(w.lastPos, board.ButtonPrimary, 0))
	}
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if w.pressed {
		return
	}
	w.lastPos = e.Position
	w.board.PointerMove(pointer(e.Position, toButton(e.Button), toModifiers(e.Modifier)))
}

func (w *BoardWidget) MouseOut() {
	w.board.PointerLeave(pointer(w.lastPos, board.ButtonPrimary, 0))
}

func (w *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	w.board.DoubleClick(pointer(e.Position, board.ButtonPrimary, 0))
}

func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	w.board.Wheel(board.WheelEvent{
		X:      float64(e.Position.X),
		Y:      float64(e.Position.Y),
		DeltaX: -float64(e.Scrolled.DX) * scrollNotch,
		DeltaY: -float64(e.Scrolled.DY) * scrollNotch,
	})
}

func (w *BoardWidget) FocusGained() { w.focused = true }

// FocusLost closes an open text edit.
func (w *BoardWidget) FocusLost() {
	w.focused = false
	w.board.Blur()
}

// TypedRune appends to the text under edit.
func (w *BoardWidget) TypedRune(r rune) {
	if s, ok := w.board.Editing(); ok {
		w.board.EditText(textOf(s) + string(r))
	}
}

func (w *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	if s, ok := w.board.Editing(); ok {
		switch e.Name {
		case fyne.KeyBackspace:
			content := []rune(textOf(s))
			if len(content) > 0 {
				w.board.EditText(string(content[:len(content)-1]))
			}
			return
		case fyne.KeyReturn, fyne.KeyEnter:
			w.board.Blur()
			return
		}
	}
	if key, ok := keyNames[e.Name]; ok {
		w.board.KeyDown(board.KeyEvent{Key: key})
	}
}

// TypedShortcut handles undo and redo while the board has focus.
func (w *BoardWidget) TypedShortcut(s fyne.Shortcut) {
	cs, ok := s.(*desktop.CustomShortcut)
	if !ok {
		return
	}
	w.board.KeyDown(board.KeyEvent{Key: board.Key(cs.KeyName), Modifiers: toModifiers(cs.Modifier)})
}

func (w *BoardWidget) requestFocus() {
	if w.focused {
		return
	}
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(w); c != nil {
			c.Focus(w)
		}
	}
}
