package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/colornames"

	"RoomBoard/internal/board"
)

// Palette lists the swatch colors in toolbar order.
var Palette = []string{"black", "crimson", "forestgreen", "royalblue", "darkorange", "purple", "gold"}

var fontSizes = []string{"12", "16", "20", "28", "36", "48"}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Name     string
	Color    color.Color
	OnTapped func(name string)
}

func newColorSwatch(name string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Name: name, Color: colornames.Map[name], OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Name)
	}
}

// Toolbar holds the tool, style and history controls for one board.
type Toolbar struct {
	board   *board.Board
	buttons map[board.Tool]*widget.Button
	stroke  *widget.Slider
	size    *widget.Label

	OnExport func()
	OnClear  func()
}

func NewToolbar(b *board.Board) *Toolbar {
	t := &Toolbar{board: b, buttons: make(map[board.Tool]*widget.Button)}
	b.OnChange(t.sync)
	return t
}

// Object builds the toolbar row.
func (t *Toolbar) Object() fyne.CanvasObject {
	tools := container.NewHBox()
	for _, tool := range board.Tools {
		btn := widget.NewButton(tool.String(), func() { t.selectTool(tool) })
		t.buttons[tool] = btn
		tools.Add(btn)
	}

	swatches := container.NewHBox()
	for _, name := range Palette {
		swatches.Add(newColorSwatch(name, t.board.SetColor))
	}

	t.stroke = widget.NewSlider(1, 50)
	t.size = widget.NewLabel("")
	t.stroke.OnChanged = func(v float64) {
		t.board.SetStrokeWidth(v)
		t.sync()
	}
	strokeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), t.stroke)

	font := widget.NewSelect(fontSizes, func(v string) {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			t.board.SetFontSize(n)
		}
	})
	font.SetSelected(strconv.Itoa(int(t.board.Style().FontSize)))

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), t.board.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), t.board.Redo),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), t.board.ResetView),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if t.OnClear != nil {
				t.OnClear()
			}
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if t.OnExport != nil {
				t.OnExport()
			}
		}),
	)

	t.sync()
	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		strokeBox,
		t.size,
		widget.NewLabel("Font:"),
		font,
		layout.NewSpacer(),
		actions,
	)
}

func (t *Toolbar) selectTool(tool board.Tool) {
	t.board.SetTool(tool)
	t.sync()
}

// sync reflects the board's tool and width in the controls.
func (t *Toolbar) sync() {
	for tool, btn := range t.buttons {
		importance := widget.MediumImportance
		if tool == t.board.Tool() {
			importance = widget.HighImportance
		}
		if btn.Importance != importance {
			btn.Importance = importance
			btn.Refresh()
		}
	}
	if t.stroke == nil {
		return
	}
	width := t.board.Style().StrokeWidth
	if t.board.Tool() == board.ToolEraser {
		width = t.board.EraserWidth()
	}
	if t.stroke.Value != width {
		t.stroke.SetValue(width)
	}
	if text := fmt.Sprintf("%.0f", width); t.size.Text != text {
		t.size.SetText(text)
	}
}
