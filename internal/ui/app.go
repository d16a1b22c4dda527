package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"RoomBoard/internal/board"
	"RoomBoard/internal/render"
)

// App is the desktop window around one board.
type App struct {
	fyne     fyne.App
	window   fyne.Window
	title    string
	board    *BoardWidget
	toolbar  *Toolbar
	renderer *render.Renderer
	log      *slog.Logger

	status *widget.Label
	link   *widget.Label
	copy   *widget.Button

	// OnJoin is called on the UI goroutine when the user picks a relay.
	OnJoin func(addr, roomID string)
}

func NewApp(title string, b *board.Board, r *render.Renderer, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &App{
		fyne:     app.NewWithID("dev.roomboard"),
		title:    title,
		renderer: r,
		log:      log,
		status:   widget.NewLabel("Ready"),
		link:     widget.NewLabel(""),
	}
	a.window = a.fyne.NewWindow(title)
	a.window.Resize(fyne.NewSize(1024, 768))

	a.board = NewBoardWidget(b, r, log)
	a.toolbar = NewToolbar(b)
	a.toolbar.OnExport = a.ShowExport
	a.toolbar.OnClear = a.ConfirmClear

	a.copy = widget.NewButton("Copy link", func() {
		a.fyne.Clipboard().SetContent(a.link.Text)
		a.SetStatus("Share link copied")
	})
	a.copy.Hide()
	join := widget.NewButton("Join room...", a.ShowRelayPicker)

	statusBar := container.NewHBox(a.status, widget.NewSeparator(), a.link, a.copy, join)
	a.window.SetContent(container.NewBorder(a.toolbar.Object(), statusBar, nil, nil, a.board))

	for _, sc := range historyShortcuts() {
		a.window.Canvas().AddShortcut(sc, a.board.TypedShortcut)
	}
	return a
}

// SetStatus updates the status line. Safe from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() { a.status.SetText(text) })
}

// SetShareLink shows the link other participants open to join.
func (a *App) SetShareLink(link string) {
	fyne.Do(func() {
		a.link.SetText(link)
		if link == "" {
			a.copy.Hide()
		} else {
			a.copy.Show()
		}
	})
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	a.window.Canvas().Focus(a.board)
	a.window.ShowAndRun()
}

// Quit closes the window. Safe from any goroutine.
func (a *App) Quit() {
	fyne.Do(a.fyne.Quit)
}
