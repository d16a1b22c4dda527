// Package board turns pointer and keyboard input into scene edits. It owns
// the shape store, the undo history, the view transform and the selection,
// and is driven from a single event goroutine.
package board

import (
	"log/slog"

	"RoomBoard/internal/geometry"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
	"RoomBoard/internal/view"
)

const (
	DefaultColor       = "black"
	DefaultStrokeWidth = 3.0
	DefaultFontSize    = 20.0
	DefaultEraserWidth = 20.0
)

type Board struct {
	store   *state.Store
	history *state.History
	view    view.Transform
	measure geometry.TextMeasurer
	log     *slog.Logger

	tool        Tool
	mode        Mode
	style       state.Style
	eraserWidth float64
	selection   map[string]bool

	// Gesture state. base is the committed scene when the gesture began.
	active  string
	base    state.Scene
	created bool
	last    state.Point
	moved   bool
	panX    float64
	panY    float64

	onCommit []func(state.Scene)
	onChange []func()
}

type config struct {
	measurer     geometry.TextMeasurer
	logger       *slog.Logger
	minZoom      float64
	maxZoom      float64
	historyLimit int
	style        state.Style
	eraserWidth  float64
}

type Option func(*config)

// WithMeasurer sets the text measurement capability used for text boxes.
func WithMeasurer(m geometry.TextMeasurer) Option {
	return func(c *config) { c.measurer = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func WithZoomBounds(minZoom, maxZoom float64) Option {
	return func(c *config) { c.minZoom, c.maxZoom = minZoom, maxZoom }
}

// WithHistoryLimit bounds the number of retained snapshots; zero keeps all.
func WithHistoryLimit(n int) Option {
	return func(c *config) { c.historyLimit = n }
}

// WithStyle sets the initial color, stroke width and font size. Zero fields
// keep their defaults.
func WithStyle(s state.Style) Option {
	return func(c *config) {
		if s.Color != "" {
			c.style.Color = s.Color
		}
		if s.StrokeWidth > 0 {
			c.style.StrokeWidth = s.StrokeWidth
		}
		if s.FontSize > 0 {
			c.style.FontSize = s.FontSize
		}
	}
}

func WithEraserWidth(w float64) Option {
	return func(c *config) {
		if w > 0 {
			c.eraserWidth = w
		}
	}
}

func New(opts ...Option) *Board {
	cfg := config{
		measurer:    geometry.ApproxMeasurer{},
		logger:      slog.New(slog.DiscardHandler),
		minZoom:     view.DefaultMinZoom,
		maxZoom:     view.DefaultMaxZoom,
		style:       state.Style{Color: DefaultColor, StrokeWidth: DefaultStrokeWidth, FontSize: DefaultFontSize},
		eraserWidth: DefaultEraserWidth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.measurer == nil {
		cfg.measurer = geometry.ApproxMeasurer{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		store:       state.NewStore(),
		history:     state.NewHistory(cfg.historyLimit),
		view:        view.New(cfg.minZoom, cfg.maxZoom),
		measure:     cfg.measurer,
		log:         cfg.logger,
		tool:        ToolFreehand,
		style:       cfg.style,
		eraserWidth: cfg.eraserWidth,
		selection:   make(map[string]bool),
	}
}

// OnCommit registers fn to receive the scene after every committed change,
// undo, redo and clear. This is where the room adapter publishes.
func (b *Board) OnCommit(fn func(state.Scene)) {
	b.onCommit = append(b.onCommit, fn)
}

// OnChange registers fn to be called after any visible change.
func (b *Board) OnChange(fn func()) {
	b.onChange = append(b.onChange, fn)
}

func (b *Board) Tool() Tool           { return b.tool }
func (b *Board) Mode() Mode           { return b.mode }
func (b *Board) Style() state.Style   { return b.style }
func (b *Board) EraserWidth() float64 { return b.eraserWidth }
func (b *Board) View() view.Transform { return b.view }
func (b *Board) Scene() state.Scene   { return b.store.Shapes() }
func (b *Board) CanUndo() bool        { return b.history.CanUndo() }
func (b *Board) CanRedo() bool        { return b.history.CanRedo() }

// SetTool switches tools. Any gesture or text edit in progress is settled
// first, and leaving the select tool drops the selection.
func (b *Board) SetTool(t Tool) {
	b.settle()
	b.tool = t
	if t != ToolSelect && len(b.selection) > 0 {
		b.selection = make(map[string]bool)
	}
	b.changed()
}

func (b *Board) SetColor(c string) {
	if c != "" {
		b.style.Color = c
	}
}

// SetStrokeWidth sets the eraser width while the eraser is active and the
// pen width otherwise.
func (b *Board) SetStrokeWidth(w float64) {
	if w <= 0 {
		return
	}
	if b.tool == ToolEraser {
		b.eraserWidth = w
		return
	}
	b.style.StrokeWidth = w
}

func (b *Board) SetFontSize(s float64) {
	if s > 0 {
		b.style.FontSize = s
	}
}

// Selection returns the selected ids in paint order.
func (b *Board) Selection() []string {
	var ids []string
	for _, s := range b.store.Shapes() {
		if b.selection[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Editing returns the text shape under edit, if any.
func (b *Board) Editing() (state.Shape, bool) {
	if b.mode != ModeEditingText {
		return state.Shape{}, false
	}
	return b.store.Get(b.active)
}

// Frame collects what the renderer needs for one frame.
func (b *Board) Frame() render.Frame {
	f := render.Frame{
		Scene:     b.store.Shapes(),
		Selection: b.Selection(),
		View:      b.view,
	}
	if b.mode == ModeEditingText {
		f.EditingID = b.active
	}
	return f
}

// ZoomBy zooms around the screen point (x, y).
func (b *Board) ZoomBy(factor, x, y float64) {
	b.view.ZoomBy(factor, x, y)
	b.changed()
}

func (b *Board) ResetView() {
	b.view.Reset()
	b.changed()
}

func (b *Board) Undo() {
	b.settle()
	if !b.history.CanUndo() {
		return
	}
	b.restore(b.history.Undo())
	b.log.Debug("undo", "cursor", b.history.Cursor())
}

func (b *Board) Redo() {
	b.settle()
	if !b.history.CanRedo() {
		return
	}
	b.restore(b.history.Redo())
	b.log.Debug("redo", "cursor", b.history.Cursor())
}

// DeleteSelected removes every selected shape in one commit.
func (b *Board) DeleteSelected() {
	if len(b.selection) == 0 {
		return
	}
	b.settle()
	sel := b.selection
	b.selection = make(map[string]bool)
	scene := b.store.RemoveWhere(func(s state.Shape) bool { return sel[s.ID] })
	b.commit(scene)
}

// ClearAll empties the board and resets history; the clear itself cannot
// be undone.
func (b *Board) ClearAll() {
	b.settle()
	scene := b.store.ReplaceAll(nil)
	b.history.Clear()
	b.selection = make(map[string]bool)
	b.log.Debug("board cleared")
	b.notifyCommit(scene)
	b.changed()
}

// ApplyRemote replaces the whole scene with one received from the room.
// Whatever gesture or edit is in progress is abandoned, the selection is
// cleared and the redo branch is dropped; concurrent local work is lost.
func (b *Board) ApplyRemote(scene state.Scene) {
	if b.mode != ModeIdle && b.mode != ModePanning {
		b.mode = ModeIdle
	}
	b.resetGesture()

	sc := scene.Clone()
	geometry.RefreshAll(sc, b.measure)
	applied := b.store.ReplaceAll(sc)
	b.history.Overwrite(applied)
	b.selection = make(map[string]bool)
	b.log.Debug("remote scene applied", "shapes", len(applied))
	b.changed()
}

// restore loads a history scene after undo or redo and publishes it so
// room members follow.
func (b *Board) restore(scene state.Scene) {
	b.store.ReplaceAll(scene)
	b.pruneSelection()
	b.notifyCommit(scene)
	b.changed()
}

func (b *Board) commit(scene state.Scene) {
	b.history.Commit(scene)
	b.pruneSelection()
	b.log.Debug("commit", "shapes", len(scene), "cursor", b.history.Cursor())
	b.notifyCommit(scene)
	b.changed()
}

// beginGesture remembers the committed scene so that the gesture ends up as
// exactly one undo step.
func (b *Board) beginGesture() {
	b.base = b.history.Current()
}

// commitGesture puts the pre-gesture scene back under the cursor and then
// commits the final scene on top of it.
func (b *Board) commitGesture(scene state.Scene) {
	if b.base != nil {
		b.history.ApplyWithoutHistory(b.base)
	}
	b.commit(scene)
}

// abandonGesture rolls the store and history back to the pre-gesture scene.
func (b *Board) abandonGesture() {
	if b.base != nil {
		b.history.ApplyWithoutHistory(b.base)
		b.store.ReplaceAll(b.base)
		b.pruneSelection()
	}
	b.mode = ModeIdle
	b.resetGesture()
}

func (b *Board) resetGesture() {
	b.active = ""
	b.base = nil
	b.created = false
	b.moved = false
}

// settle brings the machine back to idle before a discrete action.
func (b *Board) settle() {
	switch b.mode {
	case ModeEditingText:
		b.finishText()
	case ModeDrawing, ModeDragging:
		b.abandonGesture()
	case ModePanning:
		b.mode = ModeIdle
	}
}

func (b *Board) pruneSelection() {
	if len(b.selection) == 0 {
		return
	}
	present := make(map[string]bool, b.store.Len())
	for _, s := range b.store.Shapes() {
		if b.selection[s.ID] {
			present[s.ID] = true
		}
	}
	b.selection = present
}

func (b *Board) notifyCommit(scene state.Scene) {
	for _, fn := range b.onCommit {
		fn(scene.Clone())
	}
}

func (b *Board) changed() {
	for _, fn := range b.onChange {
		fn()
	}
}
