package input

import (
	"context"
	"errors"

	"SceneBoard/internal/render"
	"SceneBoard/internal/state"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("prefix", "input")

// Prompter asks the user for label text. It blocks until the user answers or
// cancels; cancel is reported as an empty string or an error.
type Prompter interface {
	PromptText(ctx context.Context) (string, error)
}

type PrompterFunc func(ctx context.Context) (string, error)

func (fn PrompterFunc) PromptText(ctx context.Context) (string, error) { return fn(ctx) }

// Hooks are called after local mutations so they can be shared with peers.
// Remote merges never fire them.
type Hooks struct {
	OnCommit   func(e state.Element)
	OnErase    func(ids []string)
	OnClear    func()
	OnSnapshot func(elements []state.Element)
}

type mode int

const (
	idle mode = iota
	drawing
)

// Interpreter turns pointer gestures into scene mutations. It exclusively
// owns its Store and must only be driven from one goroutine.
type Interpreter struct {
	store    *state.Store
	view     *Viewport
	renderer render.Renderer
	prompter Prompter

	Hooks Hooks

	owner     string
	tolerance float64
	opts      render.Options
	locked    bool

	mode      mode
	transient *state.Element

	onHistory   func(canUndo, canRedo bool)
	lastHistory [2]bool
	historySent bool
}

type Option func(*Interpreter)

// WithPrompter enables the text tool.
func WithPrompter(p Prompter) Option {
	return func(in *Interpreter) { in.prompter = p }
}

// WithOwner stamps every element drawn here with a site id.
func WithOwner(site string) Option {
	return func(in *Interpreter) { in.owner = site }
}

// WithEraserTolerance overrides the per-element default of twice the stroke width.
func WithEraserTolerance(tol float64) Option {
	return func(in *Interpreter) { in.tolerance = tol }
}

// WithHistoryObserver is told whenever undo or redo becomes available or
// unavailable.
func WithHistoryObserver(fn func(canUndo, canRedo bool)) Option {
	return func(in *Interpreter) { in.onHistory = fn }
}

func WithGrid(on bool) Option {
	return func(in *Interpreter) { in.opts.Grid = on }
}

func NewInterpreter(store *state.Store, r render.Renderer, opts ...Option) *Interpreter {
	if store == nil {
		store = state.NewStore()
	}
	if r == nil {
		r = render.Discard
	}
	in := &Interpreter{
		store:    store,
		view:     NewViewport(),
		renderer: r,
	}
	for _, o := range opts {
		o(in)
	}
	return in
}

// PointerDown starts a gesture at the raw position. Drawing tools open a
// transient element; the eraser erases immediately and stays idle.
func (in *Interpreter) PointerDown(x, y float64, cfg Config) {
	if in.locked || in.mode == drawing {
		return
	}
	p := in.view.Transform().ToScene(x, y)

	if cfg.Tool == ToolEraser {
		if ids := in.store.Erase(p, in.tolerance); len(ids) > 0 {
			if in.Hooks.OnErase != nil {
				in.Hooks.OnErase(ids)
			}
			in.redraw()
		}
		return
	}

	kind, ok := cfg.Tool.Kind()
	if !ok {
		return
	}
	in.transient = &state.Element{
		ID:     state.NewID(),
		Kind:   kind,
		Points: []state.Point{p},
		Color:  cfg.Color,
		Width:  cfg.Width,
		Owner:  in.owner,
	}
	in.mode = drawing
	in.redraw()
}

// PointerMove extends the gesture in progress. Each point uses the transform
// current at this event.
func (in *Interpreter) PointerMove(x, y float64) {
	if in.mode != drawing || in.transient == nil {
		return
	}
	p := in.view.Transform().ToScene(x, y)
	e := in.transient
	switch {
	case e.Kind == state.KindFreehand:
		e.Points = append(e.Points, p)
	case len(e.Points) == 1:
		e.Points = append(e.Points, p)
	default:
		e.Points[1] = p
	}
	in.redraw()
}

// PointerUp ends the gesture, committing the transient element if it is
// valid. The transient element is discarded either way.
func (in *Interpreter) PointerUp() {
	if in.mode != drawing {
		return
	}
	e := *in.transient
	in.transient = nil
	in.mode = idle
	if in.store.Commit(e) && in.Hooks.OnCommit != nil {
		in.Hooks.OnCommit(e.Clone())
	}
	in.redraw()
}

// PointerLeave behaves like PointerUp.
func (in *Interpreter) PointerLeave() {
	in.PointerUp()
}

// Click handles the text tool. It blocks on the prompter; the click position
// is fixed before prompting. Cancelled or empty input commits nothing.
func (in *Interpreter) Click(ctx context.Context, x, y float64, cfg Config) {
	if cfg.Tool != ToolText || in.locked || in.mode == drawing || in.prompter == nil {
		return
	}
	p := in.view.Transform().ToScene(x, y)
	text, err := in.prompter.PromptText(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warnf("text prompt failed: %v", err)
		}
		return
	}
	if text == "" {
		return
	}
	e := state.Element{
		ID:     state.NewID(),
		Kind:   state.KindLabel,
		Points: []state.Point{p},
		Text:   text,
		Color:  cfg.Color,
		Width:  cfg.Width,
		Owner:  in.owner,
	}
	if in.store.Commit(e) {
		if in.Hooks.OnCommit != nil {
			in.Hooks.OnCommit(e.Clone())
		}
		in.redraw()
	}
}

func (in *Interpreter) Undo() {
	if in.store.Undo() {
		in.snapshotChanged()
	}
}

func (in *Interpreter) Redo() {
	if in.store.Redo() {
		in.snapshotChanged()
	}
}

func (in *Interpreter) Clear() {
	in.store.Clear()
	if in.Hooks.OnClear != nil {
		in.Hooks.OnClear()
	}
	in.redraw()
}

// Load replaces the scene with elements read from a file and shares it.
func (in *Interpreter) Load(elements []state.Element) int {
	n := in.store.Load(elements)
	in.snapshotChanged()
	return n
}

func (in *Interpreter) snapshotChanged() {
	if in.Hooks.OnSnapshot != nil {
		in.Hooks.OnSnapshot(in.store.Elements())
	}
	in.redraw()
}

// MergeCommit applies an element drawn by a peer. It reports whether the
// element was new here.
func (in *Interpreter) MergeCommit(e state.Element, rev uint64) bool {
	in.store.Observe(rev)
	if !in.store.Commit(e) {
		return false
	}
	in.redraw()
	return true
}

func (in *Interpreter) MergeErase(ids []string, rev uint64) bool {
	in.store.Observe(rev)
	if in.store.Remove(ids...) == 0 {
		return false
	}
	in.redraw()
	return true
}

func (in *Interpreter) MergeClear(rev uint64) bool {
	in.store.Observe(rev)
	in.store.Clear()
	in.redraw()
	return true
}

// MergeSnapshot replaces the scene with a peer's copy as a new history entry.
// Snapshots older than the local revision are ignored and reported false.
func (in *Interpreter) MergeSnapshot(elements []state.Element, rev uint64) bool {
	if rev != 0 && rev < in.store.Revision() {
		logger.Debugf("ignoring stale snapshot rev %d (local %d)", rev, in.store.Revision())
		return false
	}
	in.store.Observe(rev)
	in.store.Replace(elements)
	in.redraw()
	return true
}

// MergeSync adopts the host's scene as the starting point of this board.
// History restarts with that scene, so there is nothing to undo past it.
func (in *Interpreter) MergeSync(elements []state.Element, rev uint64) bool {
	in.store.Observe(rev)
	n := in.store.Load(elements)
	logger.Infof("synced %d element(s) at rev %d", n, rev)
	in.redraw()
	return true
}

func (in *Interpreter) ZoomIn()  { in.view.ZoomIn(); in.redraw() }
func (in *Interpreter) ZoomOut() { in.view.ZoomOut(); in.redraw() }

func (in *Interpreter) PanBy(dx, dy float64) {
	in.view.PanBy(dx, dy)
	in.redraw()
}

func (in *Interpreter) ResetView() {
	in.view.Reset()
	in.redraw()
}

func (in *Interpreter) ToggleGrid() {
	in.opts.Grid = !in.opts.Grid
	in.redraw()
}

// SetLocked makes the board read-only for pointer input. A gesture already
// in progress is still allowed to finish.
func (in *Interpreter) SetLocked(locked bool) {
	in.locked = locked
}

// Resize records the surface size used for the grid and culling.
func (in *Interpreter) Resize(w, h float64) {
	in.opts.Width, in.opts.Height = w, h
	in.redraw()
}

func (in *Interpreter) Elements() []state.Element { return in.store.Elements() }
func (in *Interpreter) Revision() uint64          { return in.store.Revision() }
func (in *Interpreter) Drawing() bool             { return in.mode == drawing }
func (in *Interpreter) Locked() bool              { return in.locked }
func (in *Interpreter) Grid() bool                { return in.opts.Grid }
func (in *Interpreter) CanUndo() bool { return in.store.CanUndo() }
func (in *Interpreter) CanRedo() bool { return in.store.CanRedo() }

// Frame builds the current picture without painting it.
func (in *Interpreter) Frame() render.Frame {
	var tr *state.Element
	if in.transient != nil {
		c := in.transient.Clone()
		tr = &c
	}
	return render.BuildFrame(in.store.Elements(), tr, in.view.Transform(), in.opts)
}

// redraw never changes state; a missing surface only costs a frame.
func (in *Interpreter) redraw() {
	err := in.renderer.Render(in.Frame())
	switch {
	case err == nil:
	case errors.Is(err, render.ErrNoSurface):
		logger.Debug("no surface, skipping frame")
	default:
		logger.Warnf("render failed: %v", err)
	}
	in.notifyHistory()
}

func (in *Interpreter) notifyHistory() {
	if in.onHistory == nil {
		return
	}
	now := [2]bool{in.CanUndo(), in.CanRedo()}
	if in.historySent && now == in.lastHistory {
		return
	}
	in.lastHistory, in.historySent = now, true
	in.onHistory(now[0], now[1])
}
