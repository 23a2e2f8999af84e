package input

import (
	"context"
	"errors"
	"testing"

	"SceneBoard/internal/render"
	"SceneBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	frames []render.Frame
	err    error
}

func (r *recorder) Render(f render.Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

func newTestInterpreter(opts ...Option) (*Interpreter, *state.Store, *recorder) {
	store := state.NewStore()
	rec := &recorder{}
	return NewInterpreter(store, rec, opts...), store, rec
}

func cfg(tool Tool) Config {
	return Config{Tool: tool, Color: "#112233", Width: 2}
}

func TestInterpreter_RectangleWithoutMoveIsNotCommitted(t *testing.T) {
	in, store, _ := newTestInterpreter()

	in.PointerDown(10, 10, cfg(ToolRectangle))
	assert.True(t, in.Drawing())
	in.PointerUp()

	assert.False(t, in.Drawing())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, store.HistoryLen())
}

func TestInterpreter_TwoPointToolsReplaceSecondPoint(t *testing.T) {
	for _, tool := range []Tool{ToolRectangle, ToolEllipse, ToolLine} {
		t.Run(string(tool), func(t *testing.T) {
			in, store, _ := newTestInterpreter()

			in.PointerDown(0, 0, cfg(tool))
			in.PointerMove(5, 5)
			in.PointerMove(8, 6)
			in.PointerMove(10, 20)
			in.PointerUp()

			els := store.Elements()
			require.Len(t, els, 1)
			assert.Equal(t, []state.Point{{X: 0, Y: 0}, {X: 10, Y: 20}}, els[0].Points)
		})
	}
}

func TestInterpreter_FreehandAppendsEveryMove(t *testing.T) {
	in, store, _ := newTestInterpreter()

	in.PointerDown(1, 1, cfg(ToolFreehand))
	in.PointerMove(2, 2)
	in.PointerMove(3, 3)
	in.PointerUp()

	els := store.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, state.KindFreehand, els[0].Kind)
	assert.Len(t, els[0].Points, 3)
	assert.Equal(t, "#112233", els[0].Color)
	assert.Equal(t, 2.0, els[0].Width)
}

func TestInterpreter_FreehandSinglePointIsCommitted(t *testing.T) {
	in, store, _ := newTestInterpreter()

	in.PointerDown(4, 4, cfg(ToolFreehand))
	in.PointerUp()

	require.Equal(t, 1, store.Len())
	assert.Len(t, store.Elements()[0].Points, 1)
}

func TestInterpreter_PointerLeaveCommits(t *testing.T) {
	in, store, _ := newTestInterpreter()

	in.PointerDown(0, 0, cfg(ToolLine))
	in.PointerMove(3, 3)
	in.PointerLeave()

	assert.Equal(t, 1, store.Len())
	assert.False(t, in.Drawing())
}

func TestInterpreter_EventsOutsideGestureAreIgnored(t *testing.T) {
	in, store, rec := newTestInterpreter()

	in.PointerMove(1, 1)
	in.PointerUp()
	in.PointerLeave()

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, rec.frames)
}

func TestInterpreter_CommittedStrokeIgnoresLaterZoom(t *testing.T) {
	in, store, _ := newTestInterpreter()

	in.PointerDown(10, 10, cfg(ToolFreehand))
	in.PointerMove(20, 30)
	in.PointerUp()
	before := store.Elements()

	in.view.SetZoom(2.0)

	assert.Equal(t, before, store.Elements())
	assert.Equal(t, []state.Point{{X: 10, Y: 10}, {X: 20, Y: 30}}, store.Elements()[0].Points)
}

func TestInterpreter_TransformChangeMidGestureOnlyShiftsLaterPoints(t *testing.T) {
	in, store, _ := newTestInterpreter()

	in.PointerDown(10, 10, cfg(ToolFreehand))
	in.PointerMove(20, 20)
	in.view.SetZoom(2.0)
	in.PanBy(10, 0)
	in.PointerMove(30, 20)
	in.PointerUp()

	assert.Equal(t, []state.Point{{X: 10, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 10}}, store.Elements()[0].Points)
}

func TestInterpreter_PointerDownAppliesTransform(t *testing.T) {
	in, store, _ := newTestInterpreter()
	in.PanBy(100, 50)
	in.view.SetZoom(2)

	in.PointerDown(120, 70, cfg(ToolFreehand))
	in.PointerUp()

	assert.Equal(t, state.Point{X: 10, Y: 10}, store.Elements()[0].Points[0])
}

func TestInterpreter_EraserErasesOnPressOnly(t *testing.T) {
	in, store, _ := newTestInterpreter()
	var erased []string
	in.Hooks.OnErase = func(ids []string) { erased = append(erased, ids...) }

	in.PointerDown(10, 10, cfg(ToolFreehand))
	in.PointerUp()
	id := store.Elements()[0].ID

	in.PointerDown(20, 20, cfg(ToolEraser))
	assert.False(t, in.Drawing())
	assert.Equal(t, 1, store.Len())

	// moving with the eraser held does nothing
	in.PointerMove(11, 11)
	assert.Equal(t, 1, store.Len())

	in.PointerDown(11, 11, cfg(ToolEraser))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, []string{id}, erased)
}

func TestInterpreter_EraserToleranceOverride(t *testing.T) {
	in, store, _ := newTestInterpreter(WithEraserTolerance(20))

	in.PointerDown(10, 10, cfg(ToolFreehand))
	in.PointerUp()
	in.PointerDown(20, 20, cfg(ToolEraser))

	assert.Equal(t, 0, store.Len())
}

func TestInterpreter_TextToolCommitsLabel(t *testing.T) {
	calls := 0
	p := PrompterFunc(func(ctx context.Context) (string, error) {
		calls++
		return "hello", nil
	})
	in, store, _ := newTestInterpreter(WithPrompter(p), WithOwner("site1"))
	in.PanBy(10, 10)

	// pointer-down with the text tool has no drawing phase
	in.PointerDown(30, 40, cfg(ToolText))
	assert.False(t, in.Drawing())

	in.Click(context.Background(), 30, 40, cfg(ToolText))

	assert.Equal(t, 1, calls)
	els := store.Elements()
	require.Len(t, els, 1)
	assert.Equal(t, state.KindLabel, els[0].Kind)
	assert.Equal(t, "hello", els[0].Text)
	assert.Equal(t, state.Point{X: 20, Y: 30}, els[0].Position())
	assert.Equal(t, "site1", els[0].Owner)
}

func TestInterpreter_TextPromptCancelCommitsNothing(t *testing.T) {
	answers := []struct {
		text string
		err  error
	}{
		{"", nil},
		{"", context.Canceled},
		{"ignored", errors.New("dialog closed")},
	}
	for _, a := range answers {
		p := PrompterFunc(func(context.Context) (string, error) { return a.text, a.err })
		in, store, _ := newTestInterpreter(WithPrompter(p))

		in.Click(context.Background(), 1, 1, cfg(ToolText))

		assert.Equal(t, 0, store.Len())
		assert.False(t, in.Drawing())
	}
}

func TestInterpreter_ClickWithOtherToolDoesNotPrompt(t *testing.T) {
	p := PrompterFunc(func(context.Context) (string, error) {
		t.Fatal("prompter must not be called")
		return "", nil
	})
	in, _, _ := newTestInterpreter(WithPrompter(p))
	in.Click(context.Background(), 1, 1, cfg(ToolFreehand))
}

func TestInterpreter_LockedBoardIgnoresInput(t *testing.T) {
	in, store, _ := newTestInterpreter()
	in.SetLocked(true)

	in.PointerDown(1, 1, cfg(ToolFreehand))
	in.PointerUp()

	assert.Equal(t, 0, store.Len())
	assert.True(t, in.Locked())
}

func TestInterpreter_RedrawsAfterMovesAndMutations(t *testing.T) {
	in, _, rec := newTestInterpreter()

	in.PointerDown(0, 0, cfg(ToolLine))
	in.PointerMove(5, 5)
	last := rec.frames[len(rec.frames)-1]
	require.Len(t, last.Shapes, 1)
	assert.True(t, last.Shapes[0].Transient)

	in.PointerUp()
	last = rec.frames[len(rec.frames)-1]
	require.Len(t, last.Shapes, 1)
	assert.False(t, last.Shapes[0].Transient)

	n := len(rec.frames)
	in.Undo()
	in.Redo()
	in.Clear()
	assert.Equal(t, n+3, len(rec.frames))
}

func TestInterpreter_MissingSurfaceKeepsState(t *testing.T) {
	in, store, rec := newTestInterpreter()
	rec.err = render.ErrNoSurface

	in.PointerDown(0, 0, cfg(ToolFreehand))
	in.PointerMove(1, 1)
	in.PointerUp()

	assert.Equal(t, 1, store.Len())

	rec.err = errors.New("gpu lost")
	in.Undo()
	assert.Equal(t, 0, store.Len())
}

func TestInterpreter_HooksFireForLocalChangesOnly(t *testing.T) {
	in, _, _ := newTestInterpreter()
	var commits, snapshots, clears int
	in.Hooks = Hooks{
		OnCommit:   func(state.Element) { commits++ },
		OnSnapshot: func([]state.Element) { snapshots++ },
		OnClear:    func() { clears++ },
	}

	in.PointerDown(0, 0, cfg(ToolFreehand))
	in.PointerUp()
	in.Undo()
	in.Undo() // boundary, no snapshot
	in.Redo()
	in.Clear()

	remote := state.Element{ID: "peer-1", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 1}}, Color: "#000000", Width: 1}
	in.MergeCommit(remote, 3)
	in.MergeCommit(remote, 3)
	in.MergeErase([]string{"peer-1"}, 4)
	in.MergeClear(5)

	assert.Equal(t, 1, commits)
	assert.Equal(t, 2, snapshots)
	assert.Equal(t, 1, clears)
}

func TestInterpreter_MergeSnapshotIgnoresStaleRevision(t *testing.T) {
	in, store, _ := newTestInterpreter()
	for i := 0; i < 5; i++ {
		in.PointerDown(float64(i), 0, cfg(ToolFreehand))
		in.PointerUp()
	}
	rev := in.Revision()

	in.MergeSnapshot(nil, rev-1)
	assert.Equal(t, 5, store.Len())

	in.MergeSnapshot([]state.Element{{ID: "x", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 1}}, Width: 1}}, rev+1)
	assert.Equal(t, 1, store.Len())
}

func TestInterpreter_ToggleGridAndResize(t *testing.T) {
	in, _, rec := newTestInterpreter(WithGrid(false))
	in.Resize(40, 40)
	assert.Empty(t, rec.frames[len(rec.frames)-1].Grid)

	in.ToggleGrid()
	assert.True(t, in.Grid())
	assert.Len(t, rec.frames[len(rec.frames)-1].Grid, 4)
}

func TestInterpreter_LoadSharesSnapshot(t *testing.T) {
	in, _, _ := newTestInterpreter()
	var shared []state.Element
	in.Hooks.OnSnapshot = func(els []state.Element) { shared = els }

	n := in.Load([]state.Element{{ID: "a", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 1}}, Width: 1}})

	assert.Equal(t, 1, n)
	assert.Len(t, shared, 1)
	assert.False(t, in.CanUndo())
}

func drawStrokes(in *Interpreter, n int) {
	for i := 0; i < n; i++ {
		in.PointerDown(float64(i*10), 0, cfg(ToolFreehand))
		in.PointerMove(float64(i*10), 5)
		in.PointerUp()
	}
}

func TestInterpreter_UndoAfterSyncIsNoop(t *testing.T) {
	host, _, _ := newTestInterpreter()
	drawStrokes(host, 3)

	joiner, store, _ := newTestInterpreter()
	var shared int
	joiner.Hooks.OnSnapshot = func([]state.Element) { shared++ }

	assert.True(t, joiner.MergeSync(host.Elements(), host.Revision()))
	assert.Len(t, joiner.Elements(), 3)
	assert.False(t, joiner.CanUndo())
	assert.GreaterOrEqual(t, joiner.Revision(), host.Revision())

	joiner.Undo()
	assert.Equal(t, 3, store.Len())
	assert.Zero(t, shared, "nothing to share when undo is a no-op")
}

func TestInterpreter_UndoAfterSyncKeepsHostScene(t *testing.T) {
	host, _, _ := newTestInterpreter()
	drawStrokes(host, 3)

	joiner, _, _ := newTestInterpreter()
	var shared []state.Element
	var sharedRev uint64
	joiner.Hooks.OnSnapshot = func(els []state.Element) { shared, sharedRev = els, joiner.Revision() }

	joiner.MergeSync(host.Elements(), host.Revision())
	drawStrokes(joiner, 1)
	joiner.Undo()

	require.Len(t, shared, 3)
	assert.True(t, host.MergeSnapshot(shared, sharedRev))
	assert.Equal(t, joiner.Elements(), host.Elements())
}

func TestInterpreter_MergeReportsWhetherApplied(t *testing.T) {
	in, _, _ := newTestInterpreter()
	e := state.Element{ID: "p", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 1}}, Color: "#000000", Width: 1}

	assert.True(t, in.MergeCommit(e, 1))
	assert.False(t, in.MergeCommit(e, 1))
	assert.False(t, in.MergeErase([]string{"missing"}, 2))
	assert.True(t, in.MergeErase([]string{"p"}, 3))
	assert.False(t, in.MergeSnapshot(nil, 1))
	assert.True(t, in.MergeClear(9))
}

func TestInterpreter_HistoryObserver(t *testing.T) {
	var calls [][2]bool
	in, _, _ := newTestInterpreter(WithHistoryObserver(func(u, r bool) {
		calls = append(calls, [2]bool{u, r})
	}))

	drawStrokes(in, 2)
	in.Undo()
	in.Undo()
	in.Redo()
	in.Redo()
	in.ZoomIn()

	assert.Equal(t, [][2]bool{
		{false, false},
		{true, false},
		{true, true},
		{false, true},
		{true, true},
		{true, false},
	}, calls)
}
