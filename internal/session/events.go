package session

import (
	"context"

	"SceneBoard/internal/input"
	boardnet "SceneBoard/internal/net"
)

// Event is one unit of work applied to the interpreter on the loop goroutine.
type Event interface {
	Apply(ctx context.Context, in *input.Interpreter)
}

type PointerDown struct {
	X, Y   float64
	Config input.Config
}

func (e PointerDown) Apply(_ context.Context, in *input.Interpreter) { in.PointerDown(e.X, e.Y, e.Config) }

type PointerMove struct{ X, Y float64 }

func (e PointerMove) Apply(_ context.Context, in *input.Interpreter) { in.PointerMove(e.X, e.Y) }

type PointerUp struct{}

func (PointerUp) Apply(_ context.Context, in *input.Interpreter) { in.PointerUp() }

type PointerLeave struct{}

func (PointerLeave) Apply(_ context.Context, in *input.Interpreter) { in.PointerLeave() }

// Click may block the loop while the text prompt is open.
type Click struct {
	X, Y   float64
	Config input.Config
}

func (e Click) Apply(ctx context.Context, in *input.Interpreter) { in.Click(ctx, e.X, e.Y, e.Config) }

type Undo struct{}

func (Undo) Apply(_ context.Context, in *input.Interpreter) { in.Undo() }

type Redo struct{}

func (Redo) Apply(_ context.Context, in *input.Interpreter) { in.Redo() }

type Clear struct{}

func (Clear) Apply(_ context.Context, in *input.Interpreter) { in.Clear() }

type Zoom struct{ In bool }

func (e Zoom) Apply(_ context.Context, in *input.Interpreter) {
	if e.In {
		in.ZoomIn()
	} else {
		in.ZoomOut()
	}
}

type Pan struct{ DX, DY float64 }

func (e Pan) Apply(_ context.Context, in *input.Interpreter) { in.PanBy(e.DX, e.DY) }

type ResetView struct{}

func (ResetView) Apply(_ context.Context, in *input.Interpreter) { in.ResetView() }

type ToggleGrid struct{}

func (ToggleGrid) Apply(_ context.Context, in *input.Interpreter) { in.ToggleGrid() }

type SetLocked struct{ Locked bool }

func (e SetLocked) Apply(_ context.Context, in *input.Interpreter) { in.SetLocked(e.Locked) }

type Resize struct{ W, H float64 }

func (e Resize) Apply(_ context.Context, in *input.Interpreter) { in.Resize(e.W, e.H) }

// Remote applies a message received from another board. Done, when set,
// runs on the loop right after the merge with whether it changed anything.
type Remote struct {
	Msg  boardnet.Message
	Done func(in *input.Interpreter, applied bool)
}

func (e Remote) Apply(_ context.Context, in *input.Interpreter) {
	applied := merge(in, e.Msg)
	if e.Done != nil {
		e.Done(in, applied)
	}
}

func merge(in *input.Interpreter, m boardnet.Message) bool {
	switch m.Type {
	case boardnet.MsgCommit:
		return m.Element != nil && in.MergeCommit(*m.Element, m.Revision)
	case boardnet.MsgErase:
		return in.MergeErase(m.IDs, m.Revision)
	case boardnet.MsgClear:
		return in.MergeClear(m.Revision)
	case boardnet.MsgSnapshot:
		return in.MergeSnapshot(m.Elements, m.Revision)
	case boardnet.MsgSync:
		return in.MergeSync(m.Elements, m.Revision)
	}
	return false
}

// Func runs arbitrary code on the loop goroutine.
type Func func(ctx context.Context, in *input.Interpreter)

func (fn Func) Apply(ctx context.Context, in *input.Interpreter) { fn(ctx, in) }
