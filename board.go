package main

import (
	"SceneBoard/internal/config"
	"SceneBoard/internal/input"
	boardnet "SceneBoard/internal/net"
	"SceneBoard/internal/render"
	"SceneBoard/internal/state"
)

// newInterpreter builds the board core for one site.
func newInterpreter(c *config.Config, r render.Renderer, p input.Prompter, site string, extra ...input.Option) *input.Interpreter {
	opts := []input.Option{
		input.WithPrompter(p),
		input.WithOwner(site),
		input.WithEraserTolerance(c.Board.EraserTolerance),
		input.WithGrid(c.Board.Grid),
	}
	return input.NewInterpreter(state.NewStore(), r, append(opts, extra...)...)
}

// shareHooks turns local mutations into wire messages. The hooks run on the
// session loop, so reading the revision there is safe.
func shareHooks(site string, in *input.Interpreter, send func(boardnet.Message)) input.Hooks {
	return input.Hooks{
		OnCommit: func(e state.Element) {
			send(boardnet.CommitMessage(site, in.Revision(), e))
		},
		OnErase: func(ids []string) {
			send(boardnet.EraseMessage(site, in.Revision(), ids))
		},
		OnClear: func() {
			send(boardnet.ClearMessage(site, in.Revision()))
		},
		OnSnapshot: func(elements []state.Element) {
			send(boardnet.SnapshotMessage(site, in.Revision(), elements))
		},
	}
}

// relayHook runs on the host's loop after a peer's message is merged. Only
// messages that changed the host's scene go on to the other peers. A
// snapshot rejected as stale is answered with the host's scene so the
// sender falls back in line.
func relayHook(site string, msg boardnet.Message, forward, reply func(boardnet.Message)) func(*input.Interpreter, bool) {
	return func(in *input.Interpreter, applied bool) {
		switch {
		case applied:
			forward(msg)
		case msg.Type == boardnet.MsgSnapshot:
			reply(boardnet.SyncMessage(site, in.Revision(), in.Elements()))
		}
	}
}
