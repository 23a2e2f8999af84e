package session

import (
	"context"
	"errors"

	"SceneBoard/internal/input"
	"SceneBoard/internal/state"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("prefix", "session")

// ErrStopped is returned when submitting to a loop that has exited.
var ErrStopped = errors.New("session loop stopped")

const DefaultBuffer = 256

// Loop serialises every event that touches the interpreter onto a single
// goroutine. UI callbacks and network readers submit; only Run applies.
type Loop struct {
	in     *input.Interpreter
	events chan Event
	done   chan struct{}
}

func NewLoop(in *input.Interpreter, buffer int) *Loop {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Loop{
		in:     in,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// Run applies events in arrival order until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-l.events:
			ev.Apply(ctx, l.in)
		}
	}
}

// Submit queues ev, waiting for buffer space.
func (l *Loop) Submit(ctx context.Context, ev Event) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit queues ev without waiting. It is meant for the UI thread, which
// must never block on the loop; a full queue drops the event.
func (l *Loop) TrySubmit(ev Event) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.events <- ev:
		return true
	default:
		logger.Warnf("event queue full, dropping %T", ev)
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(in *input.Interpreter)) error {
	finished := make(chan struct{})
	err := l.Submit(ctx, Func(func(_ context.Context, in *input.Interpreter) {
		defer close(finished)
		fn(in)
	}))
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load replaces the scene with elements read from a file and reports how
// many survived validation.
func (l *Loop) Load(ctx context.Context, elements []state.Element) (int, error) {
	var n int
	err := l.Do(ctx, func(in *input.Interpreter) {
		n = in.Load(elements)
	})
	if err != nil {
		return 0, err
	}
	logger.Infof("loaded %d element(s)", n)
	return n, nil
}
