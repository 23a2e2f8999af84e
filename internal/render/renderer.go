package render

import "errors"

// ErrNoSurface means there is nothing to paint on right now. Callers skip the
// frame and keep their state.
var ErrNoSurface = errors.New("render: no surface available")

// Renderer paints a frame onto a surface.
type Renderer interface {
	Render(f Frame) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(f Frame) error

func (fn RendererFunc) Render(f Frame) error { return fn(f) }

// Discard accepts every frame and paints nothing.
var Discard Renderer = RendererFunc(func(Frame) error { return nil })
