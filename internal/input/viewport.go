package input

import (
	"math"

	"SceneBoard/internal/render"
)

const (
	ZoomStep = 0.1
	MinZoom  = 0.1
)

// Viewport holds the pan offset and zoom scale applied to raw pointer input.
type Viewport struct {
	panX, panY float64
	zoom       float64
}

func NewViewport() *Viewport {
	return &Viewport{zoom: 1}
}

func (v *Viewport) Transform() render.Transform {
	return render.Transform{PanX: v.panX, PanY: v.panY, Zoom: v.zoom}
}

func (v *Viewport) Zoom() float64 { return v.zoom }

func (v *Viewport) ZoomIn() {
	v.SetZoom(v.zoom + ZoomStep)
}

func (v *Viewport) ZoomOut() {
	v.SetZoom(v.zoom - ZoomStep)
}

// SetZoom sets the scale, clamped to MinZoom. The value is rounded to two
// decimals so repeated steps do not drift.
func (v *Viewport) SetZoom(z float64) {
	z = math.Round(z*100) / 100
	if z < MinZoom || math.IsNaN(z) {
		z = MinZoom
	}
	v.zoom = z
}

func (v *Viewport) PanBy(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

func (v *Viewport) Reset() {
	v.panX, v.panY, v.zoom = 0, 0, 1
}
