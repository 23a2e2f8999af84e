package render

import (
	"SceneBoard/internal/state"
)

// Transform maps scene coordinates to screen coordinates: screen = scene*Zoom + Pan.
type Transform struct {
	PanX, PanY float64
	Zoom       float64
}

// Identity is the transform with no pan and unit zoom.
var Identity = Transform{Zoom: 1}

// ToScene converts a raw pointer position into scene coordinates.
func (t Transform) ToScene(x, y float64) state.Point {
	return state.Point{X: (x - t.PanX) / t.Zoom, Y: (y - t.PanY) / t.Zoom}
}

func (t Transform) ToScreen(p state.Point) state.Point {
	return state.Point{X: p.X*t.Zoom + t.PanX, Y: p.Y*t.Zoom + t.PanY}
}

type ShapeKind int

const (
	ShapePolyline ShapeKind = iota
	ShapeRect
	ShapeCircle
	ShapeSegment
	ShapeText
)

// Shape is one paint instruction in screen coordinates.
type Shape struct {
	Kind      ShapeKind
	Points    []state.Point
	Radius    float64
	Text      string
	FontSize  float64
	Color     string
	Width     float64
	ElementID string
	Transient bool
}

// Frame is everything a surface needs to paint one picture of the scene.
type Frame struct {
	Grid      []Shape
	Shapes    []Shape
	Transform Transform
	Width     float64
	Height    float64
}

const (
	DefaultGridSize  = 20
	DefaultGridColor = "#dddddd"
	gridLineWidth    = 0.5
)

// Options control frame construction. A zero Width or Height disables the
// grid and viewport culling.
type Options struct {
	Grid     bool
	GridSize float64
	Width    float64
	Height   float64
}

// BuildFrame turns the scene plus at most one in-progress element into paint
// instructions. It has no side effects.
func BuildFrame(elements []state.Element, transient *state.Element, t Transform, opts Options) Frame {
	if t.Zoom <= 0 {
		t.Zoom = 1
	}
	f := Frame{Transform: t, Width: opts.Width, Height: opts.Height}
	if opts.Grid {
		f.Grid = gridLines(opts)
	}

	var view state.Bounds
	cull := opts.Width > 0 && opts.Height > 0
	if cull {
		// viewport expressed in scene coordinates
		tl := t.ToScene(0, 0)
		br := t.ToScene(opts.Width, opts.Height)
		view = state.Bounds{MinX: tl.X, MinY: tl.Y, MaxX: br.X, MaxY: br.Y}
	}

	f.Shapes = make([]Shape, 0, len(elements)+1)
	for _, e := range elements {
		if cull && !e.Bounds().Overlaps(view) {
			continue
		}
		if s, ok := shapeFor(e, t); ok {
			f.Shapes = append(f.Shapes, s)
		}
	}
	if transient != nil {
		if s, ok := shapeFor(*transient, t); ok {
			s.Transient = true
			f.Shapes = append(f.Shapes, s)
		}
	}
	return f
}

func shapeFor(e state.Element, t Transform) (Shape, bool) {
	s := Shape{
		Color:     e.Color,
		Width:     e.Width * t.Zoom,
		ElementID: e.ID,
	}
	switch e.Kind {
	case state.KindFreehand:
		if len(e.Points) == 0 {
			return s, false
		}
		s.Kind = ShapePolyline
		s.Points = toScreen(e.Points, t)
	case state.KindRectangle:
		if len(e.Points) < 2 {
			return s, false
		}
		s.Kind = ShapeRect
		s.Points = toScreen(e.Points[:2], t)
	case state.KindEllipse:
		if len(e.Points) < 2 {
			return s, false
		}
		s.Kind = ShapeCircle
		s.Points = toScreen(e.Points[:1], t)
		s.Radius = e.Radius() * t.Zoom
	case state.KindLine:
		if len(e.Points) < 2 {
			return s, false
		}
		s.Kind = ShapeSegment
		s.Points = toScreen(e.Points[:2], t)
	case state.KindLabel:
		if e.Text == "" || len(e.Points) == 0 {
			return s, false
		}
		s.Kind = ShapeText
		s.Points = toScreen(e.Points[:1], t)
		s.Text = e.Text
		s.FontSize = e.Width * state.LabelFontScale * t.Zoom
	default:
		return s, false
	}
	return s, true
}

func toScreen(pts []state.Point, t Transform) []state.Point {
	out := make([]state.Point, len(pts))
	for i, p := range pts {
		out[i] = t.ToScreen(p)
	}
	return out
}

// gridLines are drawn in screen space and do not follow pan or zoom.
func gridLines(opts Options) []Shape {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil
	}
	size := opts.GridSize
	if size <= 0 {
		size = DefaultGridSize
	}
	var lines []Shape
	for x := 0.0; x < opts.Width; x += size {
		lines = append(lines, Shape{
			Kind:   ShapeSegment,
			Points: []state.Point{{X: x, Y: 0}, {X: x, Y: opts.Height}},
			Color:  DefaultGridColor,
			Width:  gridLineWidth,
		})
	}
	for y := 0.0; y < opts.Height; y += size {
		lines = append(lines, Shape{
			Kind:   ShapeSegment,
			Points: []state.Point{{X: 0, Y: y}, {X: opts.Width, Y: y}},
			Color:  DefaultGridColor,
			Width:  gridLineWidth,
		})
	}
	return lines
}
