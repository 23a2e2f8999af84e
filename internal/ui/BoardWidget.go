package ui

import (
	"image/color"
	"math"
	"sync"

	"SceneBoard/internal/input"
	"SceneBoard/internal/render"
	"SceneBoard/internal/session"
	"SceneBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("prefix", "ui")

// BoardWidget is the drawing surface. It forwards pointer input to the
// session loop and paints whatever frame the interpreter last produced.
type BoardWidget struct {
	widget.BaseWidget

	mu      sync.RWMutex
	frame   render.Frame
	ready   bool
	gesture input.Config
	loop    *session.Loop
	size    fyne.Size

	pressed bool
	panning bool
	lastPan fyne.Position

	statusBar *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Tappable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ render.Renderer = (*BoardWidget)(nil)

func NewBoardWidget(gesture input.Config) *BoardWidget {
	b := &BoardWidget{
		gesture:   gesture,
		statusBar: widget.NewLabel("Ready"),
	}
	b.ExtendBaseWidget(b)
	return b
}

// Attach connects the widget to the loop that owns the scene. Input that
// arrives before Attach is ignored.
func (b *BoardWidget) Attach(loop *session.Loop) {
	b.mu.Lock()
	b.loop = loop
	b.mu.Unlock()
}

func (b *BoardWidget) submit(ev session.Event) {
	b.mu.RLock()
	loop := b.loop
	b.mu.RUnlock()
	if loop != nil {
		loop.TrySubmit(ev)
	}
}

// Gesture is the tool configuration captured by the next gesture.
func (b *BoardWidget) Gesture() input.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gesture
}

func (b *BoardWidget) SetTool(t input.Tool) {
	b.mu.Lock()
	b.gesture.Tool = t
	b.mu.Unlock()
}

func (b *BoardWidget) SetColor(c string) {
	b.mu.Lock()
	b.gesture.Color = c
	b.mu.Unlock()
}

func (b *BoardWidget) SetWidth(w float64) {
	b.mu.Lock()
	b.gesture.Width = w
	b.mu.Unlock()
}

// SetStatus may be called from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

// Render stores the frame and schedules a repaint on the UI thread. It is
// called from the session loop.
func (b *BoardWidget) Render(f render.Frame) error {
	b.mu.Lock()
	if !b.ready {
		b.mu.Unlock()
		return render.ErrNoSurface
	}
	b.frame = f
	b.mu.Unlock()
	fyne.Do(b.Refresh)
	return nil
}

func (b *BoardWidget) currentFrame() render.Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frame
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonPrimary:
		b.pressed = true
		g := b.Gesture()
		if g.Tool == input.ToolText {
			return
		}
		b.submit(session.PointerDown{X: float64(e.Position.X), Y: float64(e.Position.Y), Config: g})
	case desktop.MouseButtonSecondary:
		// fyne starts no drag for this button, so panning follows MouseMoved
		b.panning = true
		b.lastPan = e.Position
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonPrimary:
		if b.pressed {
			b.pressed = false
			b.submit(session.PointerUp{})
		}
	case desktop.MouseButtonSecondary:
		b.panning = false
	}
}

// Tapped fires after a press and release without a drag; it drives the
// text tool.
func (b *BoardWidget) Tapped(e *fyne.PointEvent) {
	g := b.Gesture()
	if g.Tool != input.ToolText {
		return
	}
	b.submit(session.Click{X: float64(e.Position.X), Y: float64(e.Position.Y), Config: g})
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if b.pressed {
		b.submit(session.PointerMove{X: float64(e.Position.X), Y: float64(e.Position.Y)})
	}
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	switch {
	case b.panning:
		d := e.Position.Subtract(b.lastPan)
		b.lastPan = e.Position
		b.submit(session.Pan{DX: float64(d.X), DY: float64(d.Y)})
	case b.pressed:
		b.submit(session.PointerMove{X: float64(e.Position.X), Y: float64(e.Position.Y)})
	}
}

func (b *BoardWidget) MouseOut() {
	b.panning = false
	if b.pressed {
		b.pressed = false
		b.submit(session.PointerLeave{})
	}
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	b.submit(session.Pan{DX: float64(e.Scrolled.DX), DY: float64(e.Scrolled.DY)})
}

func (b *BoardWidget) resized(size fyne.Size) {
	b.mu.Lock()
	changed := size != b.size
	b.size = size
	b.mu.Unlock()
	if changed {
		b.submit(session.Resize{W: float64(size.Width), H: float64(size.Height)})
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.objects = []fyne.CanvasObject{r.background}
	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardWidgetRenderer) Refresh() {
	f := r.board.currentFrame()
	objects := make([]fyne.CanvasObject, 0, 1+len(f.Grid)+len(f.Shapes))
	objects = append(objects, r.background)
	objects = append(objects, frameObjects(f)...)
	r.objects = objects
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.resized(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {
	r.board.mu.Lock()
	r.board.ready = false
	r.board.mu.Unlock()
}

// frameObjects converts paint instructions into fyne canvas objects, grid
// first so strokes sit on top of it.
func frameObjects(f render.Frame) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	for _, s := range f.Grid {
		out = append(out, shapeObjects(s)...)
	}
	for _, s := range f.Shapes {
		out = append(out, shapeObjects(s)...)
	}
	return out
}

func shapeObjects(s render.Shape) []fyne.CanvasObject {
	c, err := render.ParseColor(s.Color)
	if err != nil {
		logger.Debugf("element %s: %v", s.ElementID, err)
	}
	width := float32(s.Width)

	switch s.Kind {
	case render.ShapePolyline:
		if len(s.Points) == 1 {
			dot := canvas.NewCircle(c)
			r := width / 2
			p := pos(s.Points[0])
			dot.Position1 = fyne.NewPos(p.X-r, p.Y-r)
			dot.Position2 = fyne.NewPos(p.X+r, p.Y+r)
			return []fyne.CanvasObject{dot}
		}
		segments := make([]fyne.CanvasObject, 0, len(s.Points)-1)
		for i := 1; i < len(s.Points); i++ {
			segments = append(segments, segment(s.Points[i-1], s.Points[i], c, width))
		}
		return segments
	case render.ShapeSegment:
		return []fyne.CanvasObject{segment(s.Points[0], s.Points[1], c, width)}
	case render.ShapeRect:
		rect := canvas.NewRectangle(color.Transparent)
		rect.StrokeColor = c
		rect.StrokeWidth = width
		a, b := s.Points[0], s.Points[1]
		rect.Move(fyne.NewPos(float32(math.Min(a.X, b.X)), float32(math.Min(a.Y, b.Y))))
		rect.Resize(fyne.NewSize(float32(math.Abs(b.X-a.X)), float32(math.Abs(b.Y-a.Y))))
		return []fyne.CanvasObject{rect}
	case render.ShapeCircle:
		circle := canvas.NewCircle(color.Transparent)
		circle.StrokeColor = c
		circle.StrokeWidth = width
		p, r := pos(s.Points[0]), float32(s.Radius)
		circle.Position1 = fyne.NewPos(p.X-r, p.Y-r)
		circle.Position2 = fyne.NewPos(p.X+r, p.Y+r)
		return []fyne.CanvasObject{circle}
	case render.ShapeText:
		text := canvas.NewText(s.Text, c)
		text.TextSize = float32(s.FontSize)
		// label points are baselines
		p := pos(s.Points[0])
		text.Move(fyne.NewPos(p.X, p.Y-text.TextSize))
		return []fyne.CanvasObject{text}
	}
	return nil
}

func pos(p state.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

func segment(a, b state.Point, c color.Color, width float32) fyne.CanvasObject {
	line := canvas.NewLine(c)
	line.StrokeWidth = width
	line.Position1 = pos(a)
	line.Position2 = pos(b)
	return line
}
