package render

import (
	"testing"

	"SceneBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_SceneScreenInverse(t *testing.T) {
	tr := Transform{PanX: 30, PanY: -10, Zoom: 2}
	p := tr.ToScene(50, 30)
	assert.Equal(t, state.Point{X: 10, Y: 20}, p)
	assert.Equal(t, state.Point{X: 50, Y: 30}, tr.ToScreen(p))
}

func TestBuildFrame_ShapesPerKind(t *testing.T) {
	elements := []state.Element{
		{ID: "f", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, Color: "#000000", Width: 2},
		{ID: "r", Kind: state.KindRectangle, Points: []state.Point{{X: 0, Y: 0}, {X: 4, Y: 3}}, Color: "#ff0000", Width: 1},
		{ID: "e", Kind: state.KindEllipse, Points: []state.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}, Color: "#00ff00", Width: 1},
		{ID: "l", Kind: state.KindLine, Points: []state.Point{{X: 0, Y: 0}, {X: 9, Y: 9}}, Color: "#0000ff", Width: 1},
		{ID: "t", Kind: state.KindLabel, Text: "hi", Points: []state.Point{{X: 5, Y: 5}}, Color: "#000000", Width: 2},
	}

	f := BuildFrame(elements, nil, Transform{Zoom: 2}, Options{})

	require.Len(t, f.Shapes, 5)
	assert.Equal(t, ShapePolyline, f.Shapes[0].Kind)
	assert.Equal(t, 4.0, f.Shapes[0].Width)
	assert.Equal(t, ShapeRect, f.Shapes[1].Kind)
	assert.Equal(t, state.Point{X: 8, Y: 6}, f.Shapes[1].Points[1])
	assert.Equal(t, ShapeCircle, f.Shapes[2].Kind)
	assert.InDelta(t, 10.0, f.Shapes[2].Radius, 1e-9)
	assert.Equal(t, ShapeSegment, f.Shapes[3].Kind)
	assert.Equal(t, ShapeText, f.Shapes[4].Kind)
	assert.Equal(t, 40.0, f.Shapes[4].FontSize)
	assert.Empty(t, f.Grid)
}

func TestBuildFrame_TransientIsAppendedLast(t *testing.T) {
	committed := []state.Element{
		{ID: "a", Kind: state.KindFreehand, Points: []state.Point{{X: 1, Y: 1}}, Width: 1},
	}
	tr := &state.Element{ID: "b", Kind: state.KindLine, Points: []state.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, Width: 1}

	f := BuildFrame(committed, tr, Identity, Options{})

	require.Len(t, f.Shapes, 2)
	assert.False(t, f.Shapes[0].Transient)
	assert.True(t, f.Shapes[1].Transient)
	assert.Equal(t, "b", f.Shapes[1].ElementID)
}

func TestBuildFrame_IncompleteTransientIsNotPainted(t *testing.T) {
	tr := &state.Element{ID: "r", Kind: state.KindRectangle, Points: []state.Point{{X: 0, Y: 0}}, Width: 1}
	f := BuildFrame(nil, tr, Identity, Options{})
	assert.Empty(t, f.Shapes)
}

func TestBuildFrame_CullsOffscreenElements(t *testing.T) {
	elements := []state.Element{
		{ID: "in", Kind: state.KindFreehand, Points: []state.Point{{X: 10, Y: 10}}, Width: 1},
		{ID: "out", Kind: state.KindFreehand, Points: []state.Point{{X: 500, Y: 500}}, Width: 1},
	}

	f := BuildFrame(elements, nil, Identity, Options{Width: 100, Height: 100})
	require.Len(t, f.Shapes, 1)
	assert.Equal(t, "in", f.Shapes[0].ElementID)

	// panning brings the far element into view
	f = BuildFrame(elements, nil, Transform{PanX: -450, PanY: -450, Zoom: 1}, Options{Width: 100, Height: 100})
	require.Len(t, f.Shapes, 1)
	assert.Equal(t, "out", f.Shapes[0].ElementID)
}

func TestBuildFrame_Grid(t *testing.T) {
	f := BuildFrame(nil, nil, Identity, Options{Grid: true, Width: 100, Height: 40})
	// 5 vertical + 2 horizontal at the default spacing of 20
	assert.Len(t, f.Grid, 7)
	for _, g := range f.Grid {
		assert.Equal(t, DefaultGridColor, g.Color)
	}

	f = BuildFrame(nil, nil, Identity, Options{Grid: true})
	assert.Empty(t, f.Grid)
}

func TestBuildFrame_ZeroZoomFallsBackToIdentity(t *testing.T) {
	elements := []state.Element{{ID: "a", Kind: state.KindFreehand, Points: []state.Point{{X: 3, Y: 4}}, Width: 1}}
	f := BuildFrame(elements, nil, Transform{}, Options{})
	require.Len(t, f.Shapes, 1)
	assert.Equal(t, state.Point{X: 3, Y: 4}, f.Shapes[0].Points[0])
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, "#ff8000", FormatColor(c))

	c, err = ParseColor("#0f0")
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", FormatColor(c))

	c, err = ParseColor("red")
	assert.Error(t, err)
	assert.Equal(t, "#000000", FormatColor(c))
}

func TestRendererFunc(t *testing.T) {
	var got Frame
	r := RendererFunc(func(f Frame) error { got = f; return ErrNoSurface })
	err := r.Render(Frame{Width: 3})
	assert.ErrorIs(t, err, ErrNoSurface)
	assert.Equal(t, 3.0, got.Width)
	assert.NoError(t, Discard.Render(Frame{}))
}
