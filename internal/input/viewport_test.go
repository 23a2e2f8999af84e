package input

import (
	"testing"

	"SceneBoard/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewport_ZoomStepsAndFloor(t *testing.T) {
	v := NewViewport()
	v.ZoomIn()
	v.ZoomIn()
	assert.Equal(t, 1.2, v.Zoom())

	for i := 0; i < 30; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, MinZoom, v.Zoom())

	v.SetZoom(-3)
	assert.Equal(t, MinZoom, v.Zoom())
}

func TestViewport_PanAndReset(t *testing.T) {
	v := NewViewport()
	v.PanBy(5, -5)
	v.PanBy(1, 1)
	assert.Equal(t, render.Transform{PanX: 6, PanY: -4, Zoom: 1}, v.Transform())

	v.SetZoom(3)
	v.Reset()
	assert.Equal(t, render.Identity, v.Transform())
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools {
		got, err := ParseTool(string(tool))
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	got, err := ParseTool(" Eraser ")
	require.NoError(t, err)
	assert.Equal(t, ToolEraser, got)

	_, err = ParseTool("move")
	assert.Error(t, err)
}

func TestTool_Kind(t *testing.T) {
	_, ok := ToolText.Kind()
	assert.False(t, ok)
	_, ok = ToolEraser.Kind()
	assert.False(t, ok)
	k, ok := ToolEllipse.Kind()
	assert.True(t, ok)
	assert.Equal(t, "ellipse", string(k))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig.Validate())

	bad := []Config{
		{Tool: "spray", Color: "#000000", Width: 1},
		{Tool: ToolLine, Color: "black", Width: 1},
		{Tool: ToolLine, Color: "#000000", Width: 0},
	}
	for _, c := range bad {
		assert.Error(t, c.Validate(), "%+v", c)
	}
}
