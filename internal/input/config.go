package input

import (
	"fmt"
	"regexp"
	"strings"

	"SceneBoard/internal/state"
)

type Tool string

const (
	ToolFreehand  Tool = "freehand"
	ToolRectangle Tool = "rectangle"
	ToolEllipse   Tool = "ellipse"
	ToolLine      Tool = "line"
	ToolText      Tool = "text"
	ToolEraser    Tool = "eraser"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolFreehand, ToolRectangle, ToolEllipse, ToolLine, ToolText, ToolEraser}

func ParseTool(s string) (Tool, error) {
	t := Tool(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tools {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// Kind returns the element kind a drawing tool produces. Text and eraser
// have no drawing phase and report false.
func (t Tool) Kind() (state.Kind, bool) {
	switch t {
	case ToolFreehand:
		return state.KindFreehand, true
	case ToolRectangle:
		return state.KindRectangle, true
	case ToolEllipse:
		return state.KindEllipse, true
	case ToolLine:
		return state.KindLine, true
	}
	return "", false
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config is the tool selection captured once at the start of a gesture.
// Changing it later never alters elements already drawn.
type Config struct {
	Tool  Tool
	Color string // #rrggbb
	Width float64
}

var DefaultConfig = Config{Tool: ToolFreehand, Color: "#000000", Width: 2}

func (c Config) Validate() error {
	if _, err := ParseTool(string(c.Tool)); err != nil {
		return err
	}
	if !colorPattern.MatchString(c.Color) {
		return fmt.Errorf("color %q is not #rrggbb", c.Color)
	}
	if !(c.Width > 0) {
		return fmt.Errorf("stroke width must be positive, got %v", c.Width)
	}
	return nil
}
