package state

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Point is a position in scene (untransformed) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

type Kind string

const (
	KindFreehand  Kind = "freehand"
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindLabel     Kind = "label"
)

// LabelFontScale maps a label's stroke width to its font size.
const LabelFontScale = 10

var ErrUnknownKind = errors.New("unknown element kind")

// ParseKind validates a kind read from a file or the network.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindFreehand, KindRectangle, KindEllipse, KindLine, KindLabel:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// TwoPoint reports whether elements of this kind are defined by exactly two points.
func (k Kind) TwoPoint() bool {
	return k == KindRectangle || k == KindEllipse || k == KindLine
}

// Element is one drawable primitive. Kind selects which fields are meaningful:
//
//	freehand   Points is the stroke, in order
//	rectangle  Points is [topLeft, bottomRight]
//	ellipse    Points is [center, edge]; radius is their distance
//	line       Points is [start, end]
//	label      Text at Points[0]
type Element struct {
	ID     string  `json:"id"`
	Kind   Kind    `json:"kind"`
	Points []Point `json:"points"`
	Text   string  `json:"text,omitempty"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Owner  string  `json:"owner,omitempty"`
}

// NewID returns a fresh element identifier.
func NewID() string {
	return uuid.NewString()
}

// Valid reports whether e may be committed to a scene.
func (e Element) Valid() bool {
	if e.ID == "" || !(e.Width > 0) {
		return false
	}
	switch e.Kind {
	case KindFreehand:
		return len(e.Points) >= 1
	case KindRectangle, KindEllipse, KindLine:
		return len(e.Points) == 2
	case KindLabel:
		return e.Text != "" && len(e.Points) == 1
	}
	return false
}

// Clean copies the valid elements in order, keeping the first of any
// repeated ID.
func Clean(elements []Element) []Element {
	out := make([]Element, 0, len(elements))
	ids := make(map[string]struct{}, len(elements))
	for _, e := range elements {
		if !e.Valid() {
			continue
		}
		if _, dup := ids[e.ID]; dup {
			continue
		}
		ids[e.ID] = struct{}{}
		out = append(out, e.Clone())
	}
	return out
}

// Position is the anchor of a label, or the first point of any other element.
func (e Element) Position() Point {
	if len(e.Points) == 0 {
		return Point{}
	}
	return e.Points[0]
}

// Radius of an ellipse element; zero for anything else.
func (e Element) Radius() float64 {
	if e.Kind != KindEllipse || len(e.Points) < 2 {
		return 0
	}
	return e.Points[0].Dist(e.Points[1])
}

// Near reports whether q lies within tolerance of any stored point of e.
// A tolerance <= 0 selects the default of twice the stroke width. Only the
// stored vertices are tested, not the outline between them.
func (e Element) Near(q Point, tolerance float64) bool {
	tol := tolerance
	if tol <= 0 {
		tol = 2 * e.Width
	}
	for _, p := range e.Points {
		if q.Dist(p) < tol {
			return true
		}
	}
	return false
}

// Clone returns a copy of e that shares no memory with it.
func (e Element) Clone() Element {
	c := e
	if e.Points != nil {
		c.Points = make([]Point, len(e.Points))
		copy(c.Points, e.Points)
	}
	return c
}

func (e Element) String() string {
	if e.Kind == KindLabel {
		return fmt.Sprintf("Element (%s) Id:%s Text:%q At:%v", e.Kind, e.ID, e.Text, e.Position())
	}
	return fmt.Sprintf("Element (%s) Id:%s Points:%d Color:%s Width:%.1f", e.Kind, e.ID, len(e.Points), e.Color, e.Width)
}

func cloneElements(src []Element) []Element {
	dst := make([]Element, len(src))
	for i, e := range src {
		dst[i] = e.Clone()
	}
	return dst
}
