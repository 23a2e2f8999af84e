package state

import "math"

// Bounds is an axis-aligned rectangle in scene coordinates.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Pad grows b by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b Bounds) Overlaps(o Bounds) bool {
	return !(b.MaxX < o.MinX || o.MaxX < b.MinX ||
		b.MaxY < o.MinY || o.MaxY < b.MinY)
}

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY
}

// BoundsOf returns the bounding box of points; ok is false when there are none.
func BoundsOf(points []Point) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Bounds returns the area e covers once painted, including half its stroke.
// Label extents are estimated from the font size.
func (e Element) Bounds() Bounds {
	b, ok := BoundsOf(e.Points)
	if !ok {
		return Bounds{}
	}
	switch e.Kind {
	case KindEllipse:
		c, r := e.Points[0], e.Radius()
		b = Bounds{MinX: c.X - r, MinY: c.Y - r, MaxX: c.X + r, MaxY: c.Y + r}
	case KindLabel:
		size := e.Width * LabelFontScale
		b.MaxX += float64(len([]rune(e.Text))) * size * 0.6
		b.MinY -= size
	}
	return b.Pad(e.Width / 2)
}

// SceneBounds is the union of the bounds of every element.
func SceneBounds(elements []Element) (b Bounds, ok bool) {
	for _, e := range elements {
		if len(e.Points) == 0 {
			continue
		}
		if !ok {
			b, ok = e.Bounds(), true
			continue
		}
		b = b.Union(e.Bounds())
	}
	return b, ok
}
