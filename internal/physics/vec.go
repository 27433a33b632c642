package physics

import "math"

// Vec2 is a 2D vector in screen space (x right, y down).
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64 {
	return r.X + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Overlap returns the overlap extents of two rectangles along each
// axis. Both are positive only when the rectangles intersect.
func Overlap(a, b Rect) (dx, dy float64) {
	dx = math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	dy = math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)
	return dx, dy
}
