package physics

// State is the simulation state of a body.
type State int

const (
	// StateFalling means the body is under gravity.
	StateFalling State = iota
	// StateResting means the body sits on the floor with no velocity.
	StateResting
	// StateDragged means the user holds the body; integration is suspended.
	StateDragged
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateFalling:
		return "falling"
	case StateResting:
		return "resting"
	case StateDragged:
		return "dragged"
	default:
		return "unknown"
	}
}

// Body is the physical representation of one tracked window.
// Position and velocity are float64 so sub-pixel motion accumulates
// across ticks instead of being truncated by integer window coordinates.
type Body struct {
	ID   uint32
	Pos  Vec2 // top-left corner
	Size Vec2
	Vel  Vec2 // screen units per second
	// Weight is cosmetic: it picks which of two colliding bodies gets
	// pushed aside and scales impact sound, nothing else. Gravity is
	// uniform.
	Weight float64
	State  State
	// Movable mirrors the window manager's move permission; unmovable
	// bodies still simulate but their positions are never pushed back.
	Movable bool
}

// Bounds returns the body's bounding rectangle.
func (b *Body) Bounds() Rect {
	return Rect{X: b.Pos.X, Y: b.Pos.Y, Width: b.Size.X, Height: b.Size.Y}
}

// Contains reports whether the point lies inside the body's bounds.
func (b *Body) Contains(x, y float64) bool {
	return x >= b.Pos.X && x < b.Pos.X+b.Size.X &&
		y >= b.Pos.Y && y < b.Pos.Y+b.Size.Y
}

// WeightFor derives a body weight from its window area, normalized so
// a 800x600 window weighs 1.0.
func WeightFor(size Vec2) float64 {
	const referenceArea = 800.0 * 600.0
	area := size.X * size.Y
	if area <= 0 {
		return 1.0
	}
	return area / referenceArea
}
