package input

import "time"

// EventType classifies a pointer event.
type EventType int

const (
	// Down is the primary button press.
	Down EventType = iota
	// Move is pointer motion while the button is held.
	Move
	// Up is the primary button release.
	Up
)

// String returns the string representation of the event type
func (t EventType) String() string {
	switch t {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Event is one pointer event in screen coordinates.
type Event struct {
	Type EventType
	X    int
	Y    int
	Time time.Time
}
