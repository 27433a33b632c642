package sim

import (
	"math"

	"github.com/1broseidon/winfall/internal/physics"
	"github.com/1broseidon/winfall/internal/platform"
)

// adoptThreshold is how far (px) the OS position may drift from the
// simulated one before the registry assumes an external move and adopts
// it. Below the threshold the drift is our own integer rounding.
const adoptThreshold = 2.0

// Registry maintains the simulation's view of live windows as bodies.
// It is not safe for concurrent use; the engine loop is its only caller.
type Registry struct {
	bodies map[platform.WindowID]*physics.Body
	titles map[platform.WindowID]string
	order  []platform.WindowID // stacking order, bottom to top
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bodies: make(map[platform.WindowID]*physics.Body),
		titles: make(map[platform.WindowID]string),
	}
}

// Refresh diffs the live window snapshot against tracked bodies. New
// windows become falling bodies at their current rectangle with zero
// velocity; vanished windows are dropped immediately. An empty snapshot
// removes everything. Calling twice with the same snapshot reports
// nothing the second time.
func (r *Registry) Refresh(snapshot []platform.Window) (added []*physics.Body, removed []platform.WindowID) {
	live := make(map[platform.WindowID]bool, len(snapshot))
	r.order = r.order[:0]

	for _, win := range snapshot {
		live[win.ID] = true
		r.order = append(r.order, win.ID)
		r.titles[win.ID] = win.Title

		body, ok := r.bodies[win.ID]
		if !ok {
			body = &physics.Body{
				ID:      uint32(win.ID),
				Pos:     physics.Vec2{X: float64(win.Bounds.X), Y: float64(win.Bounds.Y)},
				Size:    physics.Vec2{X: float64(win.Bounds.Width), Y: float64(win.Bounds.Height)},
				State:   physics.StateFalling,
				Movable: win.Movable,
			}
			body.Weight = physics.WeightFor(body.Size)
			r.bodies[win.ID] = body
			added = append(added, body)
			continue
		}

		// A resize updates the bounding box without resetting velocity.
		size := physics.Vec2{X: float64(win.Bounds.Width), Y: float64(win.Bounds.Height)}
		if size != body.Size {
			body.Size = size
			body.Weight = physics.WeightFor(size)
		}
		body.Movable = win.Movable

		// Adopt external moves (WM snapping, another tool) for movable
		// windows. Unmovable windows keep simulating internally even
		// though their visual position desynced.
		if body.Movable && body.State != physics.StateDragged {
			dx := float64(win.Bounds.X) - body.Pos.X
			dy := float64(win.Bounds.Y) - body.Pos.Y
			if math.Abs(dx) > adoptThreshold || math.Abs(dy) > adoptThreshold {
				body.Pos = physics.Vec2{X: float64(win.Bounds.X), Y: float64(win.Bounds.Y)}
			}
		}
	}

	for id := range r.bodies {
		if !live[id] {
			delete(r.bodies, id)
			delete(r.titles, id)
			removed = append(removed, id)
		}
	}

	return added, removed
}

// Get returns the body for a window ID.
func (r *Registry) Get(id platform.WindowID) (*physics.Body, bool) {
	body, ok := r.bodies[id]
	return body, ok
}

// Title returns the last known window title for a body.
func (r *Registry) Title(id platform.WindowID) string {
	return r.titles[id]
}

// Len returns the number of tracked bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// Bodies returns tracked bodies in stacking order, bottom to top.
func (r *Registry) Bodies() []*physics.Body {
	out := make([]*physics.Body, 0, len(r.order))
	for _, id := range r.order {
		if body, ok := r.bodies[id]; ok {
			out = append(out, body)
		}
	}
	return out
}

// TopAt returns the topmost body whose bounds contain the point, or nil.
func (r *Registry) TopAt(x, y float64) *physics.Body {
	for i := len(r.order) - 1; i >= 0; i-- {
		body, ok := r.bodies[r.order[i]]
		if ok && body.Contains(x, y) {
			return body
		}
	}
	return nil
}
