package sim

import (
	"time"

	"github.com/1broseidon/winfall/internal/input"
	"github.com/1broseidon/winfall/internal/physics"
	"github.com/1broseidon/winfall/internal/platform"
)

// sampleWindow is how much recent drag motion feeds the release
// velocity estimate. Older samples describe where the gesture has been,
// not where it is going.
const sampleWindow = 150 * time.Millisecond

type dragSample struct {
	at  time.Time
	pos physics.Vec2
}

// Tracker owns the drag state machine. A pointer-down inside a body
// grabs it, suspending integration; pointer-up releases it with a
// velocity estimated from recent motion. One drag is active at a time;
// further pointer-downs during a drag are ignored.
type Tracker struct {
	active     platform.WindowID // 0 when no drag is active
	grabOffset physics.Vec2
	samples    []dragSample
}

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Active returns the dragged window ID, if any.
func (t *Tracker) Active() (platform.WindowID, bool) {
	return t.active, t.active != 0
}

// HandleEvent feeds one pointer event through the state machine.
func (t *Tracker) HandleEvent(ev input.Event, reg *Registry, p physics.Params) {
	switch ev.Type {
	case input.Down:
		t.pointerDown(ev, reg)
	case input.Move:
		t.pointerMove(ev, reg)
	case input.Up:
		t.pointerUp(ev, reg, p)
	}
}

// Cancel drops the active drag without computing a release velocity.
// Used when the dragged window vanishes mid-gesture.
func (t *Tracker) Cancel(id platform.WindowID) {
	if t.active == id {
		t.reset()
	}
}

func (t *Tracker) pointerDown(ev input.Event, reg *Registry) {
	if t.active != 0 {
		return
	}

	px, py := float64(ev.X), float64(ev.Y)
	body := reg.TopAt(px, py)
	if body == nil {
		return
	}

	t.active = platform.WindowID(body.ID)
	t.grabOffset = body.Pos.Sub(physics.Vec2{X: px, Y: py})
	t.samples = append(t.samples[:0], dragSample{at: ev.Time, pos: physics.Vec2{X: px, Y: py}})
	body.State = physics.StateDragged
}

func (t *Tracker) pointerMove(ev input.Event, reg *Registry) {
	if t.active == 0 {
		return
	}
	body, ok := reg.Get(t.active)
	if !ok {
		t.reset()
		return
	}

	pos := physics.Vec2{X: float64(ev.X), Y: float64(ev.Y)}
	body.Pos = pos.Add(t.grabOffset)
	t.record(dragSample{at: ev.Time, pos: pos})
}

func (t *Tracker) pointerUp(ev input.Event, reg *Registry, p physics.Params) {
	if t.active == 0 {
		return
	}
	body, ok := reg.Get(t.active)
	if !ok {
		t.reset()
		return
	}

	t.record(dragSample{at: ev.Time, pos: physics.Vec2{X: float64(ev.X), Y: float64(ev.Y)}})
	body.Vel = t.releaseVelocity(p)
	body.State = physics.StateFalling
	t.reset()
}

// releaseVelocity is the finite-difference estimate over the retained
// sample window: displacement between the oldest and newest sample over
// their time delta, scaled by the throw multiplier. An instantaneous
// click-release has fewer than two samples and throws nothing.
func (t *Tracker) releaseVelocity(p physics.Params) physics.Vec2 {
	if len(t.samples) < 2 {
		return physics.Vec2{}
	}

	oldest := t.samples[0]
	newest := t.samples[len(t.samples)-1]
	dt := newest.at.Sub(oldest.at).Seconds()
	if dt <= 0 {
		return physics.Vec2{}
	}

	return newest.pos.Sub(oldest.pos).Scale(p.ThrowMultiplier / dt)
}

// record appends a sample and discards everything older than the
// sample window.
func (t *Tracker) record(s dragSample) {
	t.samples = append(t.samples, s)

	cutoff := s.at.Add(-sampleWindow)
	keep := 0
	for keep < len(t.samples)-1 && t.samples[keep].at.Before(cutoff) {
		keep++
	}
	t.samples = t.samples[keep:]
}

func (t *Tracker) reset() {
	t.active = 0
	t.samples = t.samples[:0]
}
