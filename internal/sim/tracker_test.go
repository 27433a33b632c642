package sim

import (
	"testing"
	"time"

	"github.com/1broseidon/winfall/internal/input"
	"github.com/1broseidon/winfall/internal/physics"
	"github.com/1broseidon/winfall/internal/platform"
)

func dragSetup(t *testing.T) (*Tracker, *Registry, physics.Params) {
	t.Helper()
	r := NewRegistry()
	r.Refresh([]platform.Window{win(1, "a", 100, 100, 400, 300)})
	return NewTracker(), r, physics.DefaultParams()
}

func ev(typ input.EventType, x, y int, at time.Time) input.Event {
	return input.Event{Type: typ, X: x, Y: y, Time: at}
}

func TestDragGrabsTopmostBody(t *testing.T) {
	tr, reg, p := dragSetup(t)
	now := time.Now()

	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)

	b, _ := reg.Get(1)
	if b.State != physics.StateDragged {
		t.Fatalf("state = %v, want dragged", b.State)
	}
	if id, ok := tr.Active(); !ok || id != 1 {
		t.Errorf("active = %v/%v", id, ok)
	}
}

func TestDownOutsideAnyBodyIgnored(t *testing.T) {
	tr, reg, p := dragSetup(t)

	tr.HandleEvent(ev(input.Down, 900, 900, time.Now()), reg, p)

	if _, ok := tr.Active(); ok {
		t.Error("drag started with no body under the pointer")
	}
	b, _ := reg.Get(1)
	if b.State != physics.StateFalling {
		t.Errorf("body state changed: %v", b.State)
	}
}

func TestDragMovesBodyWithGrabOffset(t *testing.T) {
	tr, reg, p := dragSetup(t)
	now := time.Now()

	// Grab 50px into the window.
	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	tr.HandleEvent(ev(input.Move, 500, 400, now.Add(16*time.Millisecond)), reg, p)

	b, _ := reg.Get(1)
	if b.Pos != (physics.Vec2{X: 450, Y: 350}) {
		t.Errorf("body at %v, want (450,350)", b.Pos)
	}
	if b.State != physics.StateDragged {
		t.Errorf("state = %v", b.State)
	}
}

func TestSecondDownDuringDragIgnored(t *testing.T) {
	tr, reg, p := dragSetup(t)
	reg.Refresh([]platform.Window{
		win(1, "a", 100, 100, 400, 300),
		win(2, "b", 600, 100, 400, 300),
	})
	now := time.Now()

	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	tr.HandleEvent(ev(input.Down, 650, 150, now.Add(10*time.Millisecond)), reg, p)

	if id, _ := tr.Active(); id != 1 {
		t.Errorf("active drag switched to %v", id)
	}
	b2, _ := reg.Get(2)
	if b2.State == physics.StateDragged {
		t.Error("second body grabbed during active drag")
	}
}

func TestReleaseVelocityFiniteDifference(t *testing.T) {
	tr, reg, _ := dragSetup(t)
	p := physics.DefaultParams()
	p.ThrowMultiplier = 1
	now := time.Now()

	// 200px of horizontal motion over 100ms: 2000 px/s.
	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	tr.HandleEvent(ev(input.Move, 250, 150, now.Add(50*time.Millisecond)), reg, p)
	tr.HandleEvent(ev(input.Up, 350, 150, now.Add(100*time.Millisecond)), reg, p)

	b, _ := reg.Get(1)
	if b.Vel.X != 2000 {
		t.Errorf("release vx = %v, want 2000", b.Vel.X)
	}
	if b.Vel.Y != 0 {
		t.Errorf("release vy = %v, want 0", b.Vel.Y)
	}
	if b.State != physics.StateFalling {
		t.Errorf("state = %v, want falling", b.State)
	}
	if _, ok := tr.Active(); ok {
		t.Error("drag still active after release")
	}
}

func TestThrowMultiplierScalesRelease(t *testing.T) {
	tr, reg, _ := dragSetup(t)
	p := physics.DefaultParams() // multiplier 1.5
	now := time.Now()

	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	tr.HandleEvent(ev(input.Up, 250, 150, now.Add(100*time.Millisecond)), reg, p)

	b, _ := reg.Get(1)
	want := 100.0 / 0.1 * p.ThrowMultiplier
	if b.Vel.X != want {
		t.Errorf("release vx = %v, want %v", b.Vel.X, want)
	}
}

func TestInstantClickThrowsNothing(t *testing.T) {
	tr, reg, p := dragSetup(t)
	now := time.Now()

	// Down and up at the same instant: two samples, zero dt.
	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	tr.HandleEvent(ev(input.Up, 150, 150, now), reg, p)

	b, _ := reg.Get(1)
	if b.Vel != (physics.Vec2{}) {
		t.Errorf("instant click produced velocity %v", b.Vel)
	}
	if b.State != physics.StateFalling {
		t.Errorf("state = %v, want falling", b.State)
	}
}

func TestReleaseUsesOnlyRecentMotion(t *testing.T) {
	tr, reg, _ := dragSetup(t)
	p := physics.DefaultParams()
	p.ThrowMultiplier = 1
	now := time.Now()

	// A long slow drag followed by a fast flick. Only the flick (inside
	// the sample window) should count.
	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	for i := 1; i <= 50; i++ {
		tr.HandleEvent(ev(input.Move, 150+i, 150, now.Add(time.Duration(i)*20*time.Millisecond)), reg, p)
	}
	// Flick: 300px in the last 100ms.
	end := now.Add(1100 * time.Millisecond)
	tr.HandleEvent(ev(input.Up, 500, 150, end), reg, p)

	b, _ := reg.Get(1)
	// The slow phase moved ~1px per 20ms (50 px/s). If stale samples
	// leaked in, the estimate would be pulled far below the flick speed.
	if b.Vel.X < 1000 {
		t.Errorf("release vx = %v; stale samples diluted the flick", b.Vel.X)
	}
}

func TestMoveAndUpWithoutDragIgnored(t *testing.T) {
	tr, reg, p := dragSetup(t)
	now := time.Now()

	tr.HandleEvent(ev(input.Move, 150, 150, now), reg, p)
	tr.HandleEvent(ev(input.Up, 150, 150, now), reg, p)

	b, _ := reg.Get(1)
	if b.Pos != (physics.Vec2{X: 100, Y: 100}) || b.Vel != (physics.Vec2{}) {
		t.Errorf("stray events affected body: pos=%v vel=%v", b.Pos, b.Vel)
	}
}

func TestCancelDropsDrag(t *testing.T) {
	tr, reg, p := dragSetup(t)
	now := time.Now()

	tr.HandleEvent(ev(input.Down, 150, 150, now), reg, p)
	tr.Cancel(1)

	if _, ok := tr.Active(); ok {
		t.Error("drag still active after cancel")
	}

	// A later up for the vanished window is a no-op.
	tr.HandleEvent(ev(input.Up, 400, 400, now.Add(time.Second)), reg, p)
}
