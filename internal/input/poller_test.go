package input

import (
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/winfall/internal/platform"
)

// scriptPointer returns a PointerFunc that replays the given states,
// repeating the last one when exhausted.
func scriptPointer(states []platform.Pointer) PointerFunc {
	i := 0
	return func() (platform.Pointer, error) {
		s := states[i]
		if i < len(states)-1 {
			i++
		}
		return s, nil
	}
}

func collect(p *Poller, samples int) []Event {
	now := time.Now()
	for i := 0; i < samples; i++ {
		p.sample(now.Add(time.Duration(i) * 10 * time.Millisecond))
	}

	var out []Event
	for {
		select {
		case ev := <-p.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPollerSynthesizesDragSequence(t *testing.T) {
	p := NewPoller(scriptPointer([]platform.Pointer{
		{X: 100, Y: 100, Pressed: false},
		{X: 100, Y: 100, Pressed: true},
		{X: 120, Y: 110, Pressed: true},
		{X: 140, Y: 120, Pressed: true},
		{X: 140, Y: 120, Pressed: false},
	}), 0)

	events := collect(p, 5)

	want := []EventType{Down, Move, Move, Up}
	if len(events) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(want))
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Errorf("event %d type = %v, want %v", i, ev.Type, want[i])
		}
	}
	if events[0].X != 100 || events[0].Y != 100 {
		t.Errorf("down at (%d,%d), want (100,100)", events[0].X, events[0].Y)
	}
	if events[3].X != 140 || events[3].Y != 120 {
		t.Errorf("up at (%d,%d), want (140,120)", events[3].X, events[3].Y)
	}
}

func TestPollerNoEventsWhileIdle(t *testing.T) {
	p := NewPoller(scriptPointer([]platform.Pointer{
		{X: 100, Y: 100},
		{X: 200, Y: 200},
		{X: 300, Y: 300},
	}), 0)

	if events := collect(p, 3); len(events) != 0 {
		t.Errorf("unpressed motion produced events: %v", events)
	}
}

func TestPollerHeldWithoutMotion(t *testing.T) {
	p := NewPoller(scriptPointer([]platform.Pointer{
		{X: 100, Y: 100, Pressed: true},
		{X: 100, Y: 100, Pressed: true},
		{X: 100, Y: 100, Pressed: true},
	}), 0)

	events := collect(p, 3)
	if len(events) != 1 || events[0].Type != Down {
		t.Errorf("holding still should emit only the down event, got %v", events)
	}
}

func TestPollerQueryErrorSkipsSample(t *testing.T) {
	calls := 0
	query := func() (platform.Pointer, error) {
		calls++
		if calls == 2 {
			return platform.Pointer{}, errors.New("connection reset")
		}
		return platform.Pointer{X: 10, Y: 10, Pressed: calls > 2}, nil
	}
	p := NewPoller(query, 0)

	events := collect(p, 4)

	// Sample 2 errored and must not have been treated as a release.
	if len(events) != 1 || events[0].Type != Down {
		t.Errorf("got %v, want single down", events)
	}
}

func TestPollerDropsWhenFull(t *testing.T) {
	states := []platform.Pointer{{X: 0, Y: 0, Pressed: true}}
	for i := 1; i < 300; i++ {
		states = append(states, platform.Pointer{X: i, Y: 0, Pressed: true})
	}
	p := NewPoller(scriptPointer(states), 0)

	// No consumer: the buffer fills and further events are dropped
	// rather than blocking the poll loop.
	now := time.Now()
	for i := 0; i < 300; i++ {
		p.sample(now.Add(time.Duration(i) * time.Millisecond))
	}

	if got := len(p.events); got != cap(p.events) {
		t.Errorf("buffered %d events, want full buffer %d", got, cap(p.events))
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewPoller(scriptPointer([]platform.Pointer{{}}), 0)
	if p.interval != 10*time.Millisecond {
		t.Errorf("default interval = %v", p.interval)
	}
}
