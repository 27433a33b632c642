package input

import (
	"context"
	"time"

	"github.com/1broseidon/winfall/internal/platform"
)

// PointerFunc samples the global pointer. It is the only platform
// dependency of the poller, so tests can script pointer motion.
type PointerFunc func() (platform.Pointer, error)

// Poller samples the pointer at a fixed interval and synthesizes
// down/move/up events from state changes. Events are delivered on a
// buffered channel so the producer never blocks on simulation work;
// when the buffer is full the oldest intermediate motion is simply
// lost, which a 60 Hz consumer never notices.
type Poller struct {
	query    PointerFunc
	interval time.Duration
	events   chan Event

	pressed bool
	lastX   int
	lastY   int
}

// NewPoller creates a poller sampling at the given interval.
func NewPoller(query PointerFunc, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &Poller{
		query:    query,
		interval: interval,
		events:   make(chan Event, 128),
	}
}

// Events returns the event channel. Closed when Run exits.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.events)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.sample(now)
		}
	}
}

// sample compares the current pointer state against the previous one
// and emits the corresponding events.
func (p *Poller) sample(now time.Time) {
	state, err := p.query()
	if err != nil {
		// Transient X errors: keep polling, drop the sample.
		return
	}

	switch {
	case state.Pressed && !p.pressed:
		p.emit(Event{Type: Down, X: state.X, Y: state.Y, Time: now})
	case state.Pressed && p.pressed:
		if state.X != p.lastX || state.Y != p.lastY {
			p.emit(Event{Type: Move, X: state.X, Y: state.Y, Time: now})
		}
	case !state.Pressed && p.pressed:
		p.emit(Event{Type: Up, X: state.X, Y: state.Y, Time: now})
	}

	p.pressed = state.Pressed
	p.lastX = state.X
	p.lastY = state.Y
}

func (p *Poller) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
	}
}
