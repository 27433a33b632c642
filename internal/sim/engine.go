package sim

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/winfall/internal/input"
	"github.com/1broseidon/winfall/internal/physics"
	"github.com/1broseidon/winfall/internal/platform"
)

// impactMinSpeed is the floor-impact speed (px/s) below which no sound
// is played; settling bodies tick the floor every frame.
const impactMinSpeed = 120.0

// Options configure the engine loop.
type Options struct {
	// TickRate is the target simulation rate in Hz.
	TickRate int
	// RefreshEvery is how many ticks pass between window re-enumerations.
	RefreshEvery int
	// MinMove is the minimum position delta (px) before a move is
	// pushed to the window system.
	MinMove float64
	// WindowCollisions enables best-effort window-window separation.
	WindowCollisions bool
	// Exclude lists case-insensitive substrings; windows whose title or
	// app class match any of them are never tracked.
	Exclude []string
	// Params are the initial physics constants.
	Params physics.Params
}

// DefaultOptions returns the standard engine tuning.
func DefaultOptions() Options {
	return Options{
		TickRate:         60,
		RefreshEvery:     30,
		MinMove:          1,
		WindowCollisions: true,
		Params:           physics.DefaultParams(),
	}
}

// ImpactFunc is called on hard floor impacts with the impact speed
// (px/s) and the body weight.
type ImpactFunc func(speed, weight float64)

// Status is a snapshot of the engine for IPC consumers.
type Status struct {
	Paused        bool
	Bodies        int
	UptimeSeconds int64
	TickRate      int
	Gravity       float64
	Drag          float64
	Restitution   float64
}

// BodyInfo describes one tracked body for IPC consumers.
type BodyInfo struct {
	ID      uint32
	Title   string
	X       int
	Y       int
	Width   int
	Height  int
	VX      float64
	VY      float64
	State   string
	Weight  float64
	Movable bool
}

type sentPos struct {
	x int
	y int
}

// Engine is the scheduler: a fixed-rate loop on its own goroutine that
// refreshes the body registry, feeds pointer events to the tracker,
// integrates and resolves non-dragged bodies, and pushes the resulting
// positions back to the window system. It is the only writer of body
// state; IPC readers go through the mutex-guarded accessors.
type Engine struct {
	backend platform.Backend
	events  <-chan input.Event
	logger  *slog.Logger
	impact  ImpactFunc

	tickRate     int
	refreshEvery int
	minMove      float64
	collisions   bool
	exclude      []string

	mu       sync.Mutex
	params   physics.Params
	reg      *Registry
	tracker  *Tracker
	world    physics.Rect
	hasWorld bool
	lastSent map[platform.WindowID]sentPos
	paused   bool
	start    time.Time
	lastTick time.Time
	ticks    uint64
}

// New creates an engine. The impact callback may be nil.
func New(backend platform.Backend, events <-chan input.Event, opts Options, logger *slog.Logger, impact ImpactFunc) *Engine {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = 30
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		backend:      backend,
		events:       events,
		logger:       logger,
		impact:       impact,
		tickRate:     opts.TickRate,
		refreshEvery: opts.RefreshEvery,
		minMove:      opts.MinMove,
		collisions:   opts.WindowCollisions,
		exclude:      opts.Exclude,
		params:       opts.Params,
		reg:          NewRegistry(),
		tracker:      NewTracker(),
		lastSent:     make(map[platform.WindowID]sentPos),
	}
}

// Run drives the simulation until the context is cancelled. Windows are
// left wherever they last were; there is no rollback.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(e.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.mu.Lock()
	e.start = time.Now()
	e.lastTick = e.start
	e.mu.Unlock()

	e.logger.Info("engine started", "tick_rate", e.tickRate, "refresh_every", e.refreshEvery)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return ctx.Err()
		case now := <-ticker.C:
			e.tick(now)
		}
	}
}

// tick performs one simulation step with panic isolation so a single
// bad body or X hiccup never kills the loop.
func (e *Engine) tick(now time.Time) {
	defer func() {
		if err := recover(); err != nil {
			e.logger.Error("tick panic recovered", "error", err)
		}
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	dt := e.params.ClampStep(now.Sub(e.lastTick))
	e.lastTick = now
	e.ticks++

	if e.ticks == 1 || e.ticks%uint64(e.refreshEvery) == 0 {
		e.refresh()
	}

	// Pointer events flow even while paused so a drag that was live
	// when the pause hit still sees its release. Pause only skips
	// integration and position pushes.
	e.drainEvents()

	if e.paused {
		return
	}

	if !e.hasWorld {
		return
	}

	bodies := e.reg.Bodies()
	for _, b := range bodies {
		physics.Integrate(b, dt, e.params)

		impactSpeed := 0.0
		if b.State != physics.StateDragged && b.Vel.Y > impactMinSpeed &&
			b.Pos.Y+b.Size.Y >= e.world.Bottom() {
			impactSpeed = b.Vel.Y
		}

		physics.ResolveWorld(b, e.world, e.params)

		if impactSpeed > 0 && e.impact != nil {
			e.impact(impactSpeed, b.Weight)
		}
	}

	if e.collisions {
		for i := 0; i < len(bodies); i++ {
			for j := i + 1; j < len(bodies); j++ {
				physics.ResolvePair(bodies[i], bodies[j], e.params)
			}
		}
		// Separation can push a body back out of the world.
		for _, b := range bodies {
			physics.ResolveWorld(b, e.world, e.params)
		}
	}

	e.pushPositions()
}

// refresh re-enumerates windows and the work area, diffing the registry.
func (e *Engine) refresh() {
	snapshot, err := e.backend.ListWindows()
	if err != nil {
		e.logger.Warn("window enumeration failed", "error", err)
		return
	}
	snapshot = e.filter(snapshot)

	if world, err := e.backend.WorkArea(); err == nil {
		e.world = physics.Rect{
			X:      float64(world.X),
			Y:      float64(world.Y),
			Width:  float64(world.Width),
			Height: float64(world.Height),
		}
		e.hasWorld = true
	} else {
		e.logger.Warn("work area query failed", "error", err)
	}

	added, removed := e.reg.Refresh(snapshot)
	for _, b := range added {
		e.logger.Info("tracking window", "id", b.ID, "title", e.reg.Title(platform.WindowID(b.ID)), "weight", b.Weight)
	}
	for _, id := range removed {
		e.logger.Info("window gone", "id", id)
		e.tracker.Cancel(id)
		delete(e.lastSent, id)
	}
}

// drainEvents consumes pending pointer events without blocking.
func (e *Engine) drainEvents() {
	for {
		select {
		case ev, ok := <-e.events:
			if !ok {
				e.events = nil
				return
			}
			e.tracker.HandleEvent(ev, e.reg, e.params)
		default:
			return
		}
	}
}

// pushPositions applies simulated positions to the window system,
// skipping sub-threshold moves and unmovable windows. Move failures are
// tolerated: a closed window shows up as a removal on the next refresh.
func (e *Engine) pushPositions() {
	for _, id := range e.reg.order {
		b, ok := e.reg.Get(id)
		if !ok || !b.Movable {
			continue
		}

		x := int(math.Round(b.Pos.X))
		y := int(math.Round(b.Pos.Y))

		last, sent := e.lastSent[id]
		if sent && math.Abs(float64(x-last.x)) < e.minMove && math.Abs(float64(y-last.y)) < e.minMove {
			continue
		}

		if err := e.backend.MoveWindow(id, x, y); err != nil {
			e.logger.Debug("move rejected", "id", id, "error", err)
			continue
		}
		e.lastSent[id] = sentPos{x: x, y: y}
	}
}

// filter drops windows matching the exclusion list.
func (e *Engine) filter(snapshot []platform.Window) []platform.Window {
	if len(e.exclude) == 0 {
		return snapshot
	}
	out := snapshot[:0]
	for _, win := range snapshot {
		if e.excluded(win) {
			continue
		}
		out = append(out, win)
	}
	return out
}

func (e *Engine) excluded(win platform.Window) bool {
	title := strings.ToLower(win.Title)
	app := strings.ToLower(win.AppID)
	for _, pattern := range e.exclude {
		p := strings.ToLower(pattern)
		if p == "" {
			continue
		}
		if strings.Contains(title, p) || strings.Contains(app, p) {
			return true
		}
	}
	return false
}

// Pause freezes the simulation, leaving windows where they are.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused {
		e.paused = true
		e.logger.Info("simulation paused")
	}
}

// Resume restarts a paused simulation.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused {
		e.paused = false
		e.logger.Info("simulation resumed")
	}
}

// TogglePause flips the pause state and returns the new one.
func (e *Engine) TogglePause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = !e.paused
	e.logger.Info("simulation pause toggled", "paused", e.paused)
	return e.paused
}

// SetParams replaces the physics constants for subsequent ticks.
func (e *Engine) SetParams(p physics.Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = p
}

// Params returns the current physics constants.
func (e *Engine) Params() physics.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Status reports a snapshot for IPC consumers.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	uptime := int64(0)
	if !e.start.IsZero() {
		uptime = int64(time.Since(e.start).Seconds())
	}

	return Status{
		Paused:        e.paused,
		Bodies:        e.reg.Len(),
		UptimeSeconds: uptime,
		TickRate:      e.tickRate,
		Gravity:       e.params.Gravity,
		Drag:          e.params.Drag,
		Restitution:   e.params.FloorRestitution,
	}
}

// Bodies reports all tracked bodies for IPC consumers.
func (e *Engine) Bodies() []BodyInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	bodies := e.reg.Bodies()
	out := make([]BodyInfo, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, BodyInfo{
			ID:      b.ID,
			Title:   e.reg.Title(platform.WindowID(b.ID)),
			X:       int(math.Round(b.Pos.X)),
			Y:       int(math.Round(b.Pos.Y)),
			Width:   int(b.Size.X),
			Height:  int(b.Size.Y),
			VX:      b.Vel.X,
			VY:      b.Vel.Y,
			State:   b.State.String(),
			Weight:  b.Weight,
			Movable: b.Movable,
		})
	}
	return out
}

// Toss kicks a body upward with some horizontal jitter, waking it from
// rest. id 0 tosses every tracked body. Returns how many were tossed.
func (e *Engine) Toss(id uint32) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	tossed := 0
	for _, b := range e.reg.Bodies() {
		if id != 0 && b.ID != id {
			continue
		}
		if b.State == physics.StateDragged {
			continue
		}
		b.Vel.Y = -0.6 * e.params.Gravity
		b.Vel.X += (rand.Float64()*2 - 1) * 200
		b.State = physics.StateFalling
		tossed++
	}
	return tossed
}
