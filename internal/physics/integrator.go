package physics

import "time"

// Params are the tunable simulation constants. Defaults follow the
// classic "falling windows" values: gravity 1200 px/s² at 60 Hz with a
// hard floor bounce and softer wall bounces.
type Params struct {
	// Gravity is the downward acceleration in px/s².
	Gravity float64
	// Drag is the horizontal velocity decay rate in 1/s. Residual
	// throw momentum bleeds off at vx *= (1 - Drag*dt) per step.
	Drag float64
	// FloorRestitution is the velocity fraction kept after a floor bounce.
	FloorRestitution float64
	// WallRestitution is the velocity fraction kept after a side bounce.
	WallRestitution float64
	// RestSpeed is the vertical speed below which a floor-contact body
	// is considered settled, in px/s. It must exceed the velocity
	// gravity adds over one clamped step times FloorRestitution or
	// resting bodies jitter forever.
	RestSpeed float64
	// ThrowMultiplier scales the release velocity of a drag gesture.
	ThrowMultiplier float64
	// MaxStep clamps a single integration step. A delayed scheduler
	// produces one slow-motion tick instead of a tunneling body.
	MaxStep time.Duration
	// MaxImpulse bounds the velocity change a window-window collision
	// may apply, in px/s.
	MaxImpulse float64
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	return Params{
		Gravity:          1200,
		Drag:             1.2,
		FloorRestitution: 0.4,
		WallRestitution:  0.5,
		RestSpeed:        40,
		ThrowMultiplier:  1.5,
		MaxStep:          50 * time.Millisecond,
		MaxImpulse:       2000,
	}
}

// ClampStep limits dt to the configured maximum step, in seconds.
func (p Params) ClampStep(dt time.Duration) float64 {
	if dt > p.MaxStep {
		dt = p.MaxStep
	}
	if dt < 0 {
		dt = 0
	}
	return dt.Seconds()
}

// Integrate advances one body by dt seconds using explicit Euler:
// velocity first, then position from the new velocity. Dragged bodies
// are owned by the interaction tracker and are not touched.
func Integrate(b *Body, dt float64, p Params) {
	if b.State == StateDragged {
		return
	}

	b.Vel.Y += p.Gravity * dt

	decay := 1 - p.Drag*dt
	if decay < 0 {
		decay = 0
	}
	b.Vel.X *= decay

	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}
