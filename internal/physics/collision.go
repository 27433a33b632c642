package physics

import "math"

// ResolveWorld clamps a body against the world rectangle and applies
// bounce restitution. The floor is resolved before the sides when both
// penetrate on the same tick. There is no ceiling: a thrown body
// decelerates under gravity and comes back.
func ResolveWorld(b *Body, world Rect, p Params) {
	if b.State == StateDragged {
		// The tracker owns position while dragged; only keep the body
		// inside the world so a release never starts out of bounds.
		clampInside(b, world)
		return
	}

	floorContact := false
	if b.Pos.Y+b.Size.Y >= world.Bottom() {
		b.Pos.Y = world.Bottom() - b.Size.Y
		if b.Vel.Y > 0 {
			b.Vel.Y = -b.Vel.Y * p.FloorRestitution
		}
		floorContact = true
	}

	if b.Pos.X < world.X {
		b.Pos.X = world.X
		if b.Vel.X < 0 {
			b.Vel.X = -b.Vel.X * p.WallRestitution
		}
	} else if b.Pos.X+b.Size.X > world.Right() {
		b.Pos.X = world.Right() - b.Size.X
		if b.Vel.X > 0 {
			b.Vel.X = -b.Vel.X * p.WallRestitution
		}
	}

	if floorContact && math.Abs(b.Vel.Y) < p.RestSpeed {
		b.Vel.Y = 0
		if math.Abs(b.Vel.X) < p.RestSpeed {
			b.Vel.X = 0
			b.State = StateResting
			return
		}
	}
	b.State = StateFalling
}

// ResolvePair separates two overlapping bodies along the axis of
// minimum penetration, moving the lighter body, and exchanges a
// restitution-scaled fraction of velocity along that axis. The applied
// impulse is clamped so stacked windows cannot oscillate unboundedly.
// This is cosmetic separation, not a physically exact solver.
func ResolvePair(a, b *Body, p Params) {
	dx, dy := Overlap(a.Bounds(), b.Bounds())
	if dx <= 0 || dy <= 0 {
		return
	}

	// The lighter body yields; a dragged body never does.
	mover, fixed := b, a
	if a.Weight < b.Weight {
		mover, fixed = a, b
	}
	if mover.State == StateDragged {
		mover, fixed = fixed, mover
	}
	if mover.State == StateDragged {
		return
	}

	// A dragged fixed body keeps its tracker-owned velocity.
	fixedYields := fixed.State != StateDragged

	if dx < dy {
		dir := 1.0
		if mover.Pos.X+mover.Size.X/2 < fixed.Pos.X+fixed.Size.X/2 {
			dir = -1
		}
		mover.Pos.X += dir * dx
		mv, fv := exchange(mover.Vel.X, fixed.Vel.X, p)
		mover.Vel.X = mv
		if fixedYields {
			fixed.Vel.X = fv
		}
	} else {
		dir := 1.0
		if mover.Pos.Y+mover.Size.Y/2 < fixed.Pos.Y+fixed.Size.Y/2 {
			dir = -1
		}
		mover.Pos.Y += dir * dy
		mv, fv := exchange(mover.Vel.Y, fixed.Vel.Y, p)
		mover.Vel.Y = mv
		if fixedYields {
			fixed.Vel.Y = fv
		}
	}

	mover.State = StateFalling
	if fixed.State == StateResting {
		fixed.State = StateFalling
	}
}

// exchange swaps the axis velocities of two bodies, scaled by wall
// restitution, with the per-body velocity change clamped to MaxImpulse.
func exchange(va, vb float64, p Params) (float64, float64) {
	na := vb * p.WallRestitution
	nb := va * p.WallRestitution
	return va + clampImpulse(na-va, p.MaxImpulse), vb + clampImpulse(nb-vb, p.MaxImpulse)
}

func clampImpulse(dv, limit float64) float64 {
	if limit <= 0 {
		return dv
	}
	if dv > limit {
		return limit
	}
	if dv < -limit {
		return -limit
	}
	return dv
}

func clampInside(b *Body, world Rect) {
	if b.Pos.X < world.X {
		b.Pos.X = world.X
	} else if b.Pos.X+b.Size.X > world.Right() {
		b.Pos.X = world.Right() - b.Size.X
	}
	if b.Pos.Y < world.Y {
		b.Pos.Y = world.Y
	} else if b.Pos.Y+b.Size.Y > world.Bottom() {
		b.Pos.Y = world.Bottom() - b.Size.Y
	}
}
