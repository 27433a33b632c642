package config

import (
	"fmt"
	"time"

	"github.com/1broseidon/winfall/internal/physics"
	"github.com/1broseidon/winfall/internal/sim"
)

// SoundConfig configures bounce sounds.
type SoundConfig struct {
	// Enabled turns impact sounds on. Default: false.
	Enabled bool `yaml:"enabled,omitempty"`
	// Volume is the master volume, 0.0-1.0.
	Volume float64 `yaml:"volume,omitempty"`
}

// LoggingConfig configures daemon logging.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
}

// Config is the effective winfall configuration.
type Config struct {
	// TickRate is the simulation rate in Hz.
	TickRate int `yaml:"tick_rate"`
	// Gravity is the downward acceleration in px/s².
	Gravity float64 `yaml:"gravity"`
	// Drag is the horizontal velocity decay rate in 1/s.
	Drag float64 `yaml:"drag"`
	// FloorRestitution is the bounce factor against the screen bottom (0-1).
	FloorRestitution float64 `yaml:"floor_restitution"`
	// WallRestitution is the bounce factor against the screen sides (0-1).
	WallRestitution float64 `yaml:"wall_restitution"`
	// ThrowMultiplier scales the velocity inherited from a drag release.
	ThrowMultiplier float64 `yaml:"throw_multiplier"`
	// RestSpeed is the settle threshold in px/s.
	RestSpeed float64 `yaml:"rest_speed,omitempty"`
	// MaxStepMs clamps a single integration step in milliseconds.
	MaxStepMs int `yaml:"max_step_ms,omitempty"`
	// RefreshEveryTicks is the window re-enumeration cadence.
	RefreshEveryTicks int `yaml:"refresh_every_ticks,omitempty"`
	// MinMovePx is the minimum position change before a window is moved.
	MinMovePx int `yaml:"min_move_px,omitempty"`
	// WindowCollisions enables window-window separation.
	WindowCollisions *bool `yaml:"window_collisions,omitempty"`
	// Exclude lists title/class substrings that are never simulated.
	Exclude []string `yaml:"exclude,omitempty"`

	// PauseHotkey toggles the simulation, e.g. "Mod4-shift-g".
	PauseHotkey string `yaml:"pause_hotkey,omitempty"`
	// TossHotkey kicks every window upward.
	TossHotkey string `yaml:"toss_hotkey,omitempty"`

	Sound   SoundConfig   `yaml:"sound,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// DefaultConfig returns the standard tuning: 60 Hz, gravity 1200 px/s²,
// soft floor bounce, stronger wall bounce, 1.5x throws.
func DefaultConfig() *Config {
	collisions := true
	return &Config{
		TickRate:          60,
		Gravity:           1200,
		Drag:              1.2,
		FloorRestitution:  0.4,
		WallRestitution:   0.5,
		ThrowMultiplier:   1.5,
		RestSpeed:         40,
		MaxStepMs:         50,
		RefreshEveryTicks: 30,
		MinMovePx:         1,
		WindowCollisions:  &collisions,
		PauseHotkey:       "Mod4-shift-g",
		Sound: SoundConfig{
			Enabled: false,
			Volume:  0.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate must be between 1 and 240, got %d", c.TickRate)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("gravity must be positive, got %g", c.Gravity)
	}
	if c.Drag < 0 {
		return fmt.Errorf("drag must not be negative, got %g", c.Drag)
	}
	if c.FloorRestitution < 0 || c.FloorRestitution >= 1 {
		return fmt.Errorf("floor_restitution must be in [0,1), got %g", c.FloorRestitution)
	}
	if c.WallRestitution < 0 || c.WallRestitution >= 1 {
		return fmt.Errorf("wall_restitution must be in [0,1), got %g", c.WallRestitution)
	}
	if c.ThrowMultiplier < 0 {
		return fmt.Errorf("throw_multiplier must not be negative, got %g", c.ThrowMultiplier)
	}
	if c.MaxStepMs < 1 {
		return fmt.Errorf("max_step_ms must be at least 1, got %d", c.MaxStepMs)
	}
	if c.RefreshEveryTicks < 1 {
		return fmt.Errorf("refresh_every_ticks must be at least 1, got %d", c.RefreshEveryTicks)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("sound.volume must be in [0,1], got %g", c.Sound.Volume)
	}
	return nil
}

// PhysicsParams maps the config to simulation constants.
func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		Gravity:          c.Gravity,
		Drag:             c.Drag,
		FloorRestitution: c.FloorRestitution,
		WallRestitution:  c.WallRestitution,
		RestSpeed:        c.RestSpeed,
		ThrowMultiplier:  c.ThrowMultiplier,
		MaxStep:          time.Duration(c.MaxStepMs) * time.Millisecond,
		MaxImpulse:       physics.DefaultParams().MaxImpulse,
	}
}

// EngineOptions maps the config to engine options.
func (c *Config) EngineOptions() sim.Options {
	collisions := true
	if c.WindowCollisions != nil {
		collisions = *c.WindowCollisions
	}
	return sim.Options{
		TickRate:         c.TickRate,
		RefreshEvery:     c.RefreshEveryTicks,
		MinMove:          float64(c.MinMovePx),
		WindowCollisions: collisions,
		Exclude:          c.Exclude,
		Params:           c.PhysicsParams(),
	}
}
