package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Running       bool    `json:"running"`
	Paused        bool    `json:"paused"`
	WindowCount   int     `json:"window_count"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	TickRate      int     `json:"tick_rate"`
	Gravity       float64 `json:"gravity"`
	Drag          float64 `json:"drag"`
	Restitution   float64 `json:"restitution"`
}

// SetPausedInput is the input for the set_paused tool.
type SetPausedInput struct {
	Paused bool `json:"paused" jsonschema:"required,true to freeze the simulation, false to resume it"`
}

// SetPausedOutput is the output for the set_paused tool.
type SetPausedOutput struct {
	Paused bool `json:"paused"`
}

// SetPhysicsInput is the input for the set_physics tool. Omitted
// fields keep their current value.
type SetPhysicsInput struct {
	Gravity          *float64 `json:"gravity,omitempty" jsonschema:"Downward acceleration in px/s² (0-10000)"`
	Drag             *float64 `json:"drag,omitempty" jsonschema:"Horizontal velocity decay rate per second (0-10)"`
	FloorRestitution *float64 `json:"floor_restitution,omitempty" jsonschema:"Fraction of speed kept after a floor bounce (0-1)"`
	WallRestitution  *float64 `json:"wall_restitution,omitempty" jsonschema:"Fraction of speed kept after a wall bounce (0-1)"`
	ThrowMultiplier  *float64 `json:"throw_multiplier,omitempty" jsonschema:"Scale applied to release velocity when a drag ends (0-10)"`
}

// SetPhysicsOutput is the output for the set_physics tool.
type SetPhysicsOutput struct {
	Updated []string `json:"updated"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	State string `json:"state,omitempty" jsonschema:"Optional state filter: falling, resting, or dragged"`
}

// WindowInfo describes one simulated window.
type WindowInfo struct {
	ID      uint32  `json:"id"`
	Title   string  `json:"title"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	State   string  `json:"state"`
	Movable bool    `json:"movable"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// TossInput is the input for the toss_windows tool.
type TossInput struct {
	WindowID uint32 `json:"window_id,omitempty" jsonschema:"X11 window ID to toss; omit or 0 to toss every window"`
}

// TossOutput is the output for the toss_windows tool.
type TossOutput struct {
	Tossed int `json:"tossed"`
}
