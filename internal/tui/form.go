package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/winfall/internal/ipc"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateFloat(min, max float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if v < min || v > max {
			return fmt.Errorf("must be between %g and %g", min, max)
		}
		return nil
	}
}

func (m *model) startEditing() {
	cfg := m.cfg

	m.fGravity = formatFloat(cfg.Gravity)
	m.fDrag = formatFloat(cfg.Drag)
	m.fFloorRest = formatFloat(cfg.FloorRestitution)
	m.fWallRest = formatFloat(cfg.WallRestitution)
	m.fThrow = formatFloat(cfg.ThrowMultiplier)

	w := m.width - 4
	if w < 40 {
		w = 40
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("gravity").
				Title("Gravity").
				Description("Downward acceleration in px/s²").
				Validate(validateFloat(0, 10000)).
				Value(&m.fGravity),

			huh.NewInput().
				Key("drag").
				Title("Drag").
				Description("Horizontal velocity decay per second").
				Validate(validateFloat(0, 10)).
				Value(&m.fDrag),

			huh.NewInput().
				Key("floor_restitution").
				Title("Floor Bounce").
				Description("Velocity kept after a floor bounce (0-1)").
				Validate(validateFloat(0, 1)).
				Value(&m.fFloorRest),

			huh.NewInput().
				Key("wall_restitution").
				Title("Wall Bounce").
				Description("Velocity kept after a wall bounce (0-1)").
				Validate(validateFloat(0, 1)).
				Value(&m.fWallRest),

			huh.NewInput().
				Key("throw_multiplier").
				Title("Throw Multiplier").
				Description("Scales release velocity when a drag ends").
				Validate(validateFloat(0, 10)).
				Value(&m.fThrow),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	m.editing = true
}

// applyForm pushes the edited values to the daemon and mirrors them
// into the in-memory config so 's' persists what the user sees.
func (m *model) applyForm() {
	var payload ipc.SetParamsPayload

	if v, err := strconv.ParseFloat(m.fGravity, 64); err == nil {
		payload.Gravity = &v
		m.cfg.Gravity = v
	}
	if v, err := strconv.ParseFloat(m.fDrag, 64); err == nil {
		payload.Drag = &v
		m.cfg.Drag = v
	}
	if v, err := strconv.ParseFloat(m.fFloorRest, 64); err == nil {
		payload.FloorRestitution = &v
		m.cfg.FloorRestitution = v
	}
	if v, err := strconv.ParseFloat(m.fWallRest, 64); err == nil {
		payload.WallRestitution = &v
		m.cfg.WallRestitution = v
	}
	if v, err := strconv.ParseFloat(m.fThrow, 64); err == nil {
		payload.ThrowMultiplier = &v
		m.cfg.ThrowMultiplier = v
	}

	if err := m.client.SetParams(payload); err != nil {
		m.statusMsg = fmt.Sprintf("apply: %v (daemon not updated, 's' still saves)", err)
		return
	}
	m.statusMsg = "applied to daemon"
	m.refresh()
}
