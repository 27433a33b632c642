package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winfall/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, fmt.Errorf("daemon not reachable: %w", err)
	}

	return nil, GetStatusOutput{
		Running:       status.DaemonRunning,
		Paused:        status.Paused,
		WindowCount:   status.BodyCount,
		UptimeSeconds: status.UptimeSeconds,
		TickRate:      status.TickRate,
		Gravity:       status.Gravity,
		Drag:          status.Drag,
		Restitution:   status.Restitution,
	}, nil
}

func (s *Server) handleSetPaused(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPausedInput) (*mcpsdk.CallToolResult, SetPausedOutput, error) {
	var err error
	if args.Paused {
		err = s.client.Pause()
	} else {
		err = s.client.Resume()
	}
	if err != nil {
		return nil, SetPausedOutput{}, err
	}
	return nil, SetPausedOutput{Paused: args.Paused}, nil
}

func (s *Server) handleSetPhysics(_ context.Context, _ *mcpsdk.CallToolRequest, args SetPhysicsInput) (*mcpsdk.CallToolResult, SetPhysicsOutput, error) {
	payload := ipc.SetParamsPayload{
		Gravity:          args.Gravity,
		Drag:             args.Drag,
		FloorRestitution: args.FloorRestitution,
		WallRestitution:  args.WallRestitution,
		ThrowMultiplier:  args.ThrowMultiplier,
	}

	var updated []string
	if args.Gravity != nil {
		updated = append(updated, "gravity")
	}
	if args.Drag != nil {
		updated = append(updated, "drag")
	}
	if args.FloorRestitution != nil {
		updated = append(updated, "floor_restitution")
	}
	if args.WallRestitution != nil {
		updated = append(updated, "wall_restitution")
	}
	if args.ThrowMultiplier != nil {
		updated = append(updated, "throw_multiplier")
	}
	if len(updated) == 0 {
		return nil, SetPhysicsOutput{}, fmt.Errorf("no parameters provided")
	}

	if err := s.client.SetParams(payload); err != nil {
		return nil, SetPhysicsOutput{}, err
	}
	return nil, SetPhysicsOutput{Updated: updated}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	filter := strings.ToLower(strings.TrimSpace(args.State))
	switch filter {
	case "", "falling", "resting", "dragged":
	default:
		return nil, ListWindowsOutput{}, fmt.Errorf("unknown state %q; expected falling, resting, or dragged", args.State)
	}

	data, err := s.client.ListBodies()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("daemon not reachable: %w", err)
	}

	windows := make([]WindowInfo, 0, len(data.Bodies))
	for _, b := range data.Bodies {
		if filter != "" && strings.ToLower(b.State) != filter {
			continue
		}
		windows = append(windows, WindowInfo{
			ID:      b.ID,
			Title:   b.Title,
			X:       b.X,
			Y:       b.Y,
			Width:   b.Width,
			Height:  b.Height,
			VX:      b.VX,
			VY:      b.VY,
			State:   b.State,
			Movable: b.Movable,
		})
	}

	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleToss(_ context.Context, _ *mcpsdk.CallToolRequest, args TossInput) (*mcpsdk.CallToolResult, TossOutput, error) {
	n, err := s.client.Toss(args.WindowID)
	if err != nil {
		return nil, TossOutput{}, err
	}
	return nil, TossOutput{Tossed: n}, nil
}
