package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/winfall/internal/ipc"
)

// fakeClient implements daemonClient for handler tests.
type fakeClient struct {
	status    *ipc.StatusData
	bodies    []ipc.BodyData
	paused    bool
	setParams *ipc.SetParamsPayload
	tossedID  uint32
	tossed    int
	err       error
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func (f *fakeClient) Pause() error {
	f.paused = true
	return f.err
}

func (f *fakeClient) Resume() error {
	f.paused = false
	return f.err
}

func (f *fakeClient) SetParams(payload ipc.SetParamsPayload) error {
	f.setParams = &payload
	return f.err
}

func (f *fakeClient) ListBodies() (*ipc.BodiesData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.BodiesData{Bodies: f.bodies}, nil
}

func (f *fakeClient) Toss(windowID uint32) (int, error) {
	f.tossedID = windowID
	return f.tossed, f.err
}

func TestHandleGetStatus(t *testing.T) {
	fake := &fakeClient{
		status: &ipc.StatusData{
			DaemonRunning: true,
			Paused:        true,
			BodyCount:     3,
			TickRate:      60,
			Gravity:       1200,
		},
	}
	s := newServerWithClient(fake)

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("handleGetStatus: %v", err)
	}
	if !out.Running || !out.Paused || out.WindowCount != 3 || out.Gravity != 1200 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestHandleGetStatusDaemonDown(t *testing.T) {
	s := newServerWithClient(&fakeClient{err: errors.New("connection refused")})

	_, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err == nil {
		t.Fatal("expected error when daemon is unreachable")
	}
}

func TestHandleSetPaused(t *testing.T) {
	fake := &fakeClient{}
	s := newServerWithClient(fake)

	_, out, err := s.handleSetPaused(context.Background(), nil, SetPausedInput{Paused: true})
	if err != nil {
		t.Fatalf("handleSetPaused: %v", err)
	}
	if !out.Paused || !fake.paused {
		t.Errorf("expected pause to be forwarded, got out=%+v fake.paused=%v", out, fake.paused)
	}

	_, out, err = s.handleSetPaused(context.Background(), nil, SetPausedInput{Paused: false})
	if err != nil {
		t.Fatalf("handleSetPaused resume: %v", err)
	}
	if out.Paused || fake.paused {
		t.Errorf("expected resume to be forwarded, got out=%+v fake.paused=%v", out, fake.paused)
	}
}

func TestHandleSetPhysics(t *testing.T) {
	fake := &fakeClient{}
	s := newServerWithClient(fake)

	g := 800.0
	r := 0.6
	_, out, err := s.handleSetPhysics(context.Background(), nil, SetPhysicsInput{
		Gravity:          &g,
		FloorRestitution: &r,
	})
	if err != nil {
		t.Fatalf("handleSetPhysics: %v", err)
	}
	if len(out.Updated) != 2 {
		t.Errorf("expected 2 updated fields, got %v", out.Updated)
	}
	if fake.setParams == nil || fake.setParams.Gravity == nil || *fake.setParams.Gravity != 800 {
		t.Errorf("gravity not forwarded: %+v", fake.setParams)
	}
	if fake.setParams.Drag != nil {
		t.Error("drag should not have been set")
	}
}

func TestHandleSetPhysicsEmpty(t *testing.T) {
	s := newServerWithClient(&fakeClient{})

	_, _, err := s.handleSetPhysics(context.Background(), nil, SetPhysicsInput{})
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestHandleListWindowsFilter(t *testing.T) {
	fake := &fakeClient{
		bodies: []ipc.BodyData{
			{ID: 1, Title: "editor", State: "falling"},
			{ID: 2, Title: "browser", State: "resting"},
			{ID: 3, Title: "terminal", State: "falling"},
		},
	}
	s := newServerWithClient(fake)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{State: "falling"})
	if err != nil {
		t.Fatalf("handleListWindows: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("expected 2 falling windows, got %d", len(out.Windows))
	}
	for _, w := range out.Windows {
		if w.State != "falling" {
			t.Errorf("filter leaked state %q", w.State)
		}
	}

	_, out, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows unfiltered: %v", err)
	}
	if len(out.Windows) != 3 {
		t.Errorf("expected 3 windows unfiltered, got %d", len(out.Windows))
	}
}

func TestHandleListWindowsBadFilter(t *testing.T) {
	s := newServerWithClient(&fakeClient{})

	_, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{State: "flying"})
	if err == nil {
		t.Fatal("expected error for unknown state filter")
	}
}

func TestHandleToss(t *testing.T) {
	fake := &fakeClient{tossed: 5}
	s := newServerWithClient(fake)

	_, out, err := s.handleToss(context.Background(), nil, TossInput{})
	if err != nil {
		t.Fatalf("handleToss: %v", err)
	}
	if out.Tossed != 5 {
		t.Errorf("expected 5 tossed, got %d", out.Tossed)
	}
	if fake.tossedID != 0 {
		t.Errorf("expected window ID 0 (all), got %d", fake.tossedID)
	}

	_, _, err = s.handleToss(context.Background(), nil, TossInput{WindowID: 42})
	if err != nil {
		t.Fatalf("handleToss single: %v", err)
	}
	if fake.tossedID != 42 {
		t.Errorf("expected window ID 42, got %d", fake.tossedID)
	}
}
