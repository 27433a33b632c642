package ipc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/winfall/internal/input"
	"github.com/1broseidon/winfall/internal/platform"
	"github.com/1broseidon/winfall/internal/sim"
)

type fakeBackend struct {
	windows []platform.Window
}

func (f *fakeBackend) ListWindows() ([]platform.Window, error) { return f.windows, nil }
func (f *fakeBackend) MoveWindow(id platform.WindowID, x, y int) error {
	for i := range f.windows {
		if f.windows[i].ID == id {
			f.windows[i].Bounds.X = x
			f.windows[i].Bounds.Y = y
		}
	}
	return nil
}
func (f *fakeBackend) WorkArea() (platform.Rect, error) {
	return platform.Rect{Width: 1920, Height: 1080}, nil
}
func (f *fakeBackend) QueryPointer() (platform.Pointer, error) {
	return platform.Pointer{}, nil
}

func newTestEngine() *sim.Engine {
	backend := &fakeBackend{windows: []platform.Window{
		{ID: 1, Title: "editor", Bounds: platform.Rect{X: 100, Y: 100, Width: 400, Height: 300}, Movable: true},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := make(chan input.Event)
	return sim.New(backend, events, sim.DefaultOptions(), logger, nil)
}

func newTestServer(reloadFn func() error) (*Server, chan struct{}) {
	stopped := make(chan struct{}, 1)
	return &Server{
		engine:   newTestEngine(),
		stopFn:   func() { stopped <- struct{}{} },
		reloadFn: reloadFn,
	}, stopped
}

func okStatus(t *testing.T, resp *Response) StatusData {
	t.Helper()
	if resp.Status != "OK" {
		t.Fatalf("status = %q, error = %q", resp.Status, resp.Error)
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("status data: %v", err)
	}
	return status
}

func TestHandleGetStatus(t *testing.T) {
	s, _ := newTestServer(nil)

	status := okStatus(t, s.handleRequest(&Request{Command: CommandGetStatus}))
	if !status.DaemonRunning {
		t.Error("daemon should report running")
	}
	if status.Paused {
		t.Error("fresh engine should not be paused")
	}
	if status.TickRate != 60 || status.Gravity != 1200 {
		t.Errorf("status = %+v", status)
	}
}

func TestHandlePauseResume(t *testing.T) {
	s, _ := newTestServer(nil)

	if resp := s.handleRequest(&Request{Command: CommandPause}); resp.Status != "OK" {
		t.Fatalf("pause: %+v", resp)
	}
	if status := okStatus(t, s.handleRequest(&Request{Command: CommandGetStatus})); !status.Paused {
		t.Error("engine should be paused")
	}

	if resp := s.handleRequest(&Request{Command: CommandResume}); resp.Status != "OK" {
		t.Fatalf("resume: %+v", resp)
	}
	if status := okStatus(t, s.handleRequest(&Request{Command: CommandGetStatus})); status.Paused {
		t.Error("engine should be running again")
	}
}

func TestHandleSetParams(t *testing.T) {
	s, _ := newTestServer(nil)

	resp := s.handleRequest(&Request{
		Command: CommandSetParams,
		Payload: json.RawMessage(`{"gravity":500,"floor_restitution":0.7}`),
	})
	if resp.Status != "OK" {
		t.Fatalf("set: %+v", resp)
	}

	status := okStatus(t, s.handleRequest(&Request{Command: CommandGetStatus}))
	if status.Gravity != 500 || status.Restitution != 0.7 {
		t.Errorf("params not applied: %+v", status)
	}
	// Unset fields keep their previous value.
	if status.Drag != 1.2 {
		t.Errorf("drag = %g, want 1.2", status.Drag)
	}
}

func TestHandleSetParamsRejectsBadValues(t *testing.T) {
	s, _ := newTestServer(nil)

	tests := []struct {
		name    string
		payload string
	}{
		{"negative gravity", `{"gravity":-10}`},
		{"negative drag", `{"drag":-1}`},
		{"restitution one", `{"floor_restitution":1.0}`},
		{"wall restitution over one", `{"wall_restitution":1.2}`},
		{"negative throw", `{"throw_multiplier":-0.5}`},
		{"malformed json", `{gravity`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.handleRequest(&Request{
				Command: CommandSetParams,
				Payload: json.RawMessage(tt.payload),
			})
			if resp.Status != "ERROR" {
				t.Fatalf("expected rejection, got %+v", resp)
			}
		})
	}

	// Nothing should have stuck.
	status := okStatus(t, s.handleRequest(&Request{Command: CommandGetStatus}))
	if status.Gravity != 1200 {
		t.Errorf("gravity changed to %g after rejected updates", status.Gravity)
	}
}

func TestHandleListBodiesEmpty(t *testing.T) {
	s, _ := newTestServer(nil)

	resp := s.handleRequest(&Request{Command: CommandListBods})
	if resp.Status != "OK" {
		t.Fatalf("list: %+v", resp)
	}

	var data BodiesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("bodies data: %v", err)
	}
	if len(data.Bodies) != 0 {
		t.Errorf("expected no bodies before the first refresh, got %d", len(data.Bodies))
	}
}

func TestHandleTossUnknownWindow(t *testing.T) {
	s, _ := newTestServer(nil)

	resp := s.handleRequest(&Request{
		Command: CommandToss,
		Payload: json.RawMessage(`{"window_id":999}`),
	})
	if resp.Status != "OK" {
		t.Fatalf("toss: %+v", resp)
	}

	var data TossData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("toss data: %v", err)
	}
	if data.Tossed != 0 {
		t.Errorf("tossed = %d, want 0", data.Tossed)
	}
}

func TestHandleReload(t *testing.T) {
	calls := 0
	s, _ := newTestServer(func() error {
		calls++
		return nil
	})

	if resp := s.handleRequest(&Request{Command: CommandReload}); resp.Status != "OK" {
		t.Fatalf("reload: %+v", resp)
	}
	if calls != 1 {
		t.Errorf("reload called %d times", calls)
	}
}

func TestHandleReloadError(t *testing.T) {
	s, _ := newTestServer(func() error {
		return errors.New("config file broken")
	})

	resp := s.handleRequest(&Request{Command: CommandReload})
	if resp.Status != "ERROR" || resp.Error != "config file broken" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandleReloadUnsupported(t *testing.T) {
	s, _ := newTestServer(nil)

	if resp := s.handleRequest(&Request{Command: CommandReload}); resp.Status != "ERROR" {
		t.Errorf("nil reloadFn should be an error, got %+v", resp)
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	s, _ := newTestServer(nil)

	resp := s.handleRequest(&Request{Command: "DEFENESTRATE"})
	if resp.Status != "ERROR" {
		t.Errorf("response = %+v", resp)
	}
}

func TestClientServerRoundtrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	stopped := make(chan struct{}, 1)
	srv, err := NewServer(newTestEngine(), func() { stopped <- struct{}{} }, func() error { return nil })
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	client := NewClient()

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.DaemonRunning || status.Paused {
		t.Errorf("status = %+v", status)
	}

	if err := client.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	status, err = client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Paused {
		t.Error("engine should be paused")
	}
	if err := client.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	gravity := 800.0
	if err := client.SetParams(SetParamsPayload{Gravity: &gravity}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	status, err = client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Gravity != 800 {
		t.Errorf("gravity = %g, want 800", status.Gravity)
	}

	bad := -1.0
	if err := client.SetParams(SetParamsPayload{Drag: &bad}); err == nil {
		t.Error("expected error for negative drag")
	}

	if _, err := client.ListBodies(); err != nil {
		t.Fatalf("ListBodies: %v", err)
	}

	if _, err := client.Toss(0); err != nil {
		t.Fatalf("Toss: %v", err)
	}

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if err := client.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop callback never fired")
	}
}
