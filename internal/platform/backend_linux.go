//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/winfall/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ListWindows lists normal windows on the current desktop in stacking order.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	infos, err := conn.ListClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(infos))
	for _, info := range infos {
		windows = append(windows, Window{
			ID:    WindowID(info.ID),
			PID:   info.PID,
			AppID: info.Class,
			Title: info.Title,
			Bounds: Rect{
				X:      info.X,
				Y:      info.Y,
				Width:  info.Width,
				Height: info.Height,
			},
			Movable: info.Movable,
		})
	}
	return windows, nil
}

// MoveWindow repositions a window, keeping its size.
func (b *LinuxBackend) MoveWindow(id WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(uint32(id), x, y)
}

// WorkArea returns the usable rectangle of the active monitor.
func (b *LinuxBackend) WorkArea() (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	mon, err := conn.GetWorkArea()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, nil
}

// QueryPointer returns the current global pointer state.
func (b *LinuxBackend) QueryPointer() (Pointer, error) {
	conn, err := b.connection()
	if err != nil {
		return Pointer{}, err
	}

	state, err := conn.QueryPointer()
	if err != nil {
		return Pointer{}, err
	}
	return Pointer{X: state.X, Y: state.Y, Pressed: state.Pressed}, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
