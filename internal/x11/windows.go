package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowInfo holds the geometry and metadata winfall needs per window.
type WindowInfo struct {
	ID      uint32
	PID     int
	Class   string
	Title   string
	X       int
	Y       int
	Width   int
	Height  int
	Movable bool
}

// ListClientWindows returns normal windows on the current desktop in
// stacking order (bottom to top), per _NET_CLIENT_LIST_STACKING.
func (c *Connection) ListClientWindows() ([]WindowInfo, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		// Some WMs only maintain _NET_CLIENT_LIST.
		clients, err = ewmh.ClientListGet(c.XUtil)
		if err != nil {
			return nil, err
		}
	}

	currentDesktop, desktopErr := ewmh.CurrentDesktopGet(c.XUtil)
	hasCurrentDesktop := desktopErr == nil

	windows := make([]WindowInfo, 0, len(clients))
	for _, windowID := range clients {
		if !c.IsNormalWindow(windowID) {
			continue
		}

		// Filter by current desktop; sticky windows (0xFFFFFFFF) pass.
		if hasCurrentDesktop {
			desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
			if err == nil && desktop != uint(0xFFFFFFFF) && desktop != currentDesktop {
				continue
			}
		}

		if c.shouldSkipByState(windowID) {
			continue
		}

		x, y, w, h, ok := c.windowGeometry(windowID)
		if !ok || w <= 0 || h <= 0 {
			continue
		}

		pid := 0
		if p, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
			pid = int(p)
		}

		windows = append(windows, WindowInfo{
			ID:      uint32(windowID),
			PID:     pid,
			Class:   c.windowClass(windowID),
			Title:   c.windowTitle(windowID),
			X:       x,
			Y:       y,
			Width:   w,
			Height:  h,
			Movable: c.windowMovable(windowID),
		})
	}

	return windows, nil
}

// MoveWindow repositions a window, keeping its current size. Uses EWMH
// moveresize for WM compatibility with a direct configure fallback.
func (c *Connection) MoveWindow(windowID uint32, x, y int) error {
	win := xproto.Window(windowID)

	_, _, w, h, ok := c.windowGeometry(win)
	if !ok {
		// Window vanished between enumeration and move.
		xwindow.New(c.XUtil, win).Move(x, y)
		return nil
	}

	if err := ewmh.MoveresizeWindow(c.XUtil, win, x, y, w, h); err != nil {
		xwindow.New(c.XUtil, win).Move(x, y)
	}
	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	return len(types) == 0
}

func (c *Connection) shouldSkipByState(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_FULLSCREEN":
			return true
		}
	}
	return false
}

// windowMovable checks _NET_WM_ALLOWED_ACTIONS for move permission.
// Windows that don't publish the property are assumed movable.
func (c *Connection) windowMovable(windowID xproto.Window) bool {
	actions, err := ewmh.WmAllowedActionsGet(c.XUtil, windowID)
	if err != nil || len(actions) == 0 {
		return true
	}
	for _, action := range actions {
		if action == "_NET_WM_ACTION_MOVE" {
			return true
		}
	}
	return false
}

func (c *Connection) windowGeometry(windowID xproto.Window) (x, y, w, h int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}
