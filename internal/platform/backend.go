package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Rect
	// Movable reports whether the window manager allows moving the
	// window (_NET_WM_ALLOWED_ACTIONS on X11). Unmovable windows are
	// still tracked; moves on them fail quietly.
	Movable bool
}

// Pointer is a snapshot of the global pointer: position in screen
// coordinates and whether the primary button is held.
type Pointer struct {
	X       int
	Y       int
	Pressed bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	// ListWindows returns the normal, visible top-level windows on the
	// current desktop, in stacking order (bottom to top).
	ListWindows() ([]Window, error)
	// MoveWindow repositions a window without resizing it.
	MoveWindow(id WindowID, x, y int) error
	// WorkArea returns the usable screen rectangle of the active
	// monitor, minus panels and docks.
	WorkArea() (Rect, error)
	// QueryPointer returns the current global pointer state.
	QueryPointer() (Pointer, error)
}
