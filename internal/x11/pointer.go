package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// PointerState is a sampled snapshot of the global pointer.
type PointerState struct {
	X       int
	Y       int
	Pressed bool
}

// QueryPointer samples the global pointer position and the primary
// button state relative to the root window.
func (c *Connection) QueryPointer() (PointerState, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return PointerState{}, err
	}

	return PointerState{
		X:       int(reply.RootX),
		Y:       int(reply.RootY),
		Pressed: reply.Mask&xproto.ButtonMask1 != 0,
	}, nil
}
