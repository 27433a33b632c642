package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus CommandType = "GET_STATUS"
	CommandPause     CommandType = "PAUSE"
	CommandResume    CommandType = "RESUME"
	CommandSetParams CommandType = "SET_PARAMS"
	CommandListBods  CommandType = "LIST_BODIES"
	CommandToss      CommandType = "TOSS"
	CommandReload    CommandType = "RELOAD"
	CommandStop      CommandType = "STOP"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool    `json:"daemon_running"`
	Paused        bool    `json:"paused"`
	BodyCount     int     `json:"body_count"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	TickRate      int     `json:"tick_rate"`
	Gravity       float64 `json:"gravity"`
	Drag          float64 `json:"drag"`
	Restitution   float64 `json:"restitution"`
}

// BodyData represents one tracked window body.
type BodyData struct {
	ID      uint32  `json:"id"`
	Title   string  `json:"title"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	State   string  `json:"state"`
	Weight  float64 `json:"weight"`
	Movable bool    `json:"movable"`
}

// BodiesData represents the data returned by LIST_BODIES
type BodiesData struct {
	Bodies []BodyData `json:"bodies"`
}

// SetParamsPayload represents the payload for SET_PARAMS. Nil fields
// keep their current value.
type SetParamsPayload struct {
	Gravity          *float64 `json:"gravity,omitempty"`
	Drag             *float64 `json:"drag,omitempty"`
	FloorRestitution *float64 `json:"floor_restitution,omitempty"`
	WallRestitution  *float64 `json:"wall_restitution,omitempty"`
	ThrowMultiplier  *float64 `json:"throw_multiplier,omitempty"`
}

// TossPayload represents the payload for TOSS. WindowID 0 means all.
type TossPayload struct {
	WindowID uint32 `json:"window_id,omitempty"`
}

// TossData represents the data returned by TOSS
type TossData struct {
	Tossed int `json:"tossed"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
