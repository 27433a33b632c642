package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/winfall/internal/runtimepath"
	"github.com/1broseidon/winfall/internal/sim"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	engine       *sim.Engine
	stopFn       func()
	reloadFn     func() error
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. stopFn shuts the daemon down;
// reloadFn re-reads config from disk and applies it to the engine.
func NewServer(engine *sim.Engine, stopFn func(), reloadFn func() error) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		engine:     engine,
		stopFn:     stopFn,
		reloadFn:   reloadFn,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop shuts the listener down and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil {
		if err != io.EOF {
			log.Printf("IPC read error: %v", err)
		}
		return
	}

	req, err := ParseRequest(data)
	var resp *Response
	if err != nil {
		resp = NewErrorResponse(err.Error())
	} else {
		resp = s.handleRequest(req)
	}

	out, err := resp.Marshal()
	if err != nil {
		log.Printf("IPC marshal error: %v", err)
		return
	}
	out = append(out, '\n')
	if _, err := conn.Write(out); err != nil {
		log.Printf("IPC write error: %v", err)
	}
}

func (s *Server) handleRequest(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandPause:
		s.engine.Pause()
		return mustOK(nil)
	case CommandResume:
		s.engine.Resume()
		return mustOK(nil)
	case CommandSetParams:
		return s.handleSetParams(req.Payload)
	case CommandListBods:
		return s.handleListBodies()
	case CommandToss:
		return s.handleToss(req.Payload)
	case CommandReload:
		return s.handleReload()
	case CommandStop:
		// Respond before the daemon goes away.
		go s.stopFn()
		return mustOK(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := s.engine.Status()
	return mustOK(StatusData{
		DaemonRunning: true,
		Paused:        status.Paused,
		BodyCount:     status.Bodies,
		UptimeSeconds: status.UptimeSeconds,
		TickRate:      status.TickRate,
		Gravity:       status.Gravity,
		Drag:          status.Drag,
		Restitution:   status.Restitution,
	})
}

func (s *Server) handleSetParams(payload json.RawMessage) *Response {
	var p SetParamsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid payload: %v", err))
		}
	}

	params := s.engine.Params()
	if p.Gravity != nil {
		if *p.Gravity <= 0 {
			return NewErrorResponse("gravity must be positive")
		}
		params.Gravity = *p.Gravity
	}
	if p.Drag != nil {
		if *p.Drag < 0 {
			return NewErrorResponse("drag must not be negative")
		}
		params.Drag = *p.Drag
	}
	if p.FloorRestitution != nil {
		if *p.FloorRestitution < 0 || *p.FloorRestitution >= 1 {
			return NewErrorResponse("floor_restitution must be in [0,1)")
		}
		params.FloorRestitution = *p.FloorRestitution
	}
	if p.WallRestitution != nil {
		if *p.WallRestitution < 0 || *p.WallRestitution >= 1 {
			return NewErrorResponse("wall_restitution must be in [0,1)")
		}
		params.WallRestitution = *p.WallRestitution
	}
	if p.ThrowMultiplier != nil {
		if *p.ThrowMultiplier < 0 {
			return NewErrorResponse("throw_multiplier must not be negative")
		}
		params.ThrowMultiplier = *p.ThrowMultiplier
	}

	s.engine.SetParams(params)
	return mustOK(nil)
}

func (s *Server) handleListBodies() *Response {
	bodies := s.engine.Bodies()
	data := BodiesData{Bodies: make([]BodyData, 0, len(bodies))}
	for _, b := range bodies {
		data.Bodies = append(data.Bodies, BodyData{
			ID:      b.ID,
			Title:   b.Title,
			X:       b.X,
			Y:       b.Y,
			Width:   b.Width,
			Height:  b.Height,
			VX:      b.VX,
			VY:      b.VY,
			State:   b.State,
			Weight:  b.Weight,
			Movable: b.Movable,
		})
	}
	return mustOK(data)
}

func (s *Server) handleToss(payload json.RawMessage) *Response {
	var p TossPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("invalid payload: %v", err))
		}
	}
	return mustOK(TossData{Tossed: s.engine.Toss(p.WindowID)})
}

func (s *Server) handleReload() *Response {
	if s.reloadFn == nil {
		return NewErrorResponse("reload not supported")
	}
	if err := s.reloadFn(); err != nil {
		return NewErrorResponse(err.Error())
	}
	return mustOK(nil)
}

func mustOK(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
