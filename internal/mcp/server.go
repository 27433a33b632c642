package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winfall/internal/ipc"
)

const (
	ServerName    = "winfall"
	ServerVersion = "0.1.0"
)

// daemonClient is the subset of the IPC client the tools need. It is
// an interface so tests can run the handlers without a live daemon.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	Pause() error
	Resume() error
	SetParams(payload ipc.SetParamsPayload) error
	ListBodies() (*ipc.BodiesData, error)
	Toss(windowID uint32) (int, error)
}

// Server is the MCP server exposing the winfall daemon over stdio. It
// is a thin proxy: every tool call becomes one IPC request to the
// daemon's unix socket.
type Server struct {
	mcpServer *mcpsdk.Server
	client    daemonClient
}

// NewServer creates an MCP server talking to the local daemon socket.
func NewServer() *Server {
	return newServerWithClient(ipc.NewClient())
}

func newServerWithClient(client daemonClient) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the winfall daemon status: whether the simulation is paused, how many windows are simulated, and the current physics parameters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_paused",
		Description: "Freeze or resume the window gravity simulation. While paused, windows stay where they are and pointer input is ignored.",
	}, s.handleSetPaused)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_physics",
		Description: "Change physics parameters on the running daemon. Only the provided fields are updated; the rest keep their current values. Changes are not persisted to the config file.",
	}, s.handleSetPhysics)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the simulated windows with their position, velocity, and state (falling, resting, or dragged). Optionally filter by state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toss_windows",
		Description: "Toss windows upward with a random sideways kick. Pass a window ID to toss one window, or omit it to toss everything on screen.",
	}, s.handleToss)
}
