package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winfall/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus fetches the daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Pause freezes the simulation.
func (c *Client) Pause() error {
	_, err := c.sendRequest(&Request{Command: CommandPause})
	return err
}

// Resume restarts a paused simulation.
func (c *Client) Resume() error {
	_, err := c.sendRequest(&Request{Command: CommandResume})
	return err
}

// SetParams sends new physics constants. Nil fields keep their value.
func (c *Client) SetParams(payload SetParamsPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandSetParams, Payload: data})
	return err
}

// ListBodies fetches all tracked window bodies.
func (c *Client) ListBodies() (*BodiesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListBods})
	if err != nil {
		return nil, err
	}

	var bodies BodiesData
	if err := json.Unmarshal(resp.Data, &bodies); err != nil {
		return nil, fmt.Errorf("failed to parse bodies data: %w", err)
	}
	return &bodies, nil
}

// Toss kicks one window (or all, with id 0) upward.
func (c *Client) Toss(windowID uint32) (int, error) {
	data, err := json.Marshal(TossPayload{WindowID: windowID})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandToss, Payload: data})
	if err != nil {
		return 0, err
	}

	var tossed TossData
	if err := json.Unmarshal(resp.Data, &tossed); err != nil {
		return 0, fmt.Errorf("failed to parse toss data: %w", err)
	}
	return tossed.Tossed, nil
}

// Reload asks the daemon to re-read its config file.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Stop shuts the daemon down.
func (c *Client) Stop() error {
	_, err := c.sendRequest(&Request{Command: CommandStop})
	return err
}
