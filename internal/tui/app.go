package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/winfall/internal/config"
	"github.com/1broseidon/winfall/internal/ipc"
)

// tickMsg drives the periodic daemon status refresh.
type tickMsg time.Time

// model is the root bubbletea model for the tuning UI.
type model struct {
	configPath string
	cfg        *config.Config
	client     *ipc.Client

	// Daemon state
	connected bool
	status    *ipc.StatusData
	bodies    []ipc.BodyData

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fGravity   string
	fDrag      string
	fFloorRest string
	fWallRest  string
	fThrow     string

	statusMsg string

	// Terminal dimensions
	width  int
	height int
}

func newModel(configPath string) model {
	m := model{
		configPath: configPath,
		client:     ipc.NewClient(),
	}

	m.loadConfig()
	m.refresh()

	return m
}

func (m *model) loadConfig() {
	var cfg *config.Config
	var err error

	if m.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(m.configPath)
	}
	if err != nil {
		m.statusMsg = fmt.Sprintf("config: %v", err)
		cfg = config.DefaultConfig()
	}
	m.cfg = cfg
}

func (m *model) refresh() {
	status, err := m.client.GetStatus()
	if err != nil {
		m.connected = false
		m.status = nil
		m.bodies = nil
		return
	}
	m.connected = true
	m.status = status

	if data, err := m.client.ListBodies(); err == nil {
		m.bodies = data.Bodies
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The form captures all input while editing; only esc and ctrl+c
	// escape to the outer model.
	if m.editing {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "p", " ":
			m.togglePause()
			return m, nil

		case "t":
			if n, err := m.client.Toss(0); err != nil {
				m.statusMsg = fmt.Sprintf("toss: %v", err)
			} else {
				m.statusMsg = fmt.Sprintf("tossed %d windows", n)
			}
			m.refresh()
			return m, nil

		case "e":
			m.startEditing()
			return m, m.form.Init()

		case "s":
			m.saveConfig()
			return m, nil

		case "r":
			m.refresh()
			m.statusMsg = ""
			return m, nil
		}

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.editing = false
			m.form = nil
			return m, nil
		}
	case tickMsg:
		// Keep polling in the background while the form is open.
		m.refresh()
		return m, tickCmd()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.applyForm()
		m.editing = false
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m *model) togglePause() {
	if m.status == nil {
		m.statusMsg = "daemon not reachable"
		return
	}

	var err error
	if m.status.Paused {
		err = m.client.Resume()
	} else {
		err = m.client.Pause()
	}
	if err != nil {
		m.statusMsg = fmt.Sprintf("pause: %v", err)
		return
	}
	m.statusMsg = ""
	m.refresh()
}

func (m *model) saveConfig() {
	if m.cfg == nil {
		return
	}

	path := m.configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			m.statusMsg = fmt.Sprintf("save: %v", err)
			return
		}
		path = p
	}

	if err := config.Save(m.cfg, path); err != nil {
		m.statusMsg = fmt.Sprintf("save: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("saved %s", path)
}
