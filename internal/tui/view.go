package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(20).
			Align(lipgloss.Right).
			PaddingRight(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := m.renderStatusBar()
	helpBar := m.renderHelpBar()

	var content string
	if m.editing && m.form != nil {
		header := titleStyle.Render("Tuning Physics") +
			dimStyle.Render("  (esc to cancel)")
		content = lipgloss.NewStyle().Padding(1, 2).Render(header + "\n\n" + m.form.View())
	} else {
		content = m.renderDashboard()
	}

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, content, helpBar)
}

func (m model) renderStatusBar() string {
	var status string
	if m.connected && m.status != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if m.status.Paused {
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("paused"))
		}
		parts = append(parts, fmt.Sprintf("%d windows", m.status.BodyCount))
		parts = append(parts, fmt.Sprintf("up %s", formatUptime(m.status.UptimeSeconds)))
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render("●")
		status = dot + " daemon not running"
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Background(lipgloss.Color("236")).
		Render(status)
}

func (m model) renderDashboard() string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	cfg := m.cfg
	lines := []string{
		"",
		titleStyle.Render("  Physics"),
		row("Gravity", fmt.Sprintf("%g px/s²", cfg.Gravity)),
		row("Drag", fmt.Sprintf("%g /s", cfg.Drag)),
		row("Floor Bounce", fmt.Sprintf("%g", cfg.FloorRestitution)),
		row("Wall Bounce", fmt.Sprintf("%g", cfg.WallRestitution)),
		row("Throw Multiplier", fmt.Sprintf("%g", cfg.ThrowMultiplier)),
		"",
	}

	if len(m.bodies) > 0 {
		lines = append(lines, titleStyle.Render("  Windows"))
		max := len(m.bodies)
		if limit := m.height - len(lines) - 6; max > limit && limit > 0 {
			max = limit
		}
		for _, b := range m.bodies[:max] {
			title := b.Title
			if len(title) > 30 {
				title = title[:27] + "..."
			}
			line := fmt.Sprintf("  %-30s  %-8s  (%d,%d)  v=(%.0f,%.0f)",
				title, b.State, b.X, b.Y, b.VX, b.VY)
			lines = append(lines, dimStyle.Render(line))
		}
		if max < len(m.bodies) {
			lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more", len(m.bodies)-max)))
		}
		lines = append(lines, "")
	}

	if m.statusMsg != "" {
		style := dimStyle
		if strings.Contains(m.statusMsg, ":") {
			style = errStyle
		}
		lines = append(lines, style.Render("  "+m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func (m model) renderHelpBar() string {
	help := "e: edit physics  p/space: pause  t: toss  s: save config  r: refresh  q: quit"
	return lipgloss.NewStyle().
		Width(m.width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render(help)
}

func formatUptime(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh%dm", seconds/3600, (seconds%3600)/60)
}
