package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ipcsim/internal/world"
)

var (
	canvasStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466"))

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(46)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true).MarginTop(1)

	statusValid   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusInvalid = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	barHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	barMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	barLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// statusLabel renders the world state, or PAUSED for a valid paused world.
func statusLabel(s world.State, running bool) string {
	switch {
	case s == world.Invalid:
		return statusInvalid.Render("INVALID")
	case s == world.Unbound:
		return statusPaused.Render("UNBOUND")
	case !running:
		return statusPaused.Render("PAUSED")
	}
	return statusValid.Render("RUNNING")
}

// progressBar renders done out of total as a bar width cells wide.
func progressBar(done, total uint64, width int) string {
	if total == 0 {
		return strings.Repeat("░", width)
	}
	percent := float64(done) / float64(total)
	filled := min(max(int(percent*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return barHigh.Render(bar)
	case percent > 0.4:
		return barMid.Render(bar)
	}
	return barLow.Render(bar)
}
