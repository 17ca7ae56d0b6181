package tui

import (
	"novadash/pkg/models"

	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---
var (
	primaryColor = lipgloss.Color("#00ff9d")
	warnColor    = lipgloss.Color("#ffbd2e")
	dangerColor  = lipgloss.Color("#ff4d4d")

	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0a0a0a")).
			Background(primaryColor).
			Padding(0, 1).
			Bold(true)
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errStyle  = lipgloss.NewStyle().Foreground(dangerColor)
	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	boxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(0, 1)
	selectedBoxStyle = boxStyle.BorderForeground(primaryColor)
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#94a3b8")).
				Bold(true)
	menuStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	menuActiveStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Padding(0, 1)
	valueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true)
)

// latencyStyle colors a reading by tier.
func latencyStyle(t models.LatencyTier) lipgloss.Style {
	switch t {
	case models.LatencyHealthy:
		return lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	case models.LatencyDegraded:
		return lipgloss.NewStyle().Foreground(warnColor).Bold(true)
	case models.LatencySlow, models.LatencyOffline:
		return lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
	}
	return subtleStyle
}
