package ui

import "github.com/charmbracelet/lipgloss"

var (
	styleBrand = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	styleClock = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00"))

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#0088ff")).
			Padding(0, 2)
	styleTabInactive = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 2)

	styleDisplay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1).
			Width(32).
			Align(lipgloss.Right)
	styleDisplayError = styleDisplay.BorderForeground(lipgloss.Color("#ff0088"))

	styleFilter       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	styleFilterActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0088ff"))
	styleHint         = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	styleApplying     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffff00"))
)
