package treeview

import "github.com/charmbracelet/lipgloss"

var (
	ColorText      = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	sepStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	infoStyle      = lipgloss.NewStyle().Foreground(ColorText)
	rowStyle       = lipgloss.NewStyle().Foreground(ColorText)
	meshRowStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	helpStyle      = lipgloss.NewStyle().Foreground(ColorMuted)
)
