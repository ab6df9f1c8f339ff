package tui

import "github.com/charmbracelet/lipgloss"

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ADD8")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true)

	inputPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ADD8"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	progressStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	notifyInfoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00ADD8")).
			Padding(0, 1)
	notifySuccessStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#5FD700")).
				Padding(0, 1)
	notifyWarningStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FFA500")).
				Padding(0, 1)
	notifyErrorStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FF5F87")).
				Padding(0, 1)
)
