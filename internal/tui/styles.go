package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorGood    = lipgloss.Color("42")
	colorBad     = lipgloss.Color("196")
	colorWarn    = lipgloss.Color("214")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(colorPrimary).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle = lipgloss.NewStyle().Bold(true)

	feasibleStyle   = lipgloss.NewStyle().Foreground(colorGood)
	infeasibleStyle = lipgloss.NewStyle().Foreground(colorBad)
	adjustedStyle   = lipgloss.NewStyle().Foreground(colorWarn)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorMuted)
	statusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBad).
			Foreground(colorBad).
			Padding(0, 1)
)
