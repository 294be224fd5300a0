package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap defines the dashboard key bindings.
type keyMap struct {
	Summary  key.Binding
	Goals    key.Binding
	Timeline key.Binding
	Up       key.Binding
	Down     key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Summary: key.NewBinding(
		key.WithKeys("1", "s"),
		key.WithHelp("s", "summary"),
	),
	Goals: key.NewBinding(
		key.WithKeys("2", "g"),
		key.WithHelp("g", "goals"),
	),
	Timeline: key.NewBinding(
		key.WithKeys("3", "t"),
		key.WithHelp("t", "timeline"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Update handles messages and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case planLoadedMsg:
		m.plan = msg.plan
		m.report = msg.report
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.report.Allocations) {
			m.cursor = 0
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Summary):
			m.currentView = viewSummary
		case key.Matches(msg, keys.Goals):
			m.currentView = viewGoals
		case key.Matches(msg, keys.Timeline):
			m.currentView = viewTimeline
		case key.Matches(msg, keys.Reload):
			m.loading = true
			return m, loadPlanCmd(m.planPath)
		case key.Matches(msg, keys.Up):
			if m.currentView == viewGoals && m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.currentView == viewGoals && m.report != nil && m.cursor < len(m.report.Allocations)-1 {
				m.cursor++
			}
		}
		return m, nil
	}
	return m, nil
}
