// Package tui is an interactive dashboard over a plan file: summary,
// per-goal outcomes and the funding timeline, recalculated on demand.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mstanton/wishful/internal/allocation"
	"github.com/mstanton/wishful/internal/config"
	"github.com/mstanton/wishful/internal/domain"
)

// view identifies which pane is showing.
type view int

const (
	viewSummary view = iota
	viewGoals
	viewTimeline
)

func (v view) String() string {
	switch v {
	case viewSummary:
		return "Summary"
	case viewGoals:
		return "Goals"
	case viewTimeline:
		return "Timeline"
	default:
		return "Unknown"
	}
}

// Model is the dashboard state.
type Model struct {
	planPath string

	currentView view
	width       int
	height      int

	plan   *config.Plan
	report *domain.Report

	// Goal list cursor for the goals pane.
	cursor int

	loading bool
	err     error
}

// NewModel creates a dashboard over the given plan file.
func NewModel(planPath string) Model {
	return Model{
		planPath:    planPath,
		currentView: viewSummary,
		width:       80,
		height:      24,
		loading:     true,
	}
}

// Init kicks off the initial plan load.
func (m Model) Init() tea.Cmd {
	return loadPlanCmd(m.planPath)
}

// planLoadedMsg carries a freshly computed report.
type planLoadedMsg struct {
	plan   *config.Plan
	report *domain.Report
}

// errMsg carries a load or calculation failure.
type errMsg struct{ err error }

// loadPlanCmd loads the plan file and runs the allocation calculation.
func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(path)
		if err != nil {
			return errMsg{err: err}
		}

		report := allocation.NewOrchestrator().Run(plan.ToInput(plan.AsOf))
		return planLoadedMsg{plan: plan, report: report}
	}
}
