package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/output"
)

const dateLayout = "2006-01-02"

// View renders the dashboard.
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(errorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress r to retry, q to quit.", m.err)))
	}
	if m.loading || m.report == nil {
		return m.renderApp(borderStyle.Render("Calculating plan..."))
	}

	var content string
	switch m.currentView {
	case viewSummary:
		content = m.renderSummary()
	case viewGoals:
		content = m.renderGoals()
	case viewTimeline:
		content = m.renderTimeline()
	}
	return m.renderApp(content)
}

func (m Model) renderApp(content string) string {
	title := titleStyle.Render("Wishful - wish list funding planner")
	breadcrumb := subtitleStyle.Render(m.currentView.String() + " · " + m.planPath)

	shortcuts := []string{
		formatShortcut("s", "summary"),
		formatShortcut("g", "goals"),
		formatShortcut("t", "timeline"),
		formatShortcut("r", "reload"),
		formatShortcut("q", "quit"),
	}
	status := statusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))

	return lipgloss.JoinVertical(lipgloss.Left, title, breadcrumb, content, status)
}

func formatShortcut(key, desc string) string {
	return statusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderSummary() string {
	r := m.report
	lines := []string{
		row("Window", fmt.Sprintf("%s to %s", r.AsOf.Format(dateLayout), r.Horizon.Format(dateLayout))),
		row("Projected income", output.FormatCurrency(r.TotalIncome)),
		row("Planned expenses", output.FormatCurrency(r.TotalExpenses)),
		row("Remaining funds", output.FormatCurrency(r.RemainingFunds)),
		"",
		row("Goals", fmt.Sprintf("%d", len(r.Allocations))),
		row("Fundable", fmt.Sprintf("%d", countFeasible(r))),
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderGoals() string {
	var sb strings.Builder
	for i, a := range m.report.Allocations {
		marker := "  "
		line := fmt.Sprintf("%-24s %-12s %10s  %s",
			a.GoalName, a.Policy, output.FormatCurrency(a.AmountAllocated), outcomeLabel(a))
		if i == m.cursor {
			marker = "> "
			line = selectedStyle.Render(line)
		}
		sb.WriteString(marker + line + "\n")
	}
	if len(m.report.Allocations) == 0 {
		sb.WriteString(subtitleStyle.Render("No unpurchased goals in this plan."))
	}

	// Detail pane for the selected goal.
	if m.cursor < len(m.report.Allocations) {
		a := m.report.Allocations[m.cursor]
		detail := []string{
			row("Cost", output.FormatCurrency(a.GoalCost)),
			row("Allocated", output.FormatCurrency(a.AmountAllocated)),
		}
		if a.Policy == domain.PolicyPercentage {
			detail = append(detail, row("Weight", output.FormatPercentage(a.Percentage)))
		}
		if !a.Feasible {
			detail = append(detail, row("Shortfall", output.FormatCurrency(a.Shortfall)))
		}
		for _, f := range a.FundedBy {
			detail = append(detail, row(f.Date.Format(dateLayout), output.FormatCurrency(f.Amount)))
		}
		sb.WriteString("\n" + borderStyle.Render(strings.Join(detail, "\n")))
	}
	return sb.String()
}

func (m Model) renderTimeline() string {
	if len(m.report.Timeline) == 0 {
		return borderStyle.Render("No funding entries; nothing is fundable yet.")
	}
	var sb strings.Builder
	for _, entry := range m.report.Timeline {
		for _, f := range entry.FundedBy {
			sb.WriteString(fmt.Sprintf("%s  %12s  %s\n",
				f.Date.Format(dateLayout),
				output.FormatCurrency(f.Amount),
				entry.GoalName))
		}
	}
	return borderStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func outcomeLabel(a domain.AllocationOutcome) string {
	switch {
	case a.Feasible && a.Adjusted:
		return adjustedStyle.Render("adjusted to " + a.CompletionDate.Format(dateLayout))
	case a.Feasible && a.CompletionDate != nil:
		return feasibleStyle.Render("funded by " + a.CompletionDate.Format(dateLayout))
	case a.Feasible:
		return feasibleStyle.Render("funded")
	default:
		return infeasibleStyle.Render("short " + output.FormatCurrency(a.Shortfall))
	}
}

func countFeasible(r *domain.Report) int {
	n := 0
	for _, a := range r.Allocations {
		if a.Feasible {
			n++
		}
	}
	return n
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-18s", label)) + valueStyle.Render(value)
}
