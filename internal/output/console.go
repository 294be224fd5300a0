package output

import (
	"fmt"
	"strings"

	"github.com/mstanton/wishful/internal/domain"
)

const dateLayout = "2006-01-02"

// ConsoleFormatter renders a readable text report.
type ConsoleFormatter struct{}

func (cf *ConsoleFormatter) Name() string { return "console" }

// Format renders the report section by section: totals, per-goal
// outcomes grouped in phase order, then the funding timeline.
func (cf *ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintln(&sb, "WISH LIST FUNDING PLAN")
	fmt.Fprintln(&sb, strings.Repeat("=", 60))
	fmt.Fprintf(&sb, "Window:           %s to %s\n", report.AsOf.Format(dateLayout), report.Horizon.Format(dateLayout))
	fmt.Fprintf(&sb, "Projected income: %s\n", FormatCurrency(report.TotalIncome))
	fmt.Fprintf(&sb, "Planned expenses: %s\n", FormatCurrency(report.TotalExpenses))
	fmt.Fprintf(&sb, "Remaining funds:  %s\n\n", FormatCurrency(report.RemainingFunds))

	for _, a := range report.Allocations {
		fmt.Fprintf(&sb, "GOAL: %s (%s)\n", a.GoalName, a.Policy)
		fmt.Fprintln(&sb, strings.Repeat("-", 50))
		fmt.Fprintf(&sb, "Cost:      %s\n", FormatCurrency(a.GoalCost))
		fmt.Fprintf(&sb, "Allocated: %s\n", FormatCurrency(a.AmountAllocated))
		if a.Policy == domain.PolicyPercentage {
			fmt.Fprintf(&sb, "Weight:    %s\n", FormatPercentage(a.Percentage))
		}
		switch {
		case a.Feasible && a.Adjusted:
			fmt.Fprintf(&sb, "Funded by: %s (adjusted from %s)\n",
				a.CompletionDate.Format(dateLayout), a.OriginalTarget.Format(dateLayout))
		case a.Feasible && a.CompletionDate != nil:
			fmt.Fprintf(&sb, "Funded by: %s\n", a.CompletionDate.Format(dateLayout))
		default:
			fmt.Fprintf(&sb, "Not fundable within the projection window (short %s)\n",
				FormatCurrency(a.Shortfall))
		}
		if a.Warning != "" {
			fmt.Fprintf(&sb, "Warning:   %s\n", a.Warning)
		}
		fmt.Fprintln(&sb)
	}

	if len(report.Timeline) > 0 {
		fmt.Fprintln(&sb, "FUNDING TIMELINE")
		fmt.Fprintln(&sb, strings.Repeat("=", 60))
		for _, entry := range report.Timeline {
			for _, f := range entry.FundedBy {
				fmt.Fprintf(&sb, "%s  %-12s %s\n",
					f.Date.Format(dateLayout), FormatCurrency(f.Amount), entry.GoalName)
			}
		}
	}

	return []byte(sb.String()), nil
}
