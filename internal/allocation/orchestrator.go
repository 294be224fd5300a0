package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/timeline"
)

// Orchestrator runs the three allocation phases in their fixed order,
// threading the residual per-date balance from one phase to the next.
type Orchestrator struct{}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Run computes the full allocation report. It is deterministic and
// side-effect free: identical inputs always produce identical reports,
// whether the goals are committed or hypothetical.
func (o *Orchestrator) Run(in Input) *domain.Report {
	asOf := domain.Date(in.AsOf)
	horizon := domain.Date(in.Horizon)
	if horizon.IsZero() || !horizon.After(asOf) {
		horizon = DefaultHorizon(asOf)
	}

	ledger := timeline.Build(in.Incomes, in.Expenses, asOf, horizon)
	targets, sequential, percentage := in.effectiveGoals()

	report := &domain.Report{
		AsOf:          asOf,
		Horizon:       horizon,
		TotalIncome:   ledger.TotalIncome(),
		TotalExpenses: ledger.TotalExpenses(),
		Expenses:      ledger.ExpenseEvents(),
	}

	// Phase 1: target-date goals. Every goal in this phase sees the same
	// undepleted income schedule; draws are settled up at the phase
	// boundary, not between goals.
	var committed []domain.FundingEntry
	for _, goal := range targets {
		outcome := allocateTargetDate(goal, ledger)
		appendOutcome(report, outcome)
		committed = append(committed, outcome.FundedBy...)
	}

	residual := timeline.NewResidual(ledger).Apply(committed)

	// Phase 2: sequential goals. Each goal's search runs against a
	// ledger that already carries every earlier goal's draw, so a
	// later-ordered goal can never take funds an earlier one needs.
	for _, goal := range sequential {
		outcome := allocateSequential(goal, residual)
		appendOutcome(report, outcome)
		residual = residual.Apply(outcome.FundedBy)
	}

	// Phase 3: percentage goals against whatever is left.
	totalWeight := decimal.Zero
	for _, g := range percentage {
		totalWeight = totalWeight.Add(g.Percentage)
	}
	for _, goal := range percentage {
		outcome := allocatePercentage(goal, residual, totalWeight)
		appendOutcome(report, outcome)
		residual = residual.Apply(outcome.FundedBy)
	}

	totalAllocated := decimal.Zero
	for _, a := range report.Allocations {
		totalAllocated = totalAllocated.Add(a.AmountAllocated)
	}
	report.RemainingFunds = report.TotalIncome.
		Sub(report.TotalExpenses).
		Sub(totalAllocated).
		Round(2)
	return report
}

func appendOutcome(report *domain.Report, outcome domain.AllocationOutcome) {
	report.Allocations = append(report.Allocations, outcome)
	if len(outcome.FundedBy) > 0 {
		report.Timeline = append(report.Timeline, domain.TimelineEntry{
			GoalID:   outcome.GoalID,
			GoalName: outcome.GoalName,
			Policy:   outcome.Policy,
			FundedBy: outcome.FundedBy,
		})
	}
}
