// Package allocation runs the three-phase funding calculation:
// target-date goals first, then sequential goals, then percentage goals,
// each phase drawing from whatever the previous phases left behind.
package allocation

import (
	"sort"
	"time"

	"github.com/mstanton/wishful/internal/domain"
)

// Input carries everything one calculation needs. The engine never
// mutates any of it; a run is a pure function of this value.
type Input struct {
	AsOf    time.Time
	Horizon time.Time

	Incomes  []domain.IncomeSource
	Expenses []domain.ExpenseEvent

	// Unpurchased goals partitioned by policy.
	TargetGoals     []domain.Goal
	SequentialGoals []domain.Goal
	PercentageGoals []domain.Goal

	// Preview support. ExtraGoals are hypothetical, unpersisted goals
	// routed into their policy's phase. The override slices, when
	// non-nil, replace the corresponding committed collections with
	// pre-rebalanced copies computed for the hypothetical insertion.
	ExtraGoals         []domain.Goal
	SequentialOverride []domain.Goal
	PercentageOverride []domain.Goal
}

// DefaultHorizon is how far out projections run when the caller does not
// say otherwise: two years from the given day.
func DefaultHorizon(asOf time.Time) time.Time {
	return domain.Date(asOf).AddDate(2, 0, 0)
}

// effectiveGoals resolves overrides and folds hypothetical goals into
// their phases, returning the final per-policy collections in phase
// processing order: targets by target date ascending, sequential by
// order ascending, percentage in input order.
func (in Input) effectiveGoals() (targets, sequential, percentage []domain.Goal) {
	targets = append(targets, in.TargetGoals...)

	if in.SequentialOverride != nil {
		sequential = append(sequential, in.SequentialOverride...)
	} else {
		sequential = append(sequential, in.SequentialGoals...)
	}
	if in.PercentageOverride != nil {
		percentage = append(percentage, in.PercentageOverride...)
	} else {
		percentage = append(percentage, in.PercentageGoals...)
	}

	for _, g := range in.ExtraGoals {
		switch g.Policy {
		case domain.PolicyTargetDate:
			targets = append(targets, g)
		case domain.PolicySequential:
			sequential = append(sequential, g)
		case domain.PolicyPercentage:
			percentage = append(percentage, g)
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		ti, tj := targets[i].TargetDate, targets[j].TargetDate
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.Before(*tj)
	})
	sort.SliceStable(sequential, func(i, j int) bool {
		return sequential[i].Order < sequential[j].Order
	})
	return targets, sequential, percentage
}
