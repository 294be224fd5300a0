package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/feasibility"
	"github.com/mstanton/wishful/internal/timeline"
)

const warnTargetDate = "cannot meet target date with current income"

// allocateTargetDate funds a goal by its requested date from pure income
// occurrences. If the target cannot be met, it falls back to the full
// income+expense ledger with no deadline: a later feasible date is
// reported as an adjusted completion, a missing one as a shortfall.
func allocateTargetDate(goal domain.Goal, ledger timeline.Ledger) domain.AllocationOutcome {
	outcome := newOutcome(goal)
	needed := goal.RemainingCost()

	var qualifying []domain.Event
	if goal.TargetDate != nil {
		target := domain.Date(*goal.TargetDate)
		for _, ev := range ledger.IncomeEvents() {
			if !ev.Date.After(target) {
				qualifying = append(qualifying, ev)
			}
		}
	}

	if res := feasibility.EarliestAffordableDate(qualifying, needed); res.Feasible {
		outcome.Feasible = true
		outcome.FundedBy = distributeProportionally(needed, qualifying)
		for _, entry := range outcome.FundedBy {
			outcome.AmountAllocated = outcome.AmountAllocated.Add(entry.Amount)
		}
		if n := len(outcome.FundedBy); n > 0 {
			last := outcome.FundedBy[n-1].Date
			outcome.CompletionDate = &last
		}
		return outcome
	}

	// Past the requested date the goal competes with expenses too, so
	// the fallback search runs on the full ledger.
	res := feasibility.EarliestAffordableDate(ledger.Events, needed)
	if res.Feasible {
		outcome.Feasible = true
		outcome.Adjusted = true
		outcome.OriginalTarget = goal.TargetDate
		completion := res.Date
		outcome.CompletionDate = &completion
		outcome.AmountAllocated = needed.Round(2)
		outcome.FundedBy = []domain.FundingEntry{{Date: res.Date, Amount: needed.Round(2)}}
		return outcome
	}

	outcome.Shortfall = res.Shortfall.Round(2)
	outcome.Warning = warnTargetDate
	return outcome
}

// distributeProportionally spreads needed across the qualifying income
// occurrences in date order, each draw sized by the occurrence's share
// of the total and capped at the occurrence amount, stopping once the
// cumulative draw reaches needed. Rounding happens per draw and is not
// redistributed.
func distributeProportionally(needed decimal.Decimal, qualifying []domain.Event) []domain.FundingEntry {
	total := decimal.Zero
	for _, ev := range qualifying {
		total = total.Add(ev.Amount)
	}
	if !total.IsPositive() {
		return nil
	}

	var entries []domain.FundingEntry
	allocated := decimal.Zero
	for i, ev := range qualifying {
		remaining := needed.Sub(allocated)
		if !remaining.IsPositive() {
			break
		}
		amount := needed.Mul(ev.Amount).Div(total).Round(2)
		if i == len(qualifying)-1 {
			// The last occurrence absorbs the residual cents instead of
			// leaving them to proportional rounding.
			amount = remaining
		}
		if amount.GreaterThan(ev.Amount) {
			amount = ev.Amount
		}
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if amount.IsPositive() {
			entries = append(entries, domain.FundingEntry{
				Date:     ev.Date,
				Amount:   amount.Round(2),
				IncomeID: ev.SourceID,
			})
			allocated = allocated.Add(amount)
		}
	}
	return entries
}

// allocateSequential funds the goal's entire remaining cost in one lump
// sum on the earliest date the residual ledger supports it. The residual
// already carries every draw committed by earlier phases and
// earlier-ordered goals.
func allocateSequential(goal domain.Goal, residual timeline.Residual) domain.AllocationOutcome {
	outcome := newOutcome(goal)
	needed := goal.RemainingCost()

	res := feasibility.EarliestAffordableDate(residual.Events(), needed)
	if !res.Feasible {
		outcome.Shortfall = res.Shortfall.Round(2)
		return outcome
	}

	outcome.Feasible = true
	completion := res.Date
	outcome.CompletionDate = &completion
	outcome.AmountAllocated = needed.Round(2)
	outcome.FundedBy = []domain.FundingEntry{{Date: res.Date, Amount: needed.Round(2)}}
	return outcome
}

// allocatePercentage funds the goal in one lump sum on the earliest date
// its weighted share of the residual ledger covers the remaining cost.
// The weight is the goal's percentage over the sum of all percentage
// goals' percentages; a non-positive total is guarded as a no-op search.
func allocatePercentage(goal domain.Goal, residual timeline.Residual, totalWeight decimal.Decimal) domain.AllocationOutcome {
	outcome := newOutcome(goal)
	outcome.Percentage = goal.Percentage
	needed := goal.RemainingCost()

	if !totalWeight.IsPositive() {
		outcome.Shortfall = needed.Round(2)
		return outcome
	}
	weight := goal.Percentage.Div(totalWeight)

	res := feasibility.EarliestAffordableDate(residual.Scaled(weight), needed)
	if !res.Feasible {
		outcome.Shortfall = res.Shortfall.Round(2)
		return outcome
	}

	outcome.Feasible = true
	completion := res.Date
	outcome.CompletionDate = &completion
	outcome.AmountAllocated = needed.Round(2)
	outcome.FundedBy = []domain.FundingEntry{{Date: res.Date, Amount: needed.Round(2)}}
	return outcome
}

func newOutcome(goal domain.Goal) domain.AllocationOutcome {
	return domain.AllocationOutcome{
		GoalID:          goal.ID,
		GoalName:        goal.Name,
		GoalCost:        goal.Cost,
		Policy:          goal.Policy,
		AmountAllocated: decimal.Zero,
		Shortfall:       decimal.Zero,
	}
}
