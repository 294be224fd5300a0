// Package feasibility finds the earliest date a required amount can be
// withdrawn from a projected ledger without the running balance ever
// going negative, before or after the withdrawal.
package feasibility

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
)

// Result is the outcome of one earliest-affordable-date search.
// When Feasible is false, Shortfall is the amount missing against the
// whole event set.
type Result struct {
	Feasible  bool
	Date      time.Time
	Shortfall decimal.Decimal
}

// dayNet is one distinct date with the signed net of all events on it.
type dayNet struct {
	date time.Time
	net  decimal.Decimal
}

// EarliestAffordableDate scans candidate dates ascending and returns the
// first date d where the end-of-day balance covers needed and a simulated
// withdrawal of needed at the end of d never drives the balance below
// zero on any later date. Balances are evaluated at end of day only;
// intraday event order carries no meaning.
//
// An empty event set is always infeasible, with the shortfall equal to
// the full needed amount.
func EarliestAffordableDate(events []domain.Event, needed decimal.Decimal) Result {
	days := collapseByDate(events)
	if len(days) == 0 {
		return Result{Feasible: false, Shortfall: needed}
	}

	balance := decimal.Zero
	for i, day := range days {
		balance = balance.Add(day.net)
		if balance.LessThan(needed) {
			continue
		}

		// Simulate withdrawing needed at the end of this day and walk
		// every later day, tracking the running minimum.
		after := balance.Sub(needed)
		viable := true
		for _, later := range days[i+1:] {
			after = after.Add(later.net)
			if after.IsNegative() {
				viable = false
				break
			}
		}
		if viable {
			// Dates are scanned ascending, so the first acceptance is
			// globally earliest.
			return Result{Feasible: true, Date: day.date}
		}
	}

	total := decimal.Zero
	for _, day := range days {
		total = total.Add(day.net)
	}
	return Result{Feasible: false, Shortfall: needed.Sub(total)}
}

// collapseByDate folds events into one net amount per distinct date,
// ascending. Input may arrive in any order.
func collapseByDate(events []domain.Event) []dayNet {
	if len(events) == 0 {
		return nil
	}
	net := make(map[time.Time]decimal.Decimal, len(events))
	for _, ev := range events {
		d := domain.Date(ev.Date)
		net[d] = net[d].Add(ev.Amount)
	}
	days := make([]dayNet, 0, len(net))
	for d, amt := range net {
		days = append(days, dayNet{date: d, net: amt})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
	return days
}
