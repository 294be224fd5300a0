// Package timeline merges projected income occurrences and future
// expenses into one chronologically ordered ledger of signed cash
// events, and tracks the funds still available per date as allocations
// consume them.
package timeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/recurrence"
)

// Ledger is the merged, date-ordered sequence of signed cash events for
// one calculation. Ties at the same date keep insertion order; only the
// end-of-day net is meaningful within a day.
type Ledger struct {
	Events []domain.Event
}

// Build expands every income source into dated occurrences, keeps only
// expenses dated on or after asOf, and merges both into one ledger
// sorted by date.
func Build(incomes []domain.IncomeSource, expenses []domain.ExpenseEvent, asOf, horizon time.Time) Ledger {
	asOf = domain.Date(asOf)
	horizon = domain.Date(horizon)

	var events []domain.Event
	for _, src := range incomes {
		for _, d := range recurrence.Occurrences(src, asOf, horizon) {
			events = append(events, domain.Event{
				Date:        d,
				Amount:      src.Amount,
				Kind:        domain.EventIncome,
				Description: src.Description,
				SourceID:    src.ID,
			})
		}
	}
	for _, exp := range expenses {
		d := domain.Date(exp.Date)
		if d.Before(asOf) {
			continue
		}
		events = append(events, domain.Event{
			Date:        d,
			Amount:      exp.Amount.Neg(),
			Kind:        domain.EventExpense,
			Description: exp.Description,
			SourceID:    exp.ID,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return Ledger{Events: events}
}

// IncomeEvents returns only the income entries, in date order.
func (l Ledger) IncomeEvents() []domain.Event {
	var out []domain.Event
	for _, ev := range l.Events {
		if ev.Kind == domain.EventIncome {
			out = append(out, ev)
		}
	}
	return out
}

// ExpenseEvents returns only the expense entries, in date order.
func (l Ledger) ExpenseEvents() []domain.Event {
	var out []domain.Event
	for _, ev := range l.Events {
		if ev.Kind == domain.EventExpense {
			out = append(out, ev)
		}
	}
	return out
}

// TotalIncome sums all income entries.
func (l Ledger) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, ev := range l.Events {
		if ev.Kind == domain.EventIncome {
			total = total.Add(ev.Amount)
		}
	}
	return total
}

// TotalExpenses sums all expense entries as a positive figure.
func (l Ledger) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, ev := range l.Events {
		if ev.Kind == domain.EventExpense {
			total = total.Add(ev.Amount.Neg())
		}
	}
	return total
}

// NetByDate returns the signed sum of all events landing exactly on each
// date present in the ledger.
func (l Ledger) NetByDate() map[time.Time]decimal.Decimal {
	net := make(map[time.Time]decimal.Decimal, len(l.Events))
	for _, ev := range l.Events {
		net[ev.Date] = net[ev.Date].Add(ev.Amount)
	}
	return net
}
