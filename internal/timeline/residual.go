package timeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
)

// Residual is the per-date net funds still available after every draw
// committed so far. It is an immutable snapshot threaded between
// allocation phases: Apply returns a new value and never mutates the
// receiver, keeping the orchestrator reentrant.
type Residual struct {
	dates   []time.Time
	amounts map[time.Time]decimal.Decimal
}

// NewResidual builds the initial residual from a ledger's net-by-date.
func NewResidual(l Ledger) Residual {
	amounts := l.NetByDate()
	dates := make([]time.Time, 0, len(amounts))
	for d := range amounts {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return Residual{dates: dates, amounts: amounts}
}

// Apply subtracts each funding draw from its date and returns the
// resulting snapshot. Draw dates not already present are inserted.
func (r Residual) Apply(draws []domain.FundingEntry) Residual {
	next := Residual{
		dates:   make([]time.Time, len(r.dates)),
		amounts: make(map[time.Time]decimal.Decimal, len(r.amounts)),
	}
	copy(next.dates, r.dates)
	for d, amt := range r.amounts {
		next.amounts[d] = amt
	}

	for _, draw := range draws {
		d := domain.Date(draw.Date)
		if _, ok := next.amounts[d]; !ok {
			i := sort.Search(len(next.dates), func(i int) bool { return !next.dates[i].Before(d) })
			next.dates = append(next.dates, time.Time{})
			copy(next.dates[i+1:], next.dates[i:])
			next.dates[i] = d
		}
		next.amounts[d] = next.amounts[d].Sub(draw.Amount)
	}
	return next
}

// Events renders the snapshot as one signed allocation-draw event per
// date, in date order, for feasibility search.
func (r Residual) Events() []domain.Event {
	events := make([]domain.Event, 0, len(r.dates))
	for _, d := range r.dates {
		events = append(events, domain.Event{
			Date:   d,
			Amount: r.amounts[d],
			Kind:   domain.EventDraw,
		})
	}
	return events
}

// Scaled renders the snapshot like Events with every amount multiplied
// by weight. Percentage goals see only their weighted share of the
// balance at every date.
func (r Residual) Scaled(weight decimal.Decimal) []domain.Event {
	events := make([]domain.Event, 0, len(r.dates))
	for _, d := range r.dates {
		events = append(events, domain.Event{
			Date:   d,
			Amount: r.amounts[d].Mul(weight),
			Kind:   domain.EventDraw,
		})
	}
	return events
}

// AmountOn reports the remaining funds on one date.
func (r Residual) AmountOn(d time.Time) decimal.Decimal {
	return r.amounts[domain.Date(d)]
}
