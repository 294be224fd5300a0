package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind tags a ledger event by its origin.
type EventKind string

const (
	EventIncome  EventKind = "income"
	EventExpense EventKind = "expense"
	EventDraw    EventKind = "allocation-draw"
)

// Event is one signed entry in the projected cash ledger. Events are a
// computation artifact: they are rebuilt on every calculation and never
// persisted. Within a single day only the end-of-day net is meaningful;
// callers must not rely on intraday ordering.
type Event struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        EventKind       `json:"kind"`
	Description string          `json:"description,omitempty"`
	SourceID    int64           `json:"sourceId,omitempty"`
}

// Date returns t truncated to midnight UTC. All engine dates are
// normalized through this so map keys and comparisons line up.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
