package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceKind identifies how an income source repeats.
type RecurrenceKind string

const (
	// RecurrenceOneTime pays out once on OneTimeDate.
	RecurrenceOneTime RecurrenceKind = "one_time"
	// RecurrenceSpecificDate pays out on DayOfMonth every month,
	// clamped to the last day of shorter months.
	RecurrenceSpecificDate RecurrenceKind = "specific_date"
	// RecurrenceLastDay pays out on the final calendar day of every month.
	RecurrenceLastDay RecurrenceKind = "last_day"
	// RecurrenceBiweekly pays out every 14 days from StartDate.
	RecurrenceBiweekly RecurrenceKind = "biweekly"
)

// IncomeSource is a projected stream of future income. Exactly one of
// DayOfMonth, StartDate or OneTimeDate is required depending on the
// recurrence kind; the config layer enforces that before the engine
// ever sees the source.
type IncomeSource struct {
	ID          int64           `json:"id" yaml:"id"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Recurrence  RecurrenceKind  `json:"recurrence" yaml:"recurrence"`
	DayOfMonth  int             `json:"dayOfMonth,omitempty" yaml:"day_of_month,omitempty"`
	StartDate   *time.Time      `json:"startDate,omitempty" yaml:"start_date,omitempty"`
	OneTimeDate *time.Time      `json:"oneTimeDate,omitempty" yaml:"one_time_date,omitempty"`
}

// ExpenseEvent is a single dated outflow. Only future-dated expenses
// participate in projections; past expenses are history.
type ExpenseEvent struct {
	ID          int64           `json:"id" yaml:"id"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Date        time.Time       `json:"date" yaml:"date"`
}
