// Package recurrence expands income recurrence rules into concrete
// future occurrence dates within a projection horizon.
package recurrence

import (
	"time"

	"github.com/mstanton/wishful/internal/domain"
)

// Occurrences returns every date the source pays out in [asOf, horizon],
// ascending. It is a pure function of its inputs: the same source, asOf
// and horizon always produce the same dates.
func Occurrences(src domain.IncomeSource, asOf, horizon time.Time) []time.Time {
	asOf = domain.Date(asOf)
	horizon = domain.Date(horizon)

	switch src.Recurrence {
	case domain.RecurrenceOneTime:
		return oneTime(src, asOf, horizon)
	case domain.RecurrenceSpecificDate:
		return monthly(src, asOf, horizon, func(year int, month time.Month) time.Time {
			day := src.DayOfMonth
			if last := domain.DaysInMonth(year, month); day > last {
				day = last
			}
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		})
	case domain.RecurrenceLastDay:
		return monthly(src, asOf, horizon, func(year int, month time.Month) time.Time {
			return time.Date(year, month, domain.DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
		})
	case domain.RecurrenceBiweekly:
		return biweekly(src, asOf, horizon)
	}
	return nil
}

func oneTime(src domain.IncomeSource, asOf, horizon time.Time) []time.Time {
	if src.OneTimeDate == nil {
		return nil
	}
	d := domain.Date(*src.OneTimeDate)
	if d.Before(asOf) || d.After(horizon) {
		return nil
	}
	return []time.Time{d}
}

// monthly walks calendar months from the source's start (or asOf) through
// the horizon, emitting one date per month chosen by pick.
func monthly(src domain.IncomeSource, asOf, horizon time.Time, pick func(year int, month time.Month) time.Time) []time.Time {
	start := asOf
	if src.StartDate != nil {
		start = domain.Date(*src.StartDate)
	}

	var dates []time.Time
	// Step by whole months anchored on the first so short months never
	// skip ahead.
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(horizon) {
		d := pick(cursor.Year(), cursor.Month())
		if !d.Before(asOf) && !d.After(horizon) {
			dates = append(dates, d)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return dates
}

func biweekly(src domain.IncomeSource, asOf, horizon time.Time) []time.Time {
	if src.StartDate == nil {
		return nil
	}
	var dates []time.Time
	for d := domain.Date(*src.StartDate); !d.After(horizon); d = d.AddDate(0, 0, 14) {
		if !d.Before(asOf) {
			dates = append(dates, d)
		}
	}
	return dates
}
