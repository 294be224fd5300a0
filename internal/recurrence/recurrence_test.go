package recurrence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mstanton/wishful/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrencesSpecificDate(t *testing.T) {
	src := domain.IncomeSource{
		Description: "salary",
		Amount:      decimal.NewFromInt(2000),
		Recurrence:  domain.RecurrenceSpecificDate,
		DayOfMonth:  15,
	}

	got := Occurrences(src, date(2026, time.January, 1), date(2026, time.March, 31))
	want := []time.Time{
		date(2026, time.January, 15),
		date(2026, time.February, 15),
		date(2026, time.March, 15),
	}
	assert.Equal(t, want, got)
}

func TestOccurrencesSpecificDateClampsShortMonths(t *testing.T) {
	src := domain.IncomeSource{
		Description: "rent income",
		Amount:      decimal.NewFromInt(500),
		Recurrence:  domain.RecurrenceSpecificDate,
		DayOfMonth:  31,
	}

	got := Occurrences(src, date(2026, time.January, 1), date(2026, time.April, 30))
	want := []time.Time{
		date(2026, time.January, 31),
		date(2026, time.February, 28), // 2026 is not a leap year
		date(2026, time.March, 31),
		date(2026, time.April, 30),
	}
	assert.Equal(t, want, got)
}

func TestOccurrencesSpecificDateSkipsPassedDayInFirstMonth(t *testing.T) {
	src := domain.IncomeSource{
		Recurrence: domain.RecurrenceSpecificDate,
		DayOfMonth: 5,
	}

	// As-of falls after the 5th, so January yields nothing.
	got := Occurrences(src, date(2026, time.January, 10), date(2026, time.February, 28))
	assert.Equal(t, []time.Time{date(2026, time.February, 5)}, got)
}

func TestOccurrencesLastDay(t *testing.T) {
	src := domain.IncomeSource{Recurrence: domain.RecurrenceLastDay}

	got := Occurrences(src, date(2024, time.January, 1), date(2024, time.March, 31))
	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29), // leap year
		date(2024, time.March, 31),
	}
	assert.Equal(t, want, got)
}

func TestOccurrencesBiweekly(t *testing.T) {
	start := date(2026, time.January, 2)
	src := domain.IncomeSource{
		Recurrence: domain.RecurrenceBiweekly,
		StartDate:  &start,
	}

	got := Occurrences(src, date(2026, time.January, 1), date(2026, time.February, 15))
	want := []time.Time{
		date(2026, time.January, 2),
		date(2026, time.January, 16),
		date(2026, time.January, 30),
		date(2026, time.February, 13),
	}
	assert.Equal(t, want, got)
}

func TestOccurrencesBiweeklyStartBeforeAsOf(t *testing.T) {
	start := date(2025, time.December, 19)
	src := domain.IncomeSource{
		Recurrence: domain.RecurrenceBiweekly,
		StartDate:  &start,
	}

	// Cadence stays anchored to the start date; occurrences before asOf
	// are dropped, not shifted.
	got := Occurrences(src, date(2026, time.January, 1), date(2026, time.January, 31))
	want := []time.Time{
		date(2026, time.January, 2),
		date(2026, time.January, 16),
		date(2026, time.January, 30),
	}
	assert.Equal(t, want, got)
}

func TestOccurrencesBiweeklyWithoutStartDate(t *testing.T) {
	src := domain.IncomeSource{Recurrence: domain.RecurrenceBiweekly}
	assert.Empty(t, Occurrences(src, date(2026, time.January, 1), date(2026, time.December, 31)))
}

func TestOccurrencesOneTime(t *testing.T) {
	payout := date(2026, time.June, 10)
	src := domain.IncomeSource{
		Recurrence:  domain.RecurrenceOneTime,
		OneTimeDate: &payout,
	}

	tests := []struct {
		name  string
		asOf  time.Time
		until time.Time
		want  int
	}{
		{"inside window", date(2026, time.January, 1), date(2026, time.December, 31), 1},
		{"before window", date(2026, time.July, 1), date(2026, time.December, 31), 0},
		{"after window", date(2026, time.January, 1), date(2026, time.May, 31), 0},
		{"on boundary", date(2026, time.June, 10), date(2026, time.June, 10), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Occurrences(src, tt.asOf, tt.until), tt.want)
		})
	}
}

func TestOccurrencesDeterministic(t *testing.T) {
	src := domain.IncomeSource{
		Recurrence: domain.RecurrenceSpecificDate,
		DayOfMonth: 28,
	}
	asOf := date(2026, time.February, 1)
	horizon := date(2027, time.February, 1)

	first := Occurrences(src, asOf, horizon)
	second := Occurrences(src, asOf, horizon)
	assert.Equal(t, first, second)
	assert.Len(t, first, 12)
}
