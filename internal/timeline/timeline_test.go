package timeline

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

func TestBuildMergesAndSorts(t *testing.T) {
	incomes := []domain.IncomeSource{
		{
			ID:          1,
			Description: "salary",
			Amount:      decimal.NewFromInt(1000),
			Recurrence:  domain.RecurrenceSpecificDate,
			DayOfMonth:  15,
		},
	}
	expenses := []domain.ExpenseEvent{
		{ID: 1, Description: "insurance", Amount: decimal.NewFromInt(300), Date: date(2026, time.February, 1)},
	}

	ledger := Build(incomes, expenses, date(2026, time.January, 1), date(2026, time.February, 28))

	assert.Len(t, ledger.Events, 3)
	assert.Equal(t, date(2026, time.January, 15), ledger.Events[0].Date)
	assert.Equal(t, date(2026, time.February, 1), ledger.Events[1].Date)
	assert.Equal(t, date(2026, time.February, 15), ledger.Events[2].Date)

	// Expenses carry negative amounts in the ledger.
	assert.True(t, ledger.Events[1].Amount.Equal(decimal.NewFromInt(-300)))
	assert.Equal(t, domain.EventExpense, ledger.Events[1].Kind)
}

func TestBuildDropsPastExpenses(t *testing.T) {
	expenses := []domain.ExpenseEvent{
		{Description: "old bill", Amount: decimal.NewFromInt(50), Date: date(2025, time.December, 1)},
		{Description: "new bill", Amount: decimal.NewFromInt(75), Date: date(2026, time.January, 10)},
	}

	ledger := Build(nil, expenses, date(2026, time.January, 1), date(2026, time.June, 30))

	assert.Len(t, ledger.Events, 1)
	assert.Equal(t, "new bill", ledger.Events[0].Description)
}

func TestLedgerTotals(t *testing.T) {
	incomes := []domain.IncomeSource{
		{Description: "pay", Amount: decimal.NewFromInt(500), Recurrence: domain.RecurrenceLastDay},
	}
	expenses := []domain.ExpenseEvent{
		{Description: "rent", Amount: decimal.NewFromInt(200), Date: date(2026, time.January, 5)},
		{Description: "rent", Amount: decimal.NewFromInt(200), Date: date(2026, time.February, 5)},
	}

	ledger := Build(incomes, expenses, date(2026, time.January, 1), date(2026, time.March, 31))

	assert.True(t, ledger.TotalIncome().Equal(decimal.NewFromInt(1500)))
	assert.True(t, ledger.TotalExpenses().Equal(decimal.NewFromInt(400)))
	assert.Len(t, ledger.IncomeEvents(), 3)
	assert.Len(t, ledger.ExpenseEvents(), 2)
}

func TestNetByDateFoldsSameDay(t *testing.T) {
	incomes := []domain.IncomeSource{
		{Description: "pay", Amount: decimal.NewFromInt(500), Recurrence: domain.RecurrenceSpecificDate, DayOfMonth: 5},
	}
	expenses := []domain.ExpenseEvent{
		{Description: "bill", Amount: decimal.NewFromInt(120), Date: date(2026, time.January, 5)},
	}

	ledger := Build(incomes, expenses, date(2026, time.January, 1), date(2026, time.January, 31))
	net := ledger.NetByDate()

	assert.Len(t, net, 1)
	assert.True(t, net[date(2026, time.January, 5)].Equal(decimal.NewFromInt(380)))
}

func TestResidualApplyIsImmutable(t *testing.T) {
	incomes := []domain.IncomeSource{
		{Description: "pay", Amount: decimal.NewFromInt(100), Recurrence: domain.RecurrenceSpecificDate, DayOfMonth: 15},
	}
	ledger := Build(incomes, nil, date(2026, time.January, 1), date(2026, time.March, 31))

	original := NewResidual(ledger)
	jan := date(2026, time.January, 15)

	updated := original.Apply([]domain.FundingEntry{{Date: jan, Amount: decimal.NewFromInt(40)}})

	assert.True(t, original.AmountOn(jan).Equal(decimal.NewFromInt(100)))
	assert.True(t, updated.AmountOn(jan).Equal(decimal.NewFromInt(60)))
}

func TestResidualApplyInsertsNewDates(t *testing.T) {
	incomes := []domain.IncomeSource{
		{Description: "pay", Amount: decimal.NewFromInt(100), Recurrence: domain.RecurrenceSpecificDate, DayOfMonth: 15},
	}
	ledger := Build(incomes, nil, date(2026, time.January, 1), date(2026, time.February, 28))

	draw := date(2026, time.January, 20) // not a ledger date
	residual := NewResidual(ledger).Apply([]domain.FundingEntry{
		{Date: draw, Amount: decimal.NewFromInt(30)},
	})

	events := residual.Events()
	assert.Len(t, events, 3)
	assert.Equal(t, date(2026, time.January, 15), events[0].Date)
	assert.Equal(t, draw, events[1].Date)
	assert.Equal(t, date(2026, time.February, 15), events[2].Date)
	assert.True(t, events[1].Amount.Equal(decimal.NewFromInt(-30)))
}

func TestResidualScaled(t *testing.T) {
	incomes := []domain.IncomeSource{
		{Description: "pay", Amount: decimal.NewFromInt(100), Recurrence: domain.RecurrenceLastDay},
	}
	ledger := Build(incomes, nil, date(2026, time.January, 1), date(2026, time.February, 28))

	scaled := NewResidual(ledger).Scaled(decimal.RequireFromString("0.4"))

	assert.Len(t, scaled, 2)
	for _, ev := range scaled {
		assert.True(t, ev.Amount.Equal(decimal.NewFromInt(40)))
	}
}
