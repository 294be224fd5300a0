package service

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/store"
)

func testPlanner(t *testing.T) (*Planner, *store.Repository) {
	t.Helper()
	db, err := store.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := store.NewRepository(db)
	return NewPlanner(repo, log), repo
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedIncome(t *testing.T, repo *store.Repository, amount int64, day int) {
	t.Helper()
	src := domain.IncomeSource{
		Description: "salary",
		Amount:      decimal.NewFromInt(amount),
		Recurrence:  domain.RecurrenceSpecificDate,
		DayOfMonth:  day,
	}
	require.NoError(t, repo.CreateIncome(&src))
}

func TestReportOverStoredRecords(t *testing.T) {
	planner, repo := testPlanner(t)
	seedIncome(t, repo, 500, 15)

	g := domain.Goal{Name: "chair", Cost: decimal.NewFromInt(800), Policy: domain.PolicySequential, Order: 1}
	_, err := planner.AddGoal(g, date(2026, time.January, 1))
	require.NoError(t, err)

	report, err := planner.Report(date(2026, time.January, 1))
	require.NoError(t, err)
	require.Len(t, report.Allocations, 1)

	a := report.Allocations[0]
	assert.True(t, a.Feasible)
	// Two paychecks cover 800 on the February payday.
	assert.Equal(t, date(2026, time.February, 15), *a.CompletionDate)
}

func TestAddGoalRebalancesSiblings(t *testing.T) {
	planner, repo := testPlanner(t)
	asOf := date(2026, time.January, 1)

	a := domain.Goal{Name: "a", Cost: decimal.NewFromInt(10), Policy: domain.PolicyPercentage, Percentage: decimal.NewFromInt(80)}
	b := domain.Goal{Name: "b", Cost: decimal.NewFromInt(10), Policy: domain.PolicyPercentage, Percentage: decimal.NewFromInt(20)}
	_, err := planner.AddGoal(a, asOf)
	require.NoError(t, err)
	_, err = planner.AddGoal(b, asOf)
	require.NoError(t, err)

	c := domain.Goal{Name: "c", Cost: decimal.NewFromInt(10), Policy: domain.PolicyPercentage, Percentage: decimal.NewFromInt(50)}
	_, err = planner.AddGoal(c, asOf)
	require.NoError(t, err)

	goals, err := repo.UnpurchasedGoals()
	require.NoError(t, err)
	require.Len(t, goals, 3)

	weights := map[string]string{}
	total := decimal.Zero
	for _, g := range goals {
		weights[g.Name] = g.Percentage.StringFixed(2)
		total = total.Add(g.Percentage)
	}
	assert.Equal(t, "40.00", weights["a"])
	assert.Equal(t, "10.00", weights["b"])
	assert.Equal(t, "50.00", weights["c"])
	assert.True(t, total.Equal(decimal.NewFromInt(100)))
}

func TestRemoveGoalClosesOrderGap(t *testing.T) {
	planner, repo := testPlanner(t)
	asOf := date(2026, time.January, 1)

	var ids []int64
	for i, name := range []string{"first", "second", "third"} {
		g := domain.Goal{Name: name, Cost: decimal.NewFromInt(10), Policy: domain.PolicySequential, Order: i + 1}
		added, err := planner.AddGoal(g, asOf)
		require.NoError(t, err)
		ids = append(ids, added.ID)
	}

	require.NoError(t, planner.RemoveGoal(ids[1]))

	goals, err := repo.UnpurchasedGoals()
	require.NoError(t, err)
	require.Len(t, goals, 2)

	orders := map[string]int{}
	for _, g := range goals {
		orders[g.Name] = g.Order
	}
	assert.Equal(t, 1, orders["first"])
	assert.Equal(t, 2, orders["third"])
}

func TestPurchaseDefaultsToCost(t *testing.T) {
	planner, repo := testPlanner(t)
	asOf := date(2026, time.January, 1)

	g := domain.Goal{Name: "desk", Cost: decimal.RequireFromString("349.99"), Policy: domain.PolicySequential, Order: 1}
	added, err := planner.AddGoal(g, asOf)
	require.NoError(t, err)

	require.NoError(t, planner.Purchase(added.ID, decimal.Zero, "", date(2026, time.March, 1)))

	got, err := repo.GetGoal(added.ID)
	require.NoError(t, err)
	assert.True(t, got.Purchased)
	assert.True(t, got.AmountSaved.Equal(decimal.RequireFromString("349.99")))

	// A second purchase of the same goal is rejected.
	assert.Error(t, planner.Purchase(added.ID, decimal.Zero, "", date(2026, time.March, 2)))
}

func TestPreviewWritesNothing(t *testing.T) {
	planner, repo := testPlanner(t)
	asOf := date(2026, time.January, 1)
	seedIncome(t, repo, 200, 15)

	committed := domain.Goal{Name: "queued", Cost: decimal.NewFromInt(100), Policy: domain.PolicySequential, Order: 1}
	_, err := planner.AddGoal(committed, asOf)
	require.NoError(t, err)

	temp := domain.Goal{Name: "what if", Cost: decimal.NewFromInt(150), Policy: domain.PolicySequential, Order: 1}
	report, outcome, err := planner.Preview(temp, asOf)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.True(t, outcome.Feasible)
	assert.Equal(t, date(2026, time.January, 15), *outcome.CompletionDate)

	// The committed goal is pushed behind the hypothetical one in the
	// preview, but its stored order is untouched.
	require.Len(t, report.Allocations, 2)
	goals, err := repo.UnpurchasedGoals()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, 1, goals[0].Order)
}

func TestPreviewIsRepeatable(t *testing.T) {
	planner, repo := testPlanner(t)
	asOf := date(2026, time.January, 1)
	seedIncome(t, repo, 300, 1)

	temp := domain.Goal{Name: "what if", Cost: decimal.NewFromInt(500), Policy: domain.PolicyPercentage, Percentage: decimal.NewFromInt(100)}

	_, first, err := planner.Preview(temp, asOf)
	require.NoError(t, err)
	_, second, err := planner.Preview(temp, asOf)
	require.NoError(t, err)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Feasible, second.Feasible)
	assert.True(t, first.AmountAllocated.Equal(second.AmountAllocated))
	if first.CompletionDate != nil {
		assert.Equal(t, *first.CompletionDate, *second.CompletionDate)
	}
}

func TestAdjustTargetsRewritesSlippedDates(t *testing.T) {
	planner, repo := testPlanner(t)
	planner.AdjustTargets = true
	asOf := date(2026, time.January, 1)
	seedIncome(t, repo, 400, 15)

	// 900 by February 10 needs three paychecks; the fallback lands on
	// the March payday and, with the toggle on, is written back.
	target := date(2026, time.February, 10)
	g := domain.Goal{Name: "laptop", Cost: decimal.NewFromInt(900), Policy: domain.PolicyTargetDate, TargetDate: &target}
	added, err := planner.AddGoal(g, asOf)
	require.NoError(t, err)

	got, err := repo.GetGoal(added.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TargetDate)
	assert.Equal(t, date(2026, time.March, 15), *got.TargetDate)
}

func TestAdjustTargetsOffLeavesDates(t *testing.T) {
	planner, repo := testPlanner(t)
	asOf := date(2026, time.January, 1)
	seedIncome(t, repo, 400, 15)

	target := date(2026, time.February, 10)
	g := domain.Goal{Name: "laptop", Cost: decimal.NewFromInt(900), Policy: domain.PolicyTargetDate, TargetDate: &target}
	added, err := planner.AddGoal(g, asOf)
	require.NoError(t, err)

	got, err := repo.GetGoal(added.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TargetDate)
	assert.Equal(t, target, *got.TargetDate)
}
