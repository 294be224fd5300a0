package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingEntry is one dated draw attributed to a goal. IncomeID is set
// when the draw maps to a specific income occurrence (target-date phase);
// lump-sum draws leave it zero.
type FundingEntry struct {
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	IncomeID int64           `json:"incomeId,omitempty"`
}

// AllocationOutcome is the per-goal result of an allocation run.
type AllocationOutcome struct {
	GoalID          int64           `json:"goalId"`
	GoalName        string          `json:"goalName"`
	GoalCost        decimal.Decimal `json:"goalCost"`
	Policy          GoalPolicy      `json:"policy"`
	Feasible        bool            `json:"feasible"`
	AmountAllocated decimal.Decimal `json:"amountAllocated"`
	FundedBy        []FundingEntry  `json:"fundedBy,omitempty"`
	CompletionDate  *time.Time      `json:"completionDate,omitempty"`
	Shortfall       decimal.Decimal `json:"shortfall,omitempty"`

	// Adjusted is set on target-date goals whose earliest feasible
	// completion falls after the requested target; OriginalTarget then
	// carries the date the user asked for.
	Adjusted       bool       `json:"adjusted,omitempty"`
	OriginalTarget *time.Time `json:"originalTarget,omitempty"`

	// Percentage is the goal's raw weight, echoed for percentage goals.
	Percentage decimal.Decimal `json:"percentage,omitempty"`

	Warning string `json:"warning,omitempty"`
}

// TimelineEntry groups a goal's funding draws for dashboard rendering.
type TimelineEntry struct {
	GoalID   int64          `json:"goalId"`
	GoalName string         `json:"goalName"`
	Policy   GoalPolicy     `json:"policy"`
	FundedBy []FundingEntry `json:"fundedBy"`
}

// Report is the full output of one allocation run. It is recomputed on
// every request and never cached.
type Report struct {
	AsOf           time.Time           `json:"asOf"`
	Horizon        time.Time           `json:"horizon"`
	TotalIncome    decimal.Decimal     `json:"totalIncome"`
	TotalExpenses  decimal.Decimal     `json:"totalExpenses"`
	Allocations    []AllocationOutcome `json:"allocations"`
	Expenses       []Event             `json:"expenses"`
	Timeline       []TimelineEntry     `json:"timeline"`
	RemainingFunds decimal.Decimal     `json:"remainingFunds"`
}

// OutcomeFor returns the outcome for a goal id, or nil if absent.
func (r *Report) OutcomeFor(goalID int64) *AllocationOutcome {
	for i := range r.Allocations {
		if r.Allocations[i].GoalID == goalID {
			return &r.Allocations[i]
		}
	}
	return nil
}
