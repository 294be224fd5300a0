package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalPolicy identifies the funding policy for a wish-list goal.
type GoalPolicy string

const (
	// PolicyTargetDate funds the goal by a requested calendar date.
	PolicyTargetDate GoalPolicy = "target_date"
	// PolicySequential funds goals strictly in Order, one lump sum each.
	PolicySequential GoalPolicy = "sequential"
	// PolicyPercentage funds the goal from a weighted share of whatever
	// remains after the other two policies have drawn.
	PolicyPercentage GoalPolicy = "percentage"
)

// Goal is a wish-list item competing for future funds. The policy-specific
// field (TargetDate, Order or Percentage) is required by the config layer
// before the engine runs; the engine assumes complete, validated goals.
type Goal struct {
	ID          int64           `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Cost        decimal.Decimal `json:"cost" yaml:"cost"`
	Policy      GoalPolicy      `json:"policy" yaml:"policy"`
	TargetDate  *time.Time      `json:"targetDate,omitempty" yaml:"target_date,omitempty"`
	Order       int             `json:"order,omitempty" yaml:"order,omitempty"`
	Percentage  decimal.Decimal `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Purchased   bool            `json:"purchased" yaml:"purchased,omitempty"`
	AmountSaved decimal.Decimal `json:"amountSaved" yaml:"amount_saved,omitempty"`
}

// RemainingCost is the cost still unfunded by purchase records,
// floored at zero.
func (g Goal) RemainingCost() decimal.Decimal {
	remaining := g.Cost.Sub(g.AmountSaved)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PurchaseRecord captures money put toward a goal. It is created in the
// same transaction that marks the goal purchased.
type PurchaseRecord struct {
	ID          int64           `json:"id"`
	GoalID      int64           `json:"goalId"`
	Amount      decimal.Decimal `json:"amount"`
	PurchasedAt time.Time       `json:"purchasedAt"`
	Note        string          `json:"note,omitempty"`
}
