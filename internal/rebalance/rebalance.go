// Package rebalance maintains the ordering and weight invariants across
// sibling goals when a goal is inserted or removed: sequential orders
// stay a dense 1..N sequence and percentage weights keep summing to 100.
//
// Every function here is pure, returning updated copies and writing
// nothing, so the same algorithms serve both committed inserts/deletes
// and unpersisted what-if previews.
package rebalance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// BumpSequentialInsert makes room for a new goal at desiredOrder: every
// existing unpurchased sequential goal at or above that order shifts up
// by one. Goals are processed in descending order so shifted values
// never collide. The input slice is not modified.
func BumpSequentialInsert(existing []domain.Goal, desiredOrder int) []domain.Goal {
	out := make([]domain.Goal, len(existing))
	copy(out, existing)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order > out[j].Order })
	for i := range out {
		if out[i].Order >= desiredOrder {
			out[i].Order++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CollapseSequentialDelete closes the gap left by a deleted goal: every
// goal ordered after it shifts down by one, processed ascending.
func CollapseSequentialDelete(existing []domain.Goal, deletedOrder int) []domain.Goal {
	out := make([]domain.Goal, len(existing))
	copy(out, existing)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		if out[i].Order > deletedOrder {
			out[i].Order--
		}
	}
	return out
}

// CompressPercentagesInsert compresses existing percentage goals
// proportionally to make room for a new goal claiming newWeight: each
// existing weight becomes (100 - newWeight) * weight/total, rounded to
// two decimals. An empty set or a non-positive total is a no-op.
func CompressPercentagesInsert(existing []domain.Goal, newWeight decimal.Decimal) []domain.Goal {
	out := make([]domain.Goal, len(existing))
	copy(out, existing)

	total := weightTotal(out)
	if len(out) == 0 || !total.IsPositive() {
		return out
	}

	remaining := hundred.Sub(newWeight)
	for i := range out {
		out[i].Percentage = remaining.Mul(out[i].Percentage.Div(total)).Round(2)
	}
	return out
}

// RedistributePercentagesDelete hands a deleted goal's weight back to
// the remaining goals in proportion to their current weights: each
// becomes weight + deletedWeight × weight/total, rounded to two
// decimals. An empty set or a non-positive total is a no-op.
func RedistributePercentagesDelete(remaining []domain.Goal, deletedWeight decimal.Decimal) []domain.Goal {
	out := make([]domain.Goal, len(remaining))
	copy(out, remaining)

	total := weightTotal(out)
	if len(out) == 0 || !total.IsPositive() {
		return out
	}

	for i := range out {
		share := deletedWeight.Mul(out[i].Percentage.Div(total))
		out[i].Percentage = out[i].Percentage.Add(share).Round(2)
	}
	return out
}

func weightTotal(goals []domain.Goal) decimal.Decimal {
	total := decimal.Zero
	for _, g := range goals {
		total = total.Add(g.Percentage)
	}
	return total
}
