// Package service wires the allocation engine to persisted records and
// owns the caller-facing commitment operations: goal insertion and
// deletion (with sibling rebalancing), purchases, and previews.
package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mstanton/wishful/internal/allocation"
	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/rebalance"
	"github.com/mstanton/wishful/internal/store"
)

// Planner runs allocation calculations over stored records.
type Planner struct {
	repo *store.Repository
	log  *logrus.Logger
	orch *allocation.Orchestrator

	// AdjustTargets controls whether inserting a target-date goal may
	// rewrite the stored targets of goals whose computed completion
	// slipped past their requested date. The original system always did
	// this silently; it is surprising enough to be opt-in here.
	AdjustTargets bool
}

// NewPlanner creates a planner over the repository.
func NewPlanner(repo *store.Repository, log *logrus.Logger) *Planner {
	return &Planner{
		repo: repo,
		log:  log,
		orch: allocation.NewOrchestrator(),
	}
}

// input assembles engine input from stored records as of the given day.
func (p *Planner) input(asOf time.Time) (allocation.Input, error) {
	asOf = domain.Date(asOf)

	incomes, err := p.repo.ListIncomes()
	if err != nil {
		return allocation.Input{}, err
	}
	expenses, err := p.repo.FutureExpenses(asOf)
	if err != nil {
		return allocation.Input{}, err
	}
	goals, err := p.repo.UnpurchasedGoals()
	if err != nil {
		return allocation.Input{}, err
	}

	in := allocation.Input{
		AsOf:     asOf,
		Horizon:  allocation.DefaultHorizon(asOf),
		Incomes:  incomes,
		Expenses: expenses,
	}
	for _, g := range goals {
		switch g.Policy {
		case domain.PolicyTargetDate:
			in.TargetGoals = append(in.TargetGoals, g)
		case domain.PolicySequential:
			in.SequentialGoals = append(in.SequentialGoals, g)
		case domain.PolicyPercentage:
			in.PercentageGoals = append(in.PercentageGoals, g)
		}
	}
	return in, nil
}

// Report runs the full allocation calculation over committed records.
func (p *Planner) Report(asOf time.Time) (*domain.Report, error) {
	in, err := p.input(asOf)
	if err != nil {
		return nil, err
	}
	report := p.orch.Run(in)
	p.log.WithFields(logrus.Fields{
		"goals":     len(report.Allocations),
		"income":    report.TotalIncome.String(),
		"remaining": report.RemainingFunds.String(),
	}).Debug("allocation report computed")
	return report, nil
}

// AddGoal commits a new goal: the rebalanced sibling updates and the
// insert land in one transaction. When AdjustTargets is on and the goal
// is a target-date goal, a follow-up calculation rewrites the stored
// target of any goal whose feasible completion now falls later.
func (p *Planner) AddGoal(g domain.Goal, asOf time.Time) (*domain.Goal, error) {
	siblings, err := p.rebalancedForInsert(g)
	if err != nil {
		return nil, err
	}
	if err := p.repo.InsertGoal(&g, siblings); err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"goal":   g.Name,
		"policy": g.Policy,
	}).Info("goal added")

	if p.AdjustTargets && g.Policy == domain.PolicyTargetDate {
		if err := p.adjustSlippedTargets(asOf); err != nil {
			return nil, err
		}
	}
	return &g, nil
}

// rebalancedForInsert computes the sibling updates a new goal forces.
func (p *Planner) rebalancedForInsert(g domain.Goal) ([]domain.Goal, error) {
	switch g.Policy {
	case domain.PolicySequential:
		siblings, err := p.siblings(domain.PolicySequential, 0)
		if err != nil {
			return nil, err
		}
		return rebalance.BumpSequentialInsert(siblings, g.Order), nil
	case domain.PolicyPercentage:
		siblings, err := p.siblings(domain.PolicyPercentage, 0)
		if err != nil {
			return nil, err
		}
		return rebalance.CompressPercentagesInsert(siblings, g.Percentage), nil
	default:
		return nil, nil
	}
}

// RemoveGoal deletes a goal and closes the gap it leaves among its
// siblings, all in one transaction.
func (p *Planner) RemoveGoal(id int64) error {
	g, err := p.repo.GetGoal(id)
	if err != nil {
		return err
	}

	var siblings []domain.Goal
	switch g.Policy {
	case domain.PolicySequential:
		existing, err := p.siblings(domain.PolicySequential, id)
		if err != nil {
			return err
		}
		siblings = rebalance.CollapseSequentialDelete(existing, g.Order)
	case domain.PolicyPercentage:
		existing, err := p.siblings(domain.PolicyPercentage, id)
		if err != nil {
			return err
		}
		siblings = rebalance.RedistributePercentagesDelete(existing, g.Percentage)
	}

	if err := p.repo.DeleteGoal(id, siblings); err != nil {
		return err
	}
	p.log.WithField("goal", g.Name).Info("goal removed")
	return nil
}

// Purchase marks a goal purchased, recording the spent amount. A zero
// amount defaults to the goal's cost.
func (p *Planner) Purchase(id int64, amount decimal.Decimal, note string, at time.Time) error {
	g, err := p.repo.GetGoal(id)
	if err != nil {
		return err
	}
	if g.Purchased {
		return fmt.Errorf("goal %d is already purchased", id)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		amount = g.Cost
	}
	if err := p.repo.MarkGoalPurchased(id, amount, note, at); err != nil {
		return err
	}
	p.log.WithFields(logrus.Fields{
		"goal":   g.Name,
		"amount": amount.String(),
	}).Info("goal purchased")
	return nil
}

// Preview runs the identical three-phase calculation with a hypothetical
// goal folded in, substituting rebalanced sibling collections computed
// for the would-be insertion. Nothing is written; the returned outcome
// is the hypothetical goal's own.
func (p *Planner) Preview(temp domain.Goal, asOf time.Time) (*domain.Report, *domain.AllocationOutcome, error) {
	in, err := p.input(asOf)
	if err != nil {
		return nil, nil, err
	}

	temp.ID = 0 // unpersisted; committed goals always have positive ids
	switch temp.Policy {
	case domain.PolicySequential:
		in.SequentialOverride = rebalance.BumpSequentialInsert(in.SequentialGoals, temp.Order)
	case domain.PolicyPercentage:
		in.PercentageOverride = rebalance.CompressPercentagesInsert(in.PercentageGoals, temp.Percentage)
	}
	in.ExtraGoals = []domain.Goal{temp}

	report := p.orch.Run(in)
	return report, report.OutcomeFor(0), nil
}

// adjustSlippedTargets rewrites stored target dates for goals whose
// computed completion now falls after what the user asked for.
func (p *Planner) adjustSlippedTargets(asOf time.Time) error {
	report, err := p.Report(asOf)
	if err != nil {
		return err
	}
	for _, a := range report.Allocations {
		if !a.Adjusted || a.CompletionDate == nil || a.OriginalTarget == nil {
			continue
		}
		if a.CompletionDate.After(*a.OriginalTarget) {
			if err := p.repo.UpdateGoalTarget(a.GoalID, *a.CompletionDate); err != nil {
				return err
			}
			p.log.WithFields(logrus.Fields{
				"goal":   a.GoalName,
				"target": a.CompletionDate.Format("2006-01-02"),
			}).Info("target date adjusted")
		}
	}
	return nil
}

// siblings returns unpurchased goals of one policy, excluding one id.
func (p *Planner) siblings(policy domain.GoalPolicy, excludeID int64) ([]domain.Goal, error) {
	goals, err := p.repo.UnpurchasedGoals()
	if err != nil {
		return nil, err
	}
	var out []domain.Goal
	for _, g := range goals {
		if g.Policy == policy && g.ID != excludeID {
			out = append(out, g)
		}
	}
	return out, nil
}
