// Package config parses and validates plan files. Validation lives
// here, upstream of the engine: the calculation packages assume every
// source and goal they receive is complete and well formed.
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mstanton/wishful/internal/allocation"
	"github.com/mstanton/wishful/internal/domain"
)

// Plan is the on-disk YAML description of a user's finances: income
// sources, future expenses and wish-list goals, plus an optional
// calculation window.
type Plan struct {
	AsOf     time.Time             `yaml:"as_of,omitempty"`
	Horizon  time.Time             `yaml:"horizon,omitempty"`
	Incomes  []domain.IncomeSource `yaml:"incomes"`
	Expenses []domain.ExpenseEvent `yaml:"expenses,omitempty"`
	Goals    []domain.Goal         `yaml:"goals,omitempty"`
}

// InputParser handles parsing of plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	ip.assignIDs(&plan)
	return &plan, nil
}

// assignIDs gives records without explicit ids stable sequential ones so
// report outcomes stay addressable.
func (ip *InputParser) assignIDs(plan *Plan) {
	next := int64(1)
	for i := range plan.Incomes {
		if plan.Incomes[i].ID == 0 {
			plan.Incomes[i].ID = next
		}
		next++
	}
	next = 1
	for i := range plan.Expenses {
		if plan.Expenses[i].ID == 0 {
			plan.Expenses[i].ID = next
		}
		next++
	}
	next = 1
	for i := range plan.Goals {
		if plan.Goals[i].ID == 0 {
			plan.Goals[i].ID = next
		}
		next++
	}
}

// ValidatePlan validates the loaded plan.
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	for i := range plan.Incomes {
		if err := ip.validateIncome(&plan.Incomes[i]); err != nil {
			return fmt.Errorf("income %d (%s) validation failed: %w", i, plan.Incomes[i].Description, err)
		}
	}
	for i := range plan.Expenses {
		if err := ip.validateExpense(&plan.Expenses[i]); err != nil {
			return fmt.Errorf("expense %d (%s) validation failed: %w", i, plan.Expenses[i].Description, err)
		}
	}
	for i := range plan.Goals {
		if err := ip.validateGoal(&plan.Goals[i]); err != nil {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, plan.Goals[i].Name, err)
		}
	}
	if err := ip.validateGoalInvariants(plan.Goals); err != nil {
		return err
	}
	if !plan.Horizon.IsZero() && !plan.AsOf.IsZero() && !plan.Horizon.After(plan.AsOf) {
		return fmt.Errorf("horizon must be after as_of")
	}
	return nil
}

func (ip *InputParser) validateIncome(src *domain.IncomeSource) error {
	return ValidateIncomeSource(src)
}

// ValidateIncomeSource checks a single income source, including the
// one-required-field-per-recurrence-variant invariant.
func ValidateIncomeSource(src *domain.IncomeSource) error {
	if src.Description == "" {
		return fmt.Errorf("description is required")
	}
	if src.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	switch src.Recurrence {
	case domain.RecurrenceOneTime:
		if src.OneTimeDate == nil {
			return fmt.Errorf("one_time_date is required for one_time income")
		}
	case domain.RecurrenceSpecificDate:
		if src.DayOfMonth < 1 || src.DayOfMonth > 31 {
			return fmt.Errorf("day_of_month must be between 1 and 31")
		}
	case domain.RecurrenceLastDay:
		// No extra fields.
	case domain.RecurrenceBiweekly:
		if src.StartDate == nil {
			return fmt.Errorf("start_date is required for biweekly income")
		}
	default:
		return fmt.Errorf("unknown recurrence %q", src.Recurrence)
	}
	return nil
}

func (ip *InputParser) validateExpense(exp *domain.ExpenseEvent) error {
	if exp.Description == "" {
		return fmt.Errorf("description is required")
	}
	if exp.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if exp.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func (ip *InputParser) validateGoal(g *domain.Goal) error {
	return ValidateGoal(g)
}

// ValidateGoal checks a single goal, including its policy-specific
// required attribute.
func ValidateGoal(g *domain.Goal) error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	if g.Cost.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("cost must be positive")
	}
	switch g.Policy {
	case domain.PolicyTargetDate:
		if g.TargetDate == nil {
			return fmt.Errorf("target_date is required for target_date goals")
		}
	case domain.PolicySequential:
		if g.Order < 1 {
			return fmt.Errorf("order must be a positive integer")
		}
	case domain.PolicyPercentage:
		if g.Percentage.LessThanOrEqual(decimal.Zero) || g.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("percentage must be greater than 0 and at most 100")
		}
	default:
		return fmt.Errorf("unknown policy %q", g.Policy)
	}
	if g.AmountSaved.IsNegative() {
		return fmt.Errorf("amount_saved cannot be negative")
	}
	return nil
}

// validateGoalInvariants checks the cross-goal invariants the rebalancer
// maintains at runtime: dense 1..N sequential orders and percentage
// weights summing to at most 100, both over unpurchased goals only.
func (ip *InputParser) validateGoalInvariants(goals []domain.Goal) error {
	var orders []int
	weightSum := decimal.Zero
	for _, g := range goals {
		if g.Purchased {
			continue
		}
		switch g.Policy {
		case domain.PolicySequential:
			orders = append(orders, g.Order)
		case domain.PolicyPercentage:
			weightSum = weightSum.Add(g.Percentage)
		}
	}

	sort.Ints(orders)
	for i, order := range orders {
		if order != i+1 {
			return fmt.Errorf("sequential goal orders must form a dense 1..%d sequence", len(orders))
		}
	}
	if weightSum.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("percentage goal weights sum to %s, must not exceed 100", weightSum.String())
	}
	return nil
}

// ToInput converts a plan into engine input, partitioning unpurchased
// goals by policy. A zero asOf falls back to the plan's as_of, then to
// now; a zero horizon falls back to the default two years out.
func (plan *Plan) ToInput(asOf time.Time) allocation.Input {
	if asOf.IsZero() {
		asOf = plan.AsOf
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = domain.Date(asOf)

	horizon := domain.Date(plan.Horizon)
	if plan.Horizon.IsZero() {
		horizon = allocation.DefaultHorizon(asOf)
	}

	in := allocation.Input{
		AsOf:     asOf,
		Horizon:  horizon,
		Incomes:  plan.Incomes,
		Expenses: plan.Expenses,
	}
	for _, g := range plan.Goals {
		if g.Purchased {
			continue
		}
		switch g.Policy {
		case domain.PolicyTargetDate:
			in.TargetGoals = append(in.TargetGoals, g)
		case domain.PolicySequential:
			in.SequentialGoals = append(in.SequentialGoals, g)
		case domain.PolicyPercentage:
			in.PercentageGoals = append(in.PercentageGoals, g)
		}
	}
	return in
}
