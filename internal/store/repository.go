package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
)

const dateLayout = "2006-01-02"

// Repository provides database operations over the planner's records.
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateIncome inserts an income source and fills in its id.
func (r *Repository) CreateIncome(src *domain.IncomeSource) error {
	query := `
		INSERT INTO incomes (description, amount, recurrence, day_of_month, start_date, one_time_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRow(query,
		src.Description,
		src.Amount.String(),
		string(src.Recurrence),
		src.DayOfMonth,
		nullDate(src.StartDate),
		nullDate(src.OneTimeDate),
	).Scan(&src.ID)
	if err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

// ListIncomes returns all income sources in insertion order.
func (r *Repository) ListIncomes() ([]domain.IncomeSource, error) {
	rows, err := r.db.Query(`
		SELECT id, description, amount, recurrence, day_of_month, start_date, one_time_date
		FROM incomes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var out []domain.IncomeSource
	for rows.Next() {
		var src domain.IncomeSource
		var amount string
		var start, oneTime sql.NullString
		if err := rows.Scan(&src.ID, &src.Description, &amount, &src.Recurrence, &src.DayOfMonth, &start, &oneTime); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		if src.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for income %d: %w", src.ID, err)
		}
		if src.StartDate, err = parseNullDate(start); err != nil {
			return nil, fmt.Errorf("bad start date for income %d: %w", src.ID, err)
		}
		if src.OneTimeDate, err = parseNullDate(oneTime); err != nil {
			return nil, fmt.Errorf("bad one-time date for income %d: %w", src.ID, err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// DeleteIncome removes an income source.
func (r *Repository) DeleteIncome(id int64) error {
	return r.deleteByID("incomes", id)
}

// CreateExpense inserts an expense event and fills in its id.
func (r *Repository) CreateExpense(exp *domain.ExpenseEvent) error {
	query := `
		INSERT INTO expenses (description, amount, expense_date)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRow(query, exp.Description, exp.Amount.String(), exp.Date.Format(dateLayout)).Scan(&exp.ID)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// FutureExpenses returns expenses dated on or after asOf, ascending.
// Past expenses never participate in projections.
func (r *Repository) FutureExpenses(asOf time.Time) ([]domain.ExpenseEvent, error) {
	rows, err := r.db.Query(`
		SELECT id, description, amount, expense_date
		FROM expenses WHERE expense_date >= $1 ORDER BY expense_date`,
		domain.Date(asOf).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// ListExpenses returns every expense, most recent first.
func (r *Repository) ListExpenses() ([]domain.ExpenseEvent, error) {
	rows, err := r.db.Query(`
		SELECT id, description, amount, expense_date
		FROM expenses ORDER BY expense_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// DeleteExpense removes an expense event.
func (r *Repository) DeleteExpense(id int64) error {
	return r.deleteByID("expenses", id)
}

// UnpurchasedGoals returns every unpurchased goal, with amount_saved
// derived from purchase records.
func (r *Repository) UnpurchasedGoals() ([]domain.Goal, error) {
	return r.queryGoals(`WHERE g.purchased = FALSE`)
}

// ListGoals returns every goal, purchased or not.
func (r *Repository) ListGoals() ([]domain.Goal, error) {
	return r.queryGoals(``)
}

// GetGoal fetches one goal by id.
func (r *Repository) GetGoal(id int64) (*domain.Goal, error) {
	goals, err := r.queryGoals(`WHERE g.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("goal %d not found", id)
	}
	return &goals[0], nil
}

func (r *Repository) queryGoals(where string, args ...any) ([]domain.Goal, error) {
	saved, err := r.savedByGoal()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT g.id, g.name, g.cost, g.policy, g.target_date, g.goal_order, g.percentage, g.purchased
		FROM goals g %s ORDER BY g.id`, where)
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []domain.Goal
	for rows.Next() {
		var g domain.Goal
		var cost, percentage string
		var target sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &cost, &g.Policy, &target, &g.Order, &percentage, &g.Purchased); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if g.Cost, err = decimal.NewFromString(cost); err != nil {
			return nil, fmt.Errorf("bad cost for goal %d: %w", g.ID, err)
		}
		if g.Percentage, err = decimal.NewFromString(percentage); err != nil {
			return nil, fmt.Errorf("bad percentage for goal %d: %w", g.ID, err)
		}
		if g.TargetDate, err = parseNullDate(target); err != nil {
			return nil, fmt.Errorf("bad target date for goal %d: %w", g.ID, err)
		}
		g.AmountSaved = saved[g.ID]
		out = append(out, g)
	}
	return out, rows.Err()
}

// savedByGoal sums purchase amounts per goal with exact decimal math.
func (r *Repository) savedByGoal() (map[int64]decimal.Decimal, error) {
	rows, err := r.db.Query(`SELECT goal_id, amount FROM purchases`)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	saved := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var goalID int64
		var amount string
		if err := rows.Scan(&goalID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("bad purchase amount for goal %d: %w", goalID, err)
		}
		saved[goalID] = saved[goalID].Add(amt)
	}
	return saved, rows.Err()
}

// InsertGoal writes the new goal and the rebalanced sibling updates as a
// single transaction, so a failure leaves neither applied.
func (r *Repository) InsertGoal(g *domain.Goal, siblings []domain.Goal) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	if err := applySiblingUpdates(tx, siblings); err != nil {
		return err
	}

	query := `
		INSERT INTO goals (name, cost, policy, target_date, goal_order, percentage, purchased)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id`
	err = tx.QueryRow(query,
		g.Name,
		g.Cost.String(),
		string(g.Policy),
		nullDate(g.TargetDate),
		g.Order,
		g.Percentage.String(),
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return tx.Commit()
}

// DeleteGoal removes the goal and applies the rebalanced sibling updates
// in one transaction.
func (r *Repository) DeleteGoal(id int64, siblings []domain.Goal) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	if err := applySiblingUpdates(tx, siblings); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM goals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete goal %d: %w", id, err)
	}
	return tx.Commit()
}

// applySiblingUpdates rewrites order and weight on sibling goals. These
// writes bypass normal record validation on purpose: the rebalancer owns
// the invariant they maintain.
func applySiblingUpdates(tx *sql.Tx, siblings []domain.Goal) error {
	for _, s := range siblings {
		_, err := tx.Exec(`UPDATE goals SET goal_order = $1, percentage = $2 WHERE id = $3`,
			s.Order, s.Percentage.String(), s.ID)
		if err != nil {
			return fmt.Errorf("failed to update sibling goal %d: %w", s.ID, err)
		}
	}
	return nil
}

// UpdateGoalTarget overwrites a goal's stored target date. Used by the
// optional post-insert adjustment pass.
func (r *Repository) UpdateGoalTarget(id int64, target time.Time) error {
	_, err := r.db.Exec(`UPDATE goals SET target_date = $1 WHERE id = $2`,
		domain.Date(target).Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update goal %d target: %w", id, err)
	}
	return nil
}

// MarkGoalPurchased flags the goal purchased and records the purchase in
// the same transaction.
func (r *Repository) MarkGoalPurchased(id int64, amount decimal.Decimal, note string, at time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin purchase: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE goals SET purchased = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark goal %d purchased: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("goal %d not found", id)
	}

	_, err = tx.Exec(`INSERT INTO purchases (goal_id, amount, purchased_at, note) VALUES ($1, $2, $3, $4)`,
		id, amount.String(), at.UTC().Format(time.RFC3339), note)
	if err != nil {
		return fmt.Errorf("failed to record purchase for goal %d: %w", id, err)
	}
	return tx.Commit()
}

// RecentPurchases returns the latest purchase records, newest first.
func (r *Repository) RecentPurchases(limit int) ([]domain.PurchaseRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, goal_id, amount, purchased_at, note
		FROM purchases ORDER BY purchased_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var out []domain.PurchaseRecord
	for rows.Next() {
		var p domain.PurchaseRecord
		var amount, at string
		if err := rows.Scan(&p.ID, &p.GoalID, &amount, &at, &p.Note); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for purchase %d: %w", p.ID, err)
		}
		if p.PurchasedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("bad timestamp for purchase %d: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) deleteByID(table string, id int64) error {
	res, err := r.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("record %d not found in %s", id, table)
	}
	return nil
}

func scanExpenses(rows *sql.Rows) ([]domain.ExpenseEvent, error) {
	var out []domain.ExpenseEvent
	for rows.Next() {
		var exp domain.ExpenseEvent
		var amount, date string
		if err := rows.Scan(&exp.ID, &exp.Description, &amount, &date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		var err error
		if exp.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for expense %d: %w", exp.ID, err)
		}
		if exp.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("bad date for expense %d: %w", exp.ID, err)
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return domain.Date(*t).Format(dateLayout)
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, err
	}
	t = domain.Date(t)
	return &t, nil
}
