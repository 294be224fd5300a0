// Package store persists incomes, expenses, goals and purchase records.
// It owns the transaction discipline for the commitment operations:
// inserting or deleting a goal applies the rebalancer's sibling updates
// in the same transaction as the goal change itself.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database for the given driver ("sqlite" or
// "postgres"), verifies the connection and applies migrations.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if driver == "sqlite" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}
	if err := migrate(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB, driver string) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS incomes (
			id %s,
			description TEXT NOT NULL,
			amount TEXT NOT NULL,
			recurrence TEXT NOT NULL,
			day_of_month INTEGER NOT NULL DEFAULT 0,
			start_date TEXT,
			one_time_date TEXT
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS expenses (
			id %s,
			description TEXT NOT NULL,
			amount TEXT NOT NULL,
			expense_date TEXT NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS goals (
			id %s,
			name TEXT NOT NULL,
			cost TEXT NOT NULL,
			policy TEXT NOT NULL,
			target_date TEXT,
			goal_order INTEGER NOT NULL DEFAULT 0,
			percentage TEXT NOT NULL DEFAULT '0',
			purchased BOOLEAN NOT NULL DEFAULT FALSE
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS purchases (
			id %s,
			goal_id BIGINT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
			amount TEXT NOT NULL,
			purchased_at TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT ''
		)`, serial),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
