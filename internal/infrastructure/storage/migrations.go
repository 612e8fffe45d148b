package storage

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_budget_runs_table",
		Up:      migration002AddBudgetRunsTable,
	},
	{
		Version: 3,
		Name:    "add_vendor_adjustments_table",
		Up:      migration003AddVendorAdjustmentsTable,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, m := range allMigrations {
		if applied[m.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.Version, m.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migration001InitialSchema(tx *sql.Tx) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS brands (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS companies (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS sales_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			period TEXT NOT NULL,
			brand TEXT NOT NULL,
			client TEXT NOT NULL,
			article TEXT NOT NULL,
			vendor TEXT NOT NULL,
			company TEXT NOT NULL,
			amount TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_period ON sales_records(period)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_brand_company ON sales_records(brand, company)`,
		`CREATE TABLE IF NOT EXISTS brand_budgets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			brand TEXT NOT NULL,
			company TEXT NOT NULL,
			target_date TEXT NOT NULL,
			target_amount TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func migration002AddBudgetRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS budget_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		periods_json TEXT NOT NULL,
		results_json TEXT NOT NULL,
		errors_json TEXT NOT NULL
	)`)
	return err
}

func migration003AddVendorAdjustmentsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS vendor_adjustments (
		run_id TEXT PRIMARY KEY,
		adjustments_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}
