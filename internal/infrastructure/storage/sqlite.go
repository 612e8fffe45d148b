// Package storage provides SQLite persistence for master lists, sales
// history, budget runs, and reconciled vendor adjustments.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// Storage is the SQLite implementation of Repository.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens (creating if needed) the SQLite database at dbPath and
// runs pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// ListBrands returns the brand master list in name order.
func (s *Storage) ListBrands() ([]string, error) {
	return s.listNames("brands")
}

// ListCompanies returns the company master list in name order.
func (s *Storage) ListCompanies() ([]string, error) {
	return s.listNames("companies")
}

// SaveBrands inserts brand names, skipping duplicates.
func (s *Storage) SaveBrands(names []string) error {
	return s.saveNames("brands", names)
}

// SaveCompanies inserts company names, skipping duplicates.
func (s *Storage) SaveCompanies(names []string) error {
	return s.saveNames("companies", names)
}

func (s *Storage) listNames(table string) ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM " + table + " ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Storage) saveNames(table string, names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO " + table + " (name) VALUES (?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range names {
		if _, err := stmt.Exec(name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListPeriods returns every distinct sales period, newest first.
func (s *Storage) ListPeriods() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT period FROM sales_records ORDER BY period DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// ListSales returns sales records for the given periods in insertion order.
// An empty period list returns the full history.
func (s *Storage) ListSales(periods []string) ([]budget.SalesRecord, error) {
	query := `
	SELECT period, brand, client, article, vendor, company, amount
	FROM sales_records
	`
	args := make([]any, 0, len(periods))
	if len(periods) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(periods)), ",")
		query += " WHERE period IN (" + placeholders + ")"
		for _, p := range periods {
			args = append(args, p)
		}
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]budget.SalesRecord, 0)
	for rows.Next() {
		var rec budget.SalesRecord
		var amount string
		if err := rows.Scan(&rec.Period, &rec.Brand, &rec.Client, &rec.Article,
			&rec.Vendor, &rec.Company, &amount); err != nil {
			return nil, err
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount in sales record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveSales appends records to the sales history.
func (s *Storage) SaveSales(records []budget.SalesRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO sales_records (period, brand, client, article, vendor, company, amount)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Period, rec.Brand, rec.Client, rec.Article,
			rec.Vendor, rec.Company, rec.Amount.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SaveRun stores a completed distribution run with its results and errors
// as JSON columns.
func (s *Storage) SaveRun(run *BudgetRun) error {
	periodsJSON, _ := json.Marshal(run.Periods)
	resultsJSON, _ := json.Marshal(run.Results)
	errorsJSON, _ := json.Marshal(run.Errors)

	_, err := s.db.Exec(`
	INSERT OR REPLACE INTO budget_runs (id, created_at, periods_json, results_json, errors_json)
	VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339), string(periodsJSON),
		string(resultsJSON), string(errorsJSON))
	return err
}

// GetRun retrieves a run by id, nil if absent.
func (s *Storage) GetRun(id string) (*BudgetRun, error) {
	var createdAt, periodsJSON, resultsJSON, errorsJSON string
	err := s.db.QueryRow(`
	SELECT created_at, periods_json, results_json, errors_json
	FROM budget_runs WHERE id = ?
	`, id).Scan(&createdAt, &periodsJSON, &resultsJSON, &errorsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	run := &BudgetRun{ID: id}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if err := json.Unmarshal([]byte(periodsJSON), &run.Periods); err != nil {
		return nil, fmt.Errorf("corrupt periods for run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &run.Results); err != nil {
		return nil, fmt.Errorf("corrupt results for run %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
		return nil, fmt.Errorf("corrupt errors for run %s: %w", id, err)
	}
	return run, nil
}

// SaveBrandBudget records one requested brand budget.
func (s *Storage) SaveBrandBudget(req budget.BrandBudgetRequest) error {
	_, err := s.db.Exec(`
	INSERT INTO brand_budgets (brand, company, target_date, target_amount)
	VALUES (?, ?, ?, ?)
	`, req.Brand, req.Company, req.TargetDate.UTC().Format("2006-01-02"),
		req.TargetAmount.String())
	return err
}

// BrandBudgetTotals sums recorded budgets per brand and company.
func (s *Storage) BrandBudgetTotals() ([]budget.BrandBudgetTotal, error) {
	// Amounts are TEXT for exactness elsewhere; summing in Go keeps that.
	rows, err := s.db.Query(`
	SELECT brand, company, target_amount FROM brand_budgets ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]budget.BrandBudgetTotal, 0)
	byKey := make(map[string]int)
	for rows.Next() {
		var brand, company, amount string
		if err := rows.Scan(&brand, &company, &amount); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount in brand budget: %w", err)
		}
		key := brand + "|" + company
		if i, ok := byKey[key]; ok {
			totals[i].Total = totals[i].Total.Add(value)
			continue
		}
		byKey[key] = len(totals)
		totals = append(totals, budget.BrandBudgetTotal{Brand: brand, Company: company, Total: value})
	}
	return totals, rows.Err()
}

// SaveVendorAdjustments stores the reconciled adjustment map for a run as
// an opaque JSON blob, replacing any previous one.
func (s *Storage) SaveVendorAdjustments(runID string, adjustments map[string]budget.VendorAdjustment) error {
	blob, err := json.Marshal(adjustments)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
	INSERT OR REPLACE INTO vendor_adjustments (run_id, adjustments_json, updated_at)
	VALUES (?, ?, ?)
	`, runID, string(blob), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetVendorAdjustments retrieves a run's persisted adjustment map, nil if
// the run was never reconciled.
func (s *Storage) GetVendorAdjustments(runID string) (map[string]budget.VendorAdjustment, error) {
	var blob string
	err := s.db.QueryRow(`
	SELECT adjustments_json FROM vendor_adjustments WHERE run_id = ?
	`, runID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	adjustments := make(map[string]budget.VendorAdjustment)
	if err := json.Unmarshal([]byte(blob), &adjustments); err != nil {
		return nil, fmt.Errorf("corrupt adjustments for run %s: %w", runID, err)
	}
	return adjustments, nil
}
