package storage

import (
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores everything in maps and slices, making tests fast and isolated.
type MockRepository struct {
	brands      []string
	companies   []string
	sales       []budget.SalesRecord
	runs        map[string]*BudgetRun
	budgets     []budget.BrandBudgetRequest
	adjustments map[string]map[string]budget.VendorAdjustment

	// Hooks for test assertions
	SaveRunCalled         bool
	LastSavedRun          *BudgetRun
	SaveBrandBudgetCalled int
	SaveAdjustmentsCalled bool

	// Error injection for testing error paths
	ListSalesErr error
	SaveRunErr   error
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:        make(map[string]*BudgetRun),
		adjustments: make(map[string]map[string]budget.VendorAdjustment),
	}
}

func (m *MockRepository) ListBrands() ([]string, error)    { return m.brands, nil }
func (m *MockRepository) ListCompanies() ([]string, error) { return m.companies, nil }

func (m *MockRepository) SaveBrands(names []string) error {
	m.brands = append(m.brands, names...)
	return nil
}

func (m *MockRepository) SaveCompanies(names []string) error {
	m.companies = append(m.companies, names...)
	return nil
}

func (m *MockRepository) ListPeriods() ([]string, error) {
	seen := make(map[string]bool)
	periods := make([]string, 0)
	for _, rec := range m.sales {
		if !seen[rec.Period] {
			seen[rec.Period] = true
			periods = append(periods, rec.Period)
		}
	}
	// Newest first, matching the SQLite implementation.
	for i, j := 0, len(periods)-1; i < j; i, j = i+1, j-1 {
		periods[i], periods[j] = periods[j], periods[i]
	}
	return periods, nil
}

func (m *MockRepository) ListSales(periods []string) ([]budget.SalesRecord, error) {
	if m.ListSalesErr != nil {
		return nil, m.ListSalesErr
	}
	if len(periods) == 0 {
		return m.sales, nil
	}
	inWindow := make(map[string]bool, len(periods))
	for _, p := range periods {
		inWindow[p] = true
	}
	out := make([]budget.SalesRecord, 0)
	for _, rec := range m.sales {
		if inWindow[rec.Period] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockRepository) SaveSales(records []budget.SalesRecord) error {
	m.sales = append(m.sales, records...)
	return nil
}

func (m *MockRepository) SaveRun(run *BudgetRun) error {
	m.SaveRunCalled = true
	if m.SaveRunErr != nil {
		return m.SaveRunErr
	}
	m.runs[run.ID] = run
	m.LastSavedRun = run
	return nil
}

func (m *MockRepository) GetRun(id string) (*BudgetRun, error) {
	return m.runs[id], nil
}

func (m *MockRepository) SaveBrandBudget(req budget.BrandBudgetRequest) error {
	m.SaveBrandBudgetCalled++
	m.budgets = append(m.budgets, req)
	return nil
}

func (m *MockRepository) BrandBudgetTotals() ([]budget.BrandBudgetTotal, error) {
	totals := make([]budget.BrandBudgetTotal, 0)
	byKey := make(map[string]int)
	for _, req := range m.budgets {
		key := req.Brand + "|" + req.Company
		if i, ok := byKey[key]; ok {
			totals[i].Total = totals[i].Total.Add(req.TargetAmount)
			continue
		}
		byKey[key] = len(totals)
		totals = append(totals, budget.BrandBudgetTotal{
			Brand:   req.Brand,
			Company: req.Company,
			Total:   req.TargetAmount,
		})
	}
	return totals, nil
}

func (m *MockRepository) SaveVendorAdjustments(runID string, adjustments map[string]budget.VendorAdjustment) error {
	m.SaveAdjustmentsCalled = true
	m.adjustments[runID] = adjustments
	return nil
}

func (m *MockRepository) GetVendorAdjustments(runID string) (map[string]budget.VendorAdjustment, error) {
	return m.adjustments[runID], nil
}

func (m *MockRepository) Close() error { return nil }
