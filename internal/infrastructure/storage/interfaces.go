package storage

import (
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// Repository defines the complete storage interface. It exists so the
// application layer can be tested against mocks and so the SQLite
// implementation can be swapped out.
type Repository interface {
	MasterRepository
	SalesRepository
	RunRepository
	AdjustmentRepository
	Close() error
}

// MasterRepository serves the brand and company master lists.
type MasterRepository interface {
	// ListBrands returns all brand names in the master list.
	ListBrands() ([]string, error)

	// ListCompanies returns all company names in the master list.
	ListCompanies() ([]string, error)

	// SaveBrands inserts brand names, ignoring ones already present.
	SaveBrands(names []string) error

	// SaveCompanies inserts company names, ignoring ones already present.
	SaveCompanies(names []string) error
}

// SalesRepository serves the historical sales feed and its period catalog.
type SalesRepository interface {
	// ListPeriods returns the catalog of available periods, newest first.
	ListPeriods() ([]string, error)

	// ListSales returns all sales records for the given periods,
	// in insertion order. An empty period list returns everything.
	ListSales(periods []string) ([]budget.SalesRecord, error)

	// SaveSales appends sales records to the history.
	SaveSales(records []budget.SalesRecord) error
}

// RunRepository persists batch runs and the brand budget history.
type RunRepository interface {
	// SaveRun stores a completed distribution run.
	SaveRun(run *BudgetRun) error

	// GetRun retrieves a run by id, nil if absent.
	GetRun(id string) (*BudgetRun, error)

	// SaveBrandBudget records a requested brand budget. Recorded even when
	// the distribution itself failed, so the raw amount is not lost.
	SaveBrandBudget(req budget.BrandBudgetRequest) error

	// BrandBudgetTotals returns historical budget totals grouped by
	// brand and company, the weights for brand-level suggestion.
	BrandBudgetTotals() ([]budget.BrandBudgetTotal, error)
}

// AdjustmentRepository persists reconciled vendor-adjustment maps per run.
type AdjustmentRepository interface {
	// SaveVendorAdjustments stores the final adjustment map for a run,
	// replacing any previous one.
	SaveVendorAdjustments(runID string, adjustments map[string]budget.VendorAdjustment) error

	// GetVendorAdjustments retrieves a run's persisted adjustment map,
	// nil if none was ever applied.
	GetVendorAdjustments(runID string) (map[string]budget.VendorAdjustment, error)
}
