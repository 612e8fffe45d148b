package budget

import (
	"fmt"
	"time"
)

// ErrorKind classifies allocation failures. Every allocation path reports
// failures through this single taxonomy so callers can branch on kind
// rather than on message text.
type ErrorKind string

const (
	// ErrInvalidPeriod means a requested reference period is not in the catalog.
	ErrInvalidPeriod ErrorKind = "invalid_period"
	// ErrUnknownBrand means the request's brand is not in the brand master list.
	ErrUnknownBrand ErrorKind = "unknown_brand"
	// ErrUnknownCompany means the request's company is not in the company master list.
	ErrUnknownCompany ErrorKind = "unknown_company"
	// ErrNoHistoricalSales means no sales matched brand+company in the reference window.
	ErrNoHistoricalSales ErrorKind = "no_historical_sales"
	// ErrZeroAverage means the historical average computed to exactly zero.
	ErrZeroAverage ErrorKind = "zero_average"
	// ErrNoDistributionTargets means a non-zero total had no weights to land on.
	ErrNoDistributionTargets ErrorKind = "no_distribution_targets"
	// ErrReconciliationMismatch means reconciled vendor amounts missed the
	// run total beyond tolerance. Unlike the others it aborts the apply.
	ErrReconciliationMismatch ErrorKind = "reconciliation_mismatch"
)

// AllocationError is a failure attached to one request (or one apply call).
// Batch runs collect these and keep going; they never abort the batch.
type AllocationError struct {
	Kind       ErrorKind `json:"kind"`
	Brand      string    `json:"brand,omitempty"`
	Company    string    `json:"company,omitempty"`
	TargetDate time.Time `json:"target_date,omitempty"`
	Message    string    `json:"message"`
}

func (e *AllocationError) Error() string {
	if e.Brand == "" && e.Company == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (brand=%q company=%q)", e.Kind, e.Message, e.Brand, e.Company)
}

// NewAllocationError builds an error with request context attached.
func NewAllocationError(kind ErrorKind, req BrandBudgetRequest, message string) *AllocationError {
	return &AllocationError{
		Kind:       kind,
		Brand:      req.Brand,
		Company:    req.Company,
		TargetDate: req.TargetDate,
		Message:    message,
	}
}
