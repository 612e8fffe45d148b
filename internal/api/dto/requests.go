package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// BudgetRequestRow is one brand budget row of a distribution request.
type BudgetRequestRow struct {
	Brand        string          `json:"brand"`
	Company      string          `json:"company"`
	TargetDate   string          `json:"target_date"` // "2006-01-02"
	TargetAmount decimal.Decimal `json:"target_amount"`
}

// DistributionRequest starts a batch run. The reference window is either a
// start/end range over the period catalog or an explicit period checklist;
// the checklist wins when both are present.
type DistributionRequest struct {
	Requests    []BudgetRequestRow `json:"requests"`
	StartPeriod string             `json:"start_period,omitempty"`
	EndPeriod   string             `json:"end_period,omitempty"`
	Periods     []string           `json:"periods,omitempty"`
}

// Validate checks the request and converts its rows to domain requests.
func (r *DistributionRequest) Validate() ([]budget.BrandBudgetRequest, error) {
	if len(r.Requests) == 0 {
		return nil, fmt.Errorf("at least one budget request is required")
	}
	if len(r.Periods) == 0 && r.StartPeriod == "" && r.EndPeriod == "" {
		return nil, fmt.Errorf("a reference period range or selection is required")
	}

	requests := make([]budget.BrandBudgetRequest, 0, len(r.Requests))
	for i, row := range r.Requests {
		if row.Brand == "" {
			return nil, fmt.Errorf("request %d: brand is required", i)
		}
		if row.Company == "" {
			return nil, fmt.Errorf("request %d: company is required", i)
		}
		if row.TargetAmount.IsNegative() {
			return nil, fmt.Errorf("request %d: target amount cannot be negative", i)
		}
		targetDate, err := time.Parse("2006-01-02", row.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("request %d: target date must be YYYY-MM-DD", i)
		}
		requests = append(requests, budget.BrandBudgetRequest{
			Brand:        row.Brand,
			Company:      row.Company,
			TargetDate:   targetDate,
			TargetAmount: row.TargetAmount,
		})
	}
	return requests, nil
}

// SuggestionRequest asks for a brand-level split of a total budget.
type SuggestionRequest struct {
	Total decimal.Decimal `json:"total"`
}

// ReconciliationRequest opens a reconciliation session over a stored run.
type ReconciliationRequest struct {
	RunID string `json:"run_id"`
}

// VendorEditRequest edits one vendor inside a session. Field names the
// figure the user is locking; the other is derived.
type VendorEditRequest struct {
	Field string          `json:"field"` // "amount" or "percentage"
	Value decimal.Decimal `json:"value"`
}
