package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// NewHealthResponse creates a healthy response with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}

// PeriodsResponse lists the reference period catalog, newest first.
type PeriodsResponse struct {
	Periods []string `json:"periods"`
}

// DistributionResponse is one batch run: results and collected errors.
type DistributionResponse struct {
	RunID     string                           `json:"run_id"`
	CreatedAt string                           `json:"created_at"`
	Periods   []string                         `json:"periods"`
	Results   []budget.BrandDistributionResult `json:"results"`
	Errors    []*budget.AllocationError        `json:"errors"`
}

// SuggestionResponse is a suggested brand-level distribution.
type SuggestionResponse struct {
	Total       decimal.Decimal          `json:"total"`
	Suggestions []budget.BrandSuggestion `json:"suggestions"`
}

// ReconciliationResponse is the current state of an editing session.
type ReconciliationResponse struct {
	SessionID string                    `json:"session_id"`
	RunID     string                    `json:"run_id"`
	Total     decimal.Decimal           `json:"total"`
	Vendors   []budget.VendorAdjustment `json:"vendors"`
}

// ApplyResponse is the final reconciled mapping, keyed by vendor name.
type ApplyResponse struct {
	RunID   string                             `json:"run_id"`
	Vendors map[string]budget.VendorAdjustment `json:"vendors"`
}
