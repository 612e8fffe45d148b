// Package budget defines the core domain types shared by the allocation
// engine: budget requests, sales history, distribution results, and the
// error taxonomy used across all allocation paths.
package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

// BrandBudgetRequest is one row of a budget calculation batch: a target
// amount for a (brand, company, target date) tuple. Requests are validated
// external input and are never mutated by the engine.
type BrandBudgetRequest struct {
	Brand        string          `json:"brand"`
	Company      string          `json:"company"`
	TargetDate   time.Time       `json:"target_date"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

// SalesRecord is a read-only historical sales fact. Period is a month key
// in "2006-01" form.
type SalesRecord struct {
	Period  string          `json:"period"`
	Brand   string          `json:"brand"`
	Client  string          `json:"client"`
	Article string          `json:"article"`
	Vendor  string          `json:"vendor"`
	Company string          `json:"company"`
	Amount  decimal.Decimal `json:"amount"`
}

// ArticleDistribution is the computed breakdown for one (client, article)
// pair that had at least one matching sales record.
type ArticleDistribution struct {
	Article           string          `json:"article"`
	HistoricalAverage decimal.Decimal `json:"historical_average"`
	AdjustedAmount    decimal.Decimal `json:"adjusted_amount"`
	Variance          decimal.Decimal `json:"variance"`
}

// ClientDistribution groups a client's article breakdowns. Subtotal always
// equals the sum of the articles' adjusted amounts.
type ClientDistribution struct {
	Client   string                `json:"client"`
	Vendor   string                `json:"vendor"`
	Company  string                `json:"company"`
	Articles []ArticleDistribution `json:"articles"`
	Subtotal decimal.Decimal       `json:"subtotal"`
}

// BrandDistributionResult is the full outcome for one successfully
// processed request. The client subtotals sum to TargetAmount.
type BrandDistributionResult struct {
	Brand             string               `json:"brand"`
	Company           string               `json:"company"`
	TargetDate        time.Time            `json:"target_date"`
	TargetAmount      decimal.Decimal      `json:"target_amount"`
	HistoricalAverage decimal.Decimal      `json:"historical_average"`
	AdjustmentFactor  decimal.Decimal      `json:"adjustment_factor"`
	PercentChange     decimal.Decimal      `json:"percent_change"`
	Clients           []ClientDistribution `json:"clients"`
}

// BrandBudgetTotal is one historical per-brand-company budget total, the
// weight input for brand-level suggestions.
type BrandBudgetTotal struct {
	Brand   string          `json:"brand"`
	Company string          `json:"company"`
	Total   decimal.Decimal `json:"total"`
}

// BrandSuggestion is one row of a suggested brand-level distribution.
type BrandSuggestion struct {
	Brand      string          `json:"brand"`
	Company    string          `json:"company"`
	Percentage decimal.Decimal `json:"percentage"`
	Amount     decimal.Decimal `json:"amount"`
}

// Field identifies which of a vendor adjustment's two figures the user is
// editing. The other one is always derived, never edited directly.
type Field string

const (
	FieldNone       Field = ""
	FieldAmount     Field = "amount"
	FieldPercentage Field = "percentage"
)

// VendorAdjustment is the session-scoped editable state for one vendor
// during reconciliation. At most one of Amount/Percentage is authoritative
// (Locked marks which); the other is derived from it and the run total.
type VendorAdjustment struct {
	Vendor     string          `json:"vendor"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Locked     Field           `json:"locked_field"`
}
