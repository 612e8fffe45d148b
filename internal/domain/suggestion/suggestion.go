// Package suggestion proposes a brand-level split of a total budget,
// weighted by each brand's historical budget totals.
package suggestion

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/allocator"
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// Suggest allocates total across brands proportionally to their historical
// budget totals. A non-zero total with no history to weight against is
// reported as ErrNoDistributionTargets.
func Suggest(total decimal.Decimal, history []budget.BrandBudgetTotal) ([]budget.BrandSuggestion, error) {
	if len(history) == 0 {
		if total.IsZero() {
			return []budget.BrandSuggestion{}, nil
		}
		return nil, &budget.AllocationError{
			Kind:    budget.ErrNoDistributionTargets,
			Message: "no historical brand budgets to distribute against",
		}
	}

	weights := make([]allocator.Weight, len(history))
	for i, h := range history {
		weights[i] = allocator.Weight{
			Key:    suggestionKey(h.Brand, h.Company),
			Weight: h.Total,
		}
	}

	shares, err := allocator.Allocate(total, weights)
	if err != nil {
		return nil, err
	}

	out := make([]budget.BrandSuggestion, len(shares))
	for i, share := range shares {
		out[i] = budget.BrandSuggestion{
			Brand:      history[i].Brand,
			Company:    history[i].Company,
			Amount:     share.Amount,
			Percentage: allocator.Percentage(share.Amount, total),
		}
	}
	return out, nil
}

func suggestionKey(brand, company string) string {
	return fmt.Sprintf("%s|%s", brand, company)
}
