package storage

import (
	"time"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// BudgetRun is one persisted distribution batch: the reference window it
// ran over, the results it produced, and the errors it collected.
type BudgetRun struct {
	ID        string                           `json:"id"`
	CreatedAt time.Time                        `json:"created_at"`
	Periods   []string                         `json:"periods"`
	Results   []budget.BrandDistributionResult `json:"results"`
	Errors    []*budget.AllocationError        `json:"errors"`
}
