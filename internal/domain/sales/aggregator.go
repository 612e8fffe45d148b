// Package sales aggregates historical sales records for the budget engine.
package sales

import (
	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// KeyFunc derives a grouping key from a sales record. Keys are arbitrary
// composites (brand+company, brand+company+client, ...) built by the caller.
type KeyFunc func(budget.SalesRecord) string

// Total is one grouped sum. Groups keep the encounter order of their first
// matching record, so downstream breakdowns are stable across runs.
type Total struct {
	Key    string
	Amount decimal.Decimal
}

// SumByKey groups records by keyFn and sums their amounts.
func SumByKey(records []budget.SalesRecord, keyFn KeyFunc) []Total {
	totals := make([]Total, 0)
	byKey := make(map[string]int)

	for _, rec := range records {
		key := keyFn(rec)
		if i, ok := byKey[key]; ok {
			totals[i].Amount = totals[i].Amount.Add(rec.Amount)
			continue
		}
		byKey[key] = len(totals)
		totals = append(totals, Total{Key: key, Amount: rec.Amount})
	}
	return totals
}

// PeriodAverage divides a sales sum by the number of requested reference
// periods. The divisor is the requested window size, not the number of
// periods that actually had sales: an idle month contributes zero to the
// numerator but still dilutes the average.
func PeriodAverage(sum decimal.Decimal, periodCount int) decimal.Decimal {
	if periodCount < 1 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(periodCount)))
}
