// Package adjustment resolves the amount/percentage pair of a vendor
// adjustment from whichever side the user is editing.
package adjustment

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// ErrUnknownField is returned for a locked field other than amount or percentage.
var ErrUnknownField = errors.New("locked field must be amount or percentage")

var oneHundred = decimal.NewFromInt(100)

// Resolution is a consistent (amount, percentage) pair with its locked side
// recorded. The non-locked value is always derived from the locked one and
// the total, so editing one can never leave the other stale.
type Resolution struct {
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Locked     budget.Field
}

// Resolve derives the counterpart of the edited field against total.
// Editing an amount against a zero total yields a zero percentage.
func Resolve(total decimal.Decimal, field budget.Field, value decimal.Decimal) (Resolution, error) {
	switch field {
	case budget.FieldAmount:
		pct := decimal.Zero
		if !total.IsZero() {
			pct = value.Div(total).Mul(oneHundred)
		}
		return Resolution{Amount: value, Percentage: pct, Locked: budget.FieldAmount}, nil
	case budget.FieldPercentage:
		amount := total.Mul(value).Div(oneHundred)
		return Resolution{Amount: amount, Percentage: value, Locked: budget.FieldPercentage}, nil
	default:
		return Resolution{}, ErrUnknownField
	}
}
