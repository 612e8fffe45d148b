package adjustment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

func TestResolve_AmountDerivesPercentage(t *testing.T) {
	res, err := Resolve(decimal.NewFromInt(1000), budget.FieldAmount, decimal.NewFromInt(250))
	require.NoError(t, err)

	assert.Equal(t, "250", res.Amount.String())
	assert.Equal(t, "25", res.Percentage.String())
	assert.Equal(t, budget.FieldAmount, res.Locked)
}

func TestResolve_PercentageDerivesAmount(t *testing.T) {
	res, err := Resolve(decimal.NewFromInt(1000), budget.FieldPercentage, decimal.NewFromInt(25))
	require.NoError(t, err)

	assert.Equal(t, "250", res.Amount.String())
	assert.Equal(t, "25", res.Percentage.String())
	assert.Equal(t, budget.FieldPercentage, res.Locked)
}

func TestResolve_ZeroTotalYieldsZeroPercentage(t *testing.T) {
	res, err := Resolve(decimal.Zero, budget.FieldAmount, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, "100", res.Amount.String())
	assert.True(t, res.Percentage.IsZero())
}

func TestResolve_RoundTrip(t *testing.T) {
	// amount -> percentage -> amount reproduces the original within
	// rounding tolerance for any positive total.
	totals := []string{"1000", "3", "7777.77", "0.01"}
	amounts := []string{"1", "250", "3.33", "999.99"}

	for _, ts := range totals {
		total := decimal.RequireFromString(ts)
		for _, as := range amounts {
			amount := decimal.RequireFromString(as)

			first, err := Resolve(total, budget.FieldAmount, amount)
			require.NoError(t, err)
			second, err := Resolve(total, budget.FieldPercentage, first.Percentage)
			require.NoError(t, err)

			diff := second.Amount.Sub(amount).Abs()
			assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")),
				"total=%s amount=%s round-tripped to %s", ts, as, second.Amount)
		}
	}
}

func TestResolve_UnknownField(t *testing.T) {
	_, err := Resolve(decimal.NewFromInt(100), budget.FieldNone, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUnknownField)
}
