package allocator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_BasicProportional(t *testing.T) {
	weights := []Weight{
		{Key: "a", Weight: decimal.NewFromInt(50)},
		{Key: "b", Weight: decimal.NewFromInt(30)},
		{Key: "c", Weight: decimal.NewFromInt(20)},
	}

	shares, err := Allocate(decimal.NewFromInt(1000), weights)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.Equal(t, "500", shares[0].Amount.String())
	assert.Equal(t, "300", shares[1].Amount.String())
	assert.Equal(t, "200", shares[2].Amount.String())
}

func TestAllocate_SumsExactlyToTotal(t *testing.T) {
	// 100 split three ways has no exact cent representation; the last key
	// absorbs the residual.
	weights := []Weight{
		{Key: "a", Weight: decimal.NewFromInt(1)},
		{Key: "b", Weight: decimal.NewFromInt(1)},
		{Key: "c", Weight: decimal.NewFromInt(1)},
	}

	total := decimal.NewFromInt(100)
	shares, err := Allocate(total, weights)
	require.NoError(t, err)

	assert.Equal(t, "33.33", shares[0].Amount.String())
	assert.Equal(t, "33.33", shares[1].Amount.String())
	assert.Equal(t, "33.34", shares[2].Amount.String())

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	assert.True(t, sum.Equal(total), "sum %s != total %s", sum, total)
}

func TestAllocate_RandomizedExactnessAndNonNegativity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 200; trial++ {
		total := decimal.NewFromFloat(rng.Float64() * 100000).Round(2)
		n := 1 + rng.Intn(12)
		weights := make([]Weight, n)
		for i := range weights {
			w := decimal.NewFromFloat(rng.Float64() * 1000).Round(4)
			if rng.Intn(5) == 0 {
				w = decimal.Zero
			}
			weights[i] = Weight{Key: fmt.Sprintf("k%d", i), Weight: w}
		}

		shares, err := Allocate(total, weights)
		require.NoError(t, err)
		require.Len(t, shares, n)

		sum := decimal.Zero
		for i, s := range shares {
			assert.False(t, s.Amount.IsNegative(),
				"trial %d share %d is negative: %s", trial, i, s.Amount)
			sum = sum.Add(s.Amount)
		}
		assert.True(t, sum.Equal(total),
			"trial %d: sum %s != total %s", trial, sum, total)
	}
}

func TestAllocate_AllZeroWeightsFallsBackToEqualSplit(t *testing.T) {
	weights := []Weight{
		{Key: "a", Weight: decimal.Zero},
		{Key: "b", Weight: decimal.Zero},
		{Key: "c", Weight: decimal.Zero},
		{Key: "d", Weight: decimal.Zero},
	}

	total := decimal.NewFromInt(100)
	shares, err := Allocate(total, weights)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	assert.True(t, sum.Equal(total))
	assert.Equal(t, "25", shares[0].Amount.String())
}

func TestAllocate_EmptyWeights(t *testing.T) {
	shares, err := Allocate(decimal.NewFromInt(500), nil)
	require.NoError(t, err)
	assert.Empty(t, shares)
}

func TestAllocate_ZeroWeightKeyGetsNothing(t *testing.T) {
	weights := []Weight{
		{Key: "active", Weight: decimal.NewFromInt(10)},
		{Key: "idle", Weight: decimal.Zero},
		{Key: "other", Weight: decimal.NewFromInt(10)},
	}

	shares, err := Allocate(decimal.NewFromInt(200), weights)
	require.NoError(t, err)

	assert.Equal(t, "100", shares[0].Amount.String())
	assert.Equal(t, "0", shares[1].Amount.String())
	assert.Equal(t, "100", shares[2].Amount.String())
}

func TestAllocate_PreservesInputOrder(t *testing.T) {
	weights := []Weight{
		{Key: "z", Weight: decimal.NewFromInt(1)},
		{Key: "a", Weight: decimal.NewFromInt(2)},
		{Key: "m", Weight: decimal.NewFromInt(3)},
	}

	shares, err := Allocate(decimal.NewFromInt(60), weights)
	require.NoError(t, err)

	assert.Equal(t, "z", shares[0].Key)
	assert.Equal(t, "a", shares[1].Key)
	assert.Equal(t, "m", shares[2].Key)
}

func TestAllocate_NegativeInputs(t *testing.T) {
	_, err := Allocate(decimal.NewFromInt(-1), []Weight{{Key: "a", Weight: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, ErrNegativeTotal)

	_, err = Allocate(decimal.NewFromInt(10), []Weight{{Key: "a", Weight: decimal.NewFromInt(-1)}})
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestAllocate_SingleKeyTakesEverything(t *testing.T) {
	shares, err := Allocate(decimal.RequireFromString("123.45"), []Weight{
		{Key: "only", Weight: decimal.NewFromInt(7)},
	})
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "123.45", shares[0].Amount.String())
}

func TestPercentage(t *testing.T) {
	pct := Percentage(decimal.NewFromInt(250), decimal.NewFromInt(1000))
	assert.Equal(t, "25", pct.String())

	assert.True(t, Percentage(decimal.NewFromInt(5), decimal.Zero).IsZero())
}
