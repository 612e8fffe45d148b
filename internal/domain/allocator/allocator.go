// Package allocator provides the weighted proportional split used by brand
// suggestion, budget distribution, and vendor redistribution.
//
// Given a total and a set of weights, each key receives
//
//	amount = total × weight / Σweights
//
// rounded to cents, except the last key, which receives whatever is left.
// That residual rule is what makes the output sum to the total exactly
// instead of drifting by rounding noise.
package allocator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Weight pairs a key with its non-negative allocation weight.
type Weight struct {
	Key    string
	Weight decimal.Decimal
}

// Share is the allocated amount for one key. Output order matches the
// input weight order.
type Share struct {
	Key    string
	Amount decimal.Decimal
}

var (
	// ErrNegativeTotal is returned when the total to allocate is negative.
	ErrNegativeTotal = errors.New("allocation total cannot be negative")
	// ErrNegativeWeight is returned when any weight is negative.
	ErrNegativeWeight = errors.New("allocation weight cannot be negative")
)

var oneHundred = decimal.NewFromInt(100)

// Allocate distributes total across weights proportionally.
//
// The last key absorbs the rounding residual, so callers that care which
// entity soaks up drift must order weights deliberately. With all-zero
// weights the total is divided equally. An empty weight set yields an empty
// result; deciding whether that is an error belongs to the caller.
func Allocate(total decimal.Decimal, weights []Weight) ([]Share, error) {
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}
	if len(weights) == 0 {
		return []Share{}, nil
	}

	weightSum := decimal.Zero
	for _, w := range weights {
		if w.Weight.IsNegative() {
			return nil, ErrNegativeWeight
		}
		weightSum = weightSum.Add(w.Weight)
	}

	shares := make([]Share, len(weights))
	allocated := decimal.Zero
	last := len(weights) - 1

	for i, w := range weights {
		if i == last {
			break
		}
		var amount decimal.Decimal
		if weightSum.IsZero() {
			// All weights zero: fall back to an equal split.
			amount = total.Div(decimal.NewFromInt(int64(len(weights)))).Round(2)
		} else {
			amount = total.Mul(w.Weight).Div(weightSum).Round(2)
		}
		shares[i] = Share{Key: w.Key, Amount: amount}
		allocated = allocated.Add(amount)
	}

	residual := total.Sub(allocated)
	shares[last] = Share{Key: weights[last].Key, Amount: residual}

	// Accumulated upward rounding can push the residual below zero even
	// though every true share is non-negative. Take the deficit out of the
	// largest share instead, keeping the sum exact.
	if residual.IsNegative() && !total.IsNegative() {
		maxIdx := 0
		for i := range shares[:last] {
			if shares[i].Amount.GreaterThan(shares[maxIdx].Amount) {
				maxIdx = i
			}
		}
		shares[maxIdx].Amount = shares[maxIdx].Amount.Add(residual)
		shares[last].Amount = decimal.Zero
	}

	return shares, nil
}

// Percentage returns part's share of total expressed in percent, zero when
// total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(oneHundred)
}
