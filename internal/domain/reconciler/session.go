// Package reconciler redistributes a run's budget across vendors after
// manual per-vendor overrides.
//
// A Session is the explicit editing state for one user interaction: the
// pre-adjustment vendor snapshot, plus whichever vendors the user has
// taken over manually. Sessions are not safe for concurrent use and are
// not meant to be shared; each open edit owns its own Session.
package reconciler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/adjustment"
	"github.com/sorenh/brandbudget-backend/internal/domain/allocator"
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// Tolerance is how far the reconciled sum may drift from the run total
// before apply refuses to commit. One currency unit absorbs floating-point
// noise from rehydrated sessions; it is not a business allowance.
var Tolerance = decimal.NewFromInt(1)

// VendorShare is one vendor's pre-adjustment amount, the seed for both the
// editing snapshot and the redistribution weights.
type VendorShare struct {
	Vendor string
	Amount decimal.Decimal
}

// Session holds the working state of one reconciliation.
type Session struct {
	total    decimal.Decimal
	order    []string
	snapshot map[string]decimal.Decimal
	selected map[string]budget.VendorAdjustment
}

// SharesFromResults sums client subtotals per vendor across a batch run's
// results, in first-encounter order.
func SharesFromResults(results []budget.BrandDistributionResult) []VendorShare {
	shares := make([]VendorShare, 0)
	byVendor := make(map[string]int)

	for _, result := range results {
		for _, client := range result.Clients {
			i, ok := byVendor[client.Vendor]
			if !ok {
				i = len(shares)
				byVendor[client.Vendor] = i
				shares = append(shares, VendorShare{Vendor: client.Vendor})
			}
			shares[i].Amount = shares[i].Amount.Add(client.Subtotal)
		}
	}
	return shares
}

// NewSession opens a session over a batch run's results. The snapshot sums
// client subtotals per vendor; the run total is the sum of those shares.
func NewSession(results []budget.BrandDistributionResult) *Session {
	return NewSessionFromShares(SharesFromResults(results))
}

// NewSessionFromShares opens a session over precomputed vendor shares.
func NewSessionFromShares(shares []VendorShare) *Session {
	s := &Session{
		total:    decimal.Zero,
		order:    make([]string, 0, len(shares)),
		snapshot: make(map[string]decimal.Decimal, len(shares)),
		selected: make(map[string]budget.VendorAdjustment),
	}
	for _, share := range shares {
		if _, seen := s.snapshot[share.Vendor]; seen {
			s.snapshot[share.Vendor] = s.snapshot[share.Vendor].Add(share.Amount)
		} else {
			s.order = append(s.order, share.Vendor)
			s.snapshot[share.Vendor] = share.Amount
		}
		s.total = s.total.Add(share.Amount)
	}
	return s
}

// Restore rehydrates a session from a previously persisted adjustment map.
// Locked fields are replayed through the resolver against the current total
// rather than trusting stored derived values.
func Restore(shares []VendorShare, saved map[string]budget.VendorAdjustment) (*Session, error) {
	s := NewSessionFromShares(shares)
	for vendor, adj := range saved {
		switch adj.Locked {
		case budget.FieldAmount:
			if err := s.SetAmount(vendor, adj.Amount); err != nil {
				return nil, err
			}
		case budget.FieldPercentage:
			if err := s.SetPercentage(vendor, adj.Percentage); err != nil {
				return nil, err
			}
		case budget.FieldNone:
			// Never manually edited; redistributes automatically.
		}
	}
	return s, nil
}

// Total returns the run total the session reconciles against.
func (s *Session) Total() decimal.Decimal {
	return s.total
}

// Select begins tracking a vendor for manual edit, seeded with its
// snapshot amount and no locked field.
func (s *Session) Select(vendor string) error {
	if err := s.known(vendor); err != nil {
		return err
	}
	if _, ok := s.selected[vendor]; ok {
		return nil
	}
	amount := s.snapshot[vendor]
	s.selected[vendor] = budget.VendorAdjustment{
		Vendor:     vendor,
		Amount:     amount,
		Percentage: allocator.Percentage(amount, s.total),
		Locked:     budget.FieldNone,
	}
	return nil
}

// SetAmount makes the vendor's amount authoritative and derives its
// percentage. Selecting is implicit.
func (s *Session) SetAmount(vendor string, amount decimal.Decimal) error {
	return s.set(vendor, budget.FieldAmount, amount)
}

// SetPercentage makes the vendor's percentage authoritative and derives
// its amount. Selecting is implicit.
func (s *Session) SetPercentage(vendor string, percentage decimal.Decimal) error {
	return s.set(vendor, budget.FieldPercentage, percentage)
}

func (s *Session) set(vendor string, field budget.Field, value decimal.Decimal) error {
	if err := s.known(vendor); err != nil {
		return err
	}
	res, err := adjustment.Resolve(s.total, field, value)
	if err != nil {
		return err
	}
	s.selected[vendor] = budget.VendorAdjustment{
		Vendor:     vendor,
		Amount:     res.Amount,
		Percentage: res.Percentage,
		Locked:     res.Locked,
	}
	return nil
}

// Deselect stops tracking a vendor; it reverts to automatic redistribution.
func (s *Session) Deselect(vendor string) {
	delete(s.selected, vendor)
}

// Vendors returns the session's current per-vendor view in snapshot order:
// selected vendors show their edited values, the rest their snapshot share.
func (s *Session) Vendors() []budget.VendorAdjustment {
	out := make([]budget.VendorAdjustment, 0, len(s.order))
	for _, vendor := range s.order {
		if adj, ok := s.selected[vendor]; ok {
			out = append(out, adj)
			continue
		}
		amount := s.snapshot[vendor]
		out = append(out, budget.VendorAdjustment{
			Vendor:     vendor,
			Amount:     amount,
			Percentage: allocator.Percentage(amount, s.total),
			Locked:     budget.FieldNone,
		})
	}
	return out
}

// Apply resolves the final per-vendor mapping: manually adjusted vendors
// keep their resolved amounts, and the remainder is spread over the rest
// proportionally to their snapshot shares. The result must reconcile with
// the run total within Tolerance or nothing is committed; a failed apply
// leaves the session untouched so the user can correct and retry.
func (s *Session) Apply() (map[string]budget.VendorAdjustment, error) {
	adjustedSum := decimal.Zero
	weights := make([]allocator.Weight, 0, len(s.order))
	for _, vendor := range s.order {
		if adj, ok := s.selected[vendor]; ok {
			adjustedSum = adjustedSum.Add(adj.Amount)
			continue
		}
		weights = append(weights, allocator.Weight{Key: vendor, Weight: s.snapshot[vendor]})
	}

	remaining := s.total.Sub(adjustedSum)
	if remaining.IsNegative() {
		return nil, &budget.AllocationError{
			Kind:    budget.ErrReconciliationMismatch,
			Message: fmt.Sprintf("adjusted vendor amounts exceed the run total by %s", remaining.Neg()),
		}
	}

	final := make(map[string]budget.VendorAdjustment, len(s.order))
	finalSum := decimal.Zero

	for vendor, adj := range s.selected {
		final[vendor] = adj
		finalSum = finalSum.Add(adj.Amount)
	}

	shares, err := allocator.Allocate(remaining, weights)
	if err != nil {
		return nil, err
	}
	for _, share := range shares {
		final[share.Key] = budget.VendorAdjustment{
			Vendor:     share.Key,
			Amount:     share.Amount,
			Percentage: allocator.Percentage(share.Amount, s.total),
			Locked:     budget.FieldNone,
		}
		finalSum = finalSum.Add(share.Amount)
	}

	if finalSum.Sub(s.total).Abs().GreaterThan(Tolerance) {
		return nil, &budget.AllocationError{
			Kind: budget.ErrReconciliationMismatch,
			Message: fmt.Sprintf("reconciled vendor total %s deviates from run total %s",
				finalSum, s.total),
		}
	}

	return final, nil
}

func (s *Session) known(vendor string) error {
	if _, ok := s.snapshot[vendor]; !ok {
		return fmt.Errorf("vendor %q is not part of this run", vendor)
	}
	return nil
}
