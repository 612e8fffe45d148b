// Package period resolves user period selections against the catalog of
// available reference periods.
//
// The catalog is ordered newest-first, the way period pickers present it.
// A range is resolved by catalog position, so "Mar to Jan" and "Jan to Mar"
// describe the same window.
package period

import (
	"fmt"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// Resolver expands range or checklist selections into reference period sets.
type Resolver struct {
	catalog []string
	index   map[string]int
}

// NewResolver builds a resolver over a newest-first period catalog.
func NewResolver(catalog []string) *Resolver {
	index := make(map[string]int, len(catalog))
	for i, p := range catalog {
		if _, seen := index[p]; !seen {
			index[p] = i
		}
	}
	return &Resolver{catalog: catalog, index: index}
}

// Catalog returns the full newest-first period catalog.
func (r *Resolver) Catalog() []string {
	out := make([]string, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// Range resolves an inclusive window between two catalog entries. Either
// endpoint may be empty, in which case it defaults to the other one. The
// result follows catalog order regardless of which endpoint was "start".
func (r *Resolver) Range(start, end string) ([]string, error) {
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	if start == "" {
		return nil, &budget.AllocationError{
			Kind:    budget.ErrInvalidPeriod,
			Message: "no reference period selected",
		}
	}

	lo, err := r.lookup(start)
	if err != nil {
		return nil, err
	}
	hi, err := r.lookup(end)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	out := make([]string, hi-lo+1)
	copy(out, r.catalog[lo:hi+1])
	return out, nil
}

// Selection validates an explicit period checklist. Duplicates collapse and
// the result follows catalog order, not selection order.
func (r *Resolver) Selection(periods []string) ([]string, error) {
	if len(periods) == 0 {
		return nil, &budget.AllocationError{
			Kind:    budget.ErrInvalidPeriod,
			Message: "no reference period selected",
		}
	}

	picked := make(map[int]bool, len(periods))
	for _, p := range periods {
		i, err := r.lookup(p)
		if err != nil {
			return nil, err
		}
		picked[i] = true
	}

	out := make([]string, 0, len(picked))
	for i, p := range r.catalog {
		if picked[i] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Resolver) lookup(p string) (int, error) {
	i, ok := r.index[p]
	if !ok {
		return 0, &budget.AllocationError{
			Kind:    budget.ErrInvalidPeriod,
			Message: fmt.Sprintf("period %q is not in the catalog", p),
		}
	}
	return i, nil
}
