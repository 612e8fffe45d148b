package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

var catalog = []string{"2025-03", "2025-02", "2025-01", "2024-12"}

func TestRange_Inclusive(t *testing.T) {
	r := NewResolver(catalog)

	periods, err := r.Range("2025-03", "2025-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03", "2025-02", "2025-01"}, periods)
}

func TestRange_ReversedEndpointsYieldSameWindow(t *testing.T) {
	r := NewResolver(catalog)

	forward, err := r.Range("2025-01", "2025-03")
	require.NoError(t, err)
	backward, err := r.Range("2025-03", "2025-01")
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
	assert.Equal(t, []string{"2025-03", "2025-02", "2025-01"}, forward)
}

func TestRange_MissingEndpointDefaultsToOther(t *testing.T) {
	r := NewResolver(catalog)

	periods, err := r.Range("2025-02", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02"}, periods)

	periods, err = r.Range("", "2025-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02"}, periods)
}

func TestRange_UnknownPeriod(t *testing.T) {
	r := NewResolver(catalog)

	_, err := r.Range("2020-01", "2025-03")
	require.Error(t, err)

	var allocErr *budget.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, budget.ErrInvalidPeriod, allocErr.Kind)
}

func TestRange_BothEmpty(t *testing.T) {
	r := NewResolver(catalog)

	_, err := r.Range("", "")
	var allocErr *budget.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, budget.ErrInvalidPeriod, allocErr.Kind)
}

func TestSelection_DeduplicatesAndFollowsCatalogOrder(t *testing.T) {
	r := NewResolver(catalog)

	periods, err := r.Selection([]string{"2024-12", "2025-03", "2024-12"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03", "2024-12"}, periods)
}

func TestSelection_UnknownPeriod(t *testing.T) {
	r := NewResolver(catalog)

	_, err := r.Selection([]string{"2025-03", "1999-01"})
	var allocErr *budget.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, budget.ErrInvalidPeriod, allocErr.Kind)
}

func TestSelection_Empty(t *testing.T) {
	r := NewResolver(catalog)

	_, err := r.Selection(nil)
	require.Error(t, err)
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	r := NewResolver(catalog)

	got := r.Catalog()
	got[0] = "mutated"

	fresh, err := r.Range("2025-03", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03"}, fresh)
}
