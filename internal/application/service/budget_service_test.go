package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
	"github.com/sorenh/brandbudget-backend/internal/infrastructure/storage"
)

func seededRepo(t *testing.T) *storage.MockRepository {
	t.Helper()
	repo := storage.NewMockRepository()
	require.NoError(t, repo.SaveBrands([]string{"Nike", "Adidas"}))
	require.NoError(t, repo.SaveCompanies([]string{"Alpha"}))
	require.NoError(t, repo.SaveSales([]budget.SalesRecord{
		{Period: "2025-01", Brand: "Nike", Client: "Client A", Article: "X", Vendor: "V1", Company: "Alpha", Amount: decimal.NewFromInt(1000)},
		{Period: "2025-02", Brand: "Nike", Client: "Client A", Article: "X", Vendor: "V1", Company: "Alpha", Amount: decimal.NewFromInt(1000)},
		{Period: "2025-01", Brand: "Nike", Client: "Client B", Article: "Y", Vendor: "V2", Company: "Alpha", Amount: decimal.NewFromInt(2000)},
	}))
	return repo
}

func nikeRequest(amount int64) budget.BrandBudgetRequest {
	return budget.BrandBudgetRequest{
		Brand:        "Nike",
		Company:      "Alpha",
		TargetDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		TargetAmount: decimal.NewFromInt(amount),
	}
}

func TestRunDistribution_PersistsRun(t *testing.T) {
	repo := seededRepo(t)
	svc := NewBudgetService(repo, nil)

	run, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{nikeRequest(3000)},
		StartPeriod: "2025-02",
		EndPeriod:   "2025-01",
	})
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.True(t, repo.SaveRunCalled)
	assert.Equal(t, []string{"2025-02", "2025-01"}, run.Periods)
	require.Len(t, run.Results, 1)
	assert.Empty(t, run.Errors)
	assert.Equal(t, "1.5", run.Results[0].AdjustmentFactor.String())

	stored, err := svc.GetRun(run.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, run.ID, stored.ID)
}

func TestRunDistribution_InvalidWindowFailsWholeBatch(t *testing.T) {
	svc := NewBudgetService(seededRepo(t), nil)

	_, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{nikeRequest(3000)},
		StartPeriod: "1999-01",
	})
	require.Error(t, err)

	var allocErr *budget.AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, budget.ErrInvalidPeriod, allocErr.Kind)
}

func TestRunDistribution_RecordsBudgetsEvenWithoutSales(t *testing.T) {
	repo := seededRepo(t)
	svc := NewBudgetService(repo, nil)

	// Adidas is a valid brand with no sales history: the request fails with
	// no_historical_sales, but the raw budget amount is still recorded.
	adidas := nikeRequest(500)
	adidas.Brand = "Adidas"

	run, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{adidas},
		StartPeriod: "2025-01",
		EndPeriod:   "2025-02",
	})
	require.NoError(t, err)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, budget.ErrNoHistoricalSales, run.Errors[0].Kind)
	assert.Equal(t, 1, repo.SaveBrandBudgetCalled)
}

func TestRunDistribution_UnknownBrandNotRecorded(t *testing.T) {
	repo := seededRepo(t)
	svc := NewBudgetService(repo, nil)

	bogus := nikeRequest(500)
	bogus.Brand = "Puma"

	run, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{bogus},
		StartPeriod: "2025-01",
	})
	require.NoError(t, err)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, budget.ErrUnknownBrand, run.Errors[0].Kind)
	assert.Equal(t, 0, repo.SaveBrandBudgetCalled)
}

func TestSuggestBrands_UsesRecordedHistory(t *testing.T) {
	repo := seededRepo(t)
	svc := NewBudgetService(repo, nil)

	_, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{nikeRequest(3000)},
		StartPeriod: "2025-01",
		EndPeriod:   "2025-02",
	})
	require.NoError(t, err)

	suggestions, err := svc.SuggestBrands(decimal.NewFromInt(900))
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Nike", suggestions[0].Brand)
	assert.Equal(t, "900", suggestions[0].Amount.String())
	assert.Equal(t, "100", suggestions[0].Percentage.String())
}

func TestReconciliationLifecycle(t *testing.T) {
	repo := seededRepo(t)
	svc := NewBudgetService(repo, nil)

	run, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{nikeRequest(3000)},
		StartPeriod: "2025-01",
		EndPeriod:   "2025-02",
	})
	require.NoError(t, err)

	view, err := svc.StartReconciliation(run.ID)
	require.NoError(t, err)
	require.Len(t, view.Vendors, 2)
	assert.Equal(t, "3000", view.Total.String())

	// Lock V1 to 500; V2 absorbs the rest.
	view, err = svc.AdjustVendor(view.SessionID, "V1", budget.FieldAmount, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, budget.FieldAmount, view.Vendors[0].Locked)

	final, err := svc.ApplyReconciliation(view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "500", final["V1"].Amount.String())
	assert.Equal(t, "2500", final["V2"].Amount.String())
	assert.True(t, repo.SaveAdjustmentsCalled)

	// A fresh session over the same run rehydrates the locked edit.
	resumed, err := svc.StartReconciliation(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "500", resumed.Vendors[0].Amount.String())
	assert.Equal(t, budget.FieldAmount, resumed.Vendors[0].Locked)
}

func TestReconciliation_UnknownRunAndSession(t *testing.T) {
	svc := NewBudgetService(seededRepo(t), nil)

	_, err := svc.StartReconciliation("nope")
	assert.Error(t, err)

	_, err = svc.GetReconciliation("nope")
	assert.Error(t, err)
}

func TestCloseReconciliation_DiscardsSession(t *testing.T) {
	repo := seededRepo(t)
	svc := NewBudgetService(repo, nil)

	run, err := svc.RunDistribution(DistributionInput{
		Requests:    []budget.BrandBudgetRequest{nikeRequest(3000)},
		Periods:     []string{"2025-01", "2025-02"},
	})
	require.NoError(t, err)

	view, err := svc.StartReconciliation(run.ID)
	require.NoError(t, err)

	svc.CloseReconciliation(view.SessionID)
	_, err = svc.GetReconciliation(view.SessionID)
	assert.Error(t, err)
}
