// Package service wires storage and the domain engine into the operations
// the API and CLI expose: distribution runs, brand suggestions, and
// reconciliation sessions.
package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
	"github.com/sorenh/brandbudget-backend/internal/domain/distribution"
	"github.com/sorenh/brandbudget-backend/internal/domain/period"
	"github.com/sorenh/brandbudget-backend/internal/domain/reconciler"
	"github.com/sorenh/brandbudget-backend/internal/domain/suggestion"
	"github.com/sorenh/brandbudget-backend/internal/infrastructure/storage"
)

// DistributionInput describes one batch run: the requests plus the
// reference window, either as a start/end range over the catalog or as an
// explicit period checklist. Periods wins when both are set.
type DistributionInput struct {
	Requests    []budget.BrandBudgetRequest
	StartPeriod string
	EndPeriod   string
	Periods     []string
}

// ReconciliationView is a session's current state for display.
type ReconciliationView struct {
	SessionID string                    `json:"session_id"`
	RunID     string                    `json:"run_id"`
	Total     decimal.Decimal           `json:"total"`
	Vendors   []budget.VendorAdjustment `json:"vendors"`
}

type reconciliationSession struct {
	id        string
	runID     string
	createdAt time.Time
	session   *reconciler.Session
}

// BudgetService runs distribution batches and owns the open
// reconciliation sessions.
type BudgetService struct {
	repo   storage.Repository
	logger *slog.Logger

	// Session registry. The mutex guards the map; each session itself has
	// exactly one writer (the interactive user) and needs no lock.
	sessions      map[string]*reconciliationSession
	sessionsMutex sync.RWMutex
}

// NewBudgetService creates a budget service over the given repository.
func NewBudgetService(repo storage.Repository, logger *slog.Logger) *BudgetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetService{
		repo:     repo,
		logger:   logger,
		sessions: make(map[string]*reconciliationSession),
	}
}

// Periods returns the reference period catalog, newest first.
func (s *BudgetService) Periods() ([]string, error) {
	return s.repo.ListPeriods()
}

// RunDistribution resolves the reference window, runs the calculator over
// the batch, persists the run, and returns it. Per-request failures are
// part of the run, not errors of this call; only an unusable reference
// window or an infrastructure failure aborts the whole batch.
func (s *BudgetService) RunDistribution(input DistributionInput) (*storage.BudgetRun, error) {
	catalog, err := s.repo.ListPeriods()
	if err != nil {
		return nil, fmt.Errorf("loading period catalog: %w", err)
	}
	resolver := period.NewResolver(catalog)

	var periods []string
	if len(input.Periods) > 0 {
		periods, err = resolver.Selection(input.Periods)
	} else {
		periods, err = resolver.Range(input.StartPeriod, input.EndPeriod)
	}
	if err != nil {
		return nil, err
	}

	brands, err := s.repo.ListBrands()
	if err != nil {
		return nil, fmt.Errorf("loading brand master list: %w", err)
	}
	companies, err := s.repo.ListCompanies()
	if err != nil {
		return nil, fmt.Errorf("loading company master list: %w", err)
	}
	records, err := s.repo.ListSales(periods)
	if err != nil {
		return nil, fmt.Errorf("loading sales history: %w", err)
	}

	calc := distribution.NewCalculator(distribution.Masters{
		Brands:    brands,
		Companies: companies,
	}, s.logger)
	results, errs := calc.Run(input.Requests, periods, records)

	s.recordBudgets(input.Requests, errs)

	run := &storage.BudgetRun{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Periods:   periods,
		Results:   results,
		Errors:    errs,
	}
	if err := s.repo.SaveRun(run); err != nil {
		return nil, fmt.Errorf("persisting run: %w", err)
	}

	s.logger.Info("distribution run completed",
		"run_id", run.ID,
		"requests", len(input.Requests),
		"results", len(results),
		"errors", len(errs),
	)
	return run, nil
}

// recordBudgets persists the raw requested amounts. Failed master-list
// lookups are not recorded; a request that merely had no usable sales
// history still is, so the budget figure itself survives.
func (s *BudgetService) recordBudgets(requests []budget.BrandBudgetRequest, errs []*budget.AllocationError) {
	skip := make(map[string]bool)
	for _, e := range errs {
		if e.Kind == budget.ErrUnknownBrand || e.Kind == budget.ErrUnknownCompany {
			skip[e.Brand+"|"+e.Company] = true
		}
	}
	for _, req := range requests {
		if skip[req.Brand+"|"+req.Company] {
			continue
		}
		if err := s.repo.SaveBrandBudget(req); err != nil {
			s.logger.Warn("failed to record brand budget",
				"brand", req.Brand, "company", req.Company, "error", err)
		}
	}
}

// GetRun retrieves a persisted run, nil if absent.
func (s *BudgetService) GetRun(runID string) (*storage.BudgetRun, error) {
	return s.repo.GetRun(runID)
}

// SuggestBrands proposes a brand-level split of total, weighted by the
// recorded brand budget history.
func (s *BudgetService) SuggestBrands(total decimal.Decimal) ([]budget.BrandSuggestion, error) {
	history, err := s.repo.BrandBudgetTotals()
	if err != nil {
		return nil, fmt.Errorf("loading brand budget history: %w", err)
	}
	return suggestion.Suggest(total, history)
}

// StartReconciliation opens an editing session over a stored run. A
// previously applied adjustment map for the run is rehydrated into the new
// session so the user resumes where they left off.
func (s *BudgetService) StartReconciliation(runID string) (*ReconciliationView, error) {
	run, err := s.repo.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %q not found", runID)
	}

	shares := reconciler.SharesFromResults(run.Results)

	saved, err := s.repo.GetVendorAdjustments(runID)
	if err != nil {
		return nil, err
	}

	var session *reconciler.Session
	if len(saved) > 0 {
		session, err = reconciler.Restore(shares, saved)
		if err != nil {
			return nil, fmt.Errorf("rehydrating session for run %s: %w", runID, err)
		}
	} else {
		session = reconciler.NewSessionFromShares(shares)
	}

	rs := &reconciliationSession{
		id:        uuid.NewString(),
		runID:     runID,
		createdAt: time.Now().UTC(),
		session:   session,
	}

	s.sessionsMutex.Lock()
	s.sessions[rs.id] = rs
	s.sessionsMutex.Unlock()

	return s.view(rs), nil
}

// GetReconciliation returns a session's current state.
func (s *BudgetService) GetReconciliation(sessionID string) (*ReconciliationView, error) {
	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(rs), nil
}

// AdjustVendor edits one vendor's locked field inside a session.
func (s *BudgetService) AdjustVendor(sessionID, vendor string, field budget.Field, value decimal.Decimal) (*ReconciliationView, error) {
	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	switch field {
	case budget.FieldAmount:
		err = rs.session.SetAmount(vendor, value)
	case budget.FieldPercentage:
		err = rs.session.SetPercentage(vendor, value)
	default:
		err = fmt.Errorf("field must be %q or %q", budget.FieldAmount, budget.FieldPercentage)
	}
	if err != nil {
		return nil, err
	}
	return s.view(rs), nil
}

// ReleaseVendor reverts one vendor to automatic redistribution.
func (s *BudgetService) ReleaseVendor(sessionID, vendor string) (*ReconciliationView, error) {
	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	rs.session.Deselect(vendor)
	return s.view(rs), nil
}

// ApplyReconciliation reconciles the session and persists the final
// per-vendor mapping. On failure nothing is persisted and the session is
// left as it was.
func (s *BudgetService) ApplyReconciliation(sessionID string) (map[string]budget.VendorAdjustment, error) {
	rs, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	final, err := rs.session.Apply()
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveVendorAdjustments(rs.runID, final); err != nil {
		return nil, fmt.Errorf("persisting vendor adjustments: %w", err)
	}

	s.logger.Info("reconciliation applied",
		"run_id", rs.runID,
		"session_id", sessionID,
		"vendors", len(final),
	)
	return final, nil
}

// CloseReconciliation discards an open session. Unapplied edits are lost,
// which is how a user abandons a reconciliation.
func (s *BudgetService) CloseReconciliation(sessionID string) {
	s.sessionsMutex.Lock()
	delete(s.sessions, sessionID)
	s.sessionsMutex.Unlock()
}

func (s *BudgetService) lookup(sessionID string) (*reconciliationSession, error) {
	s.sessionsMutex.RLock()
	rs, ok := s.sessions[sessionID]
	s.sessionsMutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("reconciliation session %q not found", sessionID)
	}
	return rs, nil
}

func (s *BudgetService) view(rs *reconciliationSession) *ReconciliationView {
	return &ReconciliationView{
		SessionID: rs.id,
		RunID:     rs.runID,
		Total:     rs.session.Total(),
		Vendors:   rs.session.Vendors(),
	}
}
