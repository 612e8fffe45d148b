package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sorenh/brandbudget-backend/internal/api/dto"
	"github.com/sorenh/brandbudget-backend/internal/application/service"
	"github.com/sorenh/brandbudget-backend/internal/infrastructure/storage"
)

// DistributionsHandler handles distribution run requests.
type DistributionsHandler struct {
	*Base
}

// NewDistributionsHandler creates a new distributions handler.
func NewDistributionsHandler(svc *service.BudgetService) *DistributionsHandler {
	return &DistributionsHandler{Base: NewBase(svc)}
}

// Periods handles GET /api/periods - returns the reference period catalog.
func (h *DistributionsHandler) Periods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.svc.Periods()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.PeriodsResponse{Periods: periods})
}

// Create handles POST /api/distributions - runs a batch and returns the
// stored run. Per-request failures come back inside the response; only a
// bad reference window or an infrastructure failure fails the call.
func (h *DistributionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DistributionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	requests, err := req.Validate()
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	run, err := h.svc.RunDistribution(service.DistributionInput{
		Requests:    requests,
		StartPeriod: req.StartPeriod,
		EndPeriod:   req.EndPeriod,
		Periods:     req.Periods,
	})
	if err != nil {
		h.WriteAllocationError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, toDistributionResponse(run))
}

// Get handles GET /api/distributions/{runID} - returns a stored run.
func (h *DistributionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	run, err := h.svc.GetRun(runID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("run"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toDistributionResponse(run))
}

func toDistributionResponse(run *storage.BudgetRun) dto.DistributionResponse {
	return dto.DistributionResponse{
		RunID:     run.ID,
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
		Periods:   run.Periods,
		Results:   run.Results,
		Errors:    run.Errors,
	}
}
