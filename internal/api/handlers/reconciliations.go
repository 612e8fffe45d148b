package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sorenh/brandbudget-backend/internal/api/dto"
	"github.com/sorenh/brandbudget-backend/internal/application/service"
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// ReconciliationsHandler handles vendor reconciliation sessions.
type ReconciliationsHandler struct {
	*Base
}

// NewReconciliationsHandler creates a new reconciliations handler.
func NewReconciliationsHandler(svc *service.BudgetService) *ReconciliationsHandler {
	return &ReconciliationsHandler{Base: NewBase(svc)}
}

// Create handles POST /api/reconciliations - opens a session over a run.
func (h *ReconciliationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconciliationRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.RunID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run_id is required"))
		return
	}

	view, err := h.svc.StartReconciliation(req.RunID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("run"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusCreated, toReconciliationResponse(view))
}

// Get handles GET /api/reconciliations/{sessionID}.
func (h *ReconciliationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetReconciliation(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("reconciliation session"))
		return
	}
	h.WriteJSON(w, http.StatusOK, toReconciliationResponse(view))
}

// EditVendor handles PUT /api/reconciliations/{sessionID}/vendors/{vendor} -
// locks one field of a vendor and derives the other.
func (h *ReconciliationsHandler) EditVendor(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	vendor := chi.URLParam(r, "vendor")

	var req dto.VendorEditRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	view, err := h.svc.AdjustVendor(sessionID, vendor, budget.Field(req.Field), req.Value)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	h.WriteJSON(w, http.StatusOK, toReconciliationResponse(view))
}

// ReleaseVendor handles DELETE /api/reconciliations/{sessionID}/vendors/{vendor} -
// reverts a vendor to automatic redistribution.
func (h *ReconciliationsHandler) ReleaseVendor(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	vendor := chi.URLParam(r, "vendor")

	view, err := h.svc.ReleaseVendor(sessionID, vendor)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("reconciliation session"))
		return
	}
	h.WriteJSON(w, http.StatusOK, toReconciliationResponse(view))
}

// Apply handles POST /api/reconciliations/{sessionID}/apply - reconciles
// and persists the final mapping. A mismatch refuses to commit and leaves
// the session editable.
func (h *ReconciliationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.svc.GetReconciliation(sessionID)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("reconciliation session"))
		return
	}

	final, err := h.svc.ApplyReconciliation(sessionID)
	if err != nil {
		h.WriteAllocationError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.ApplyResponse{
		RunID:   view.RunID,
		Vendors: final,
	})
}

func toReconciliationResponse(view *service.ReconciliationView) dto.ReconciliationResponse {
	return dto.ReconciliationResponse{
		SessionID: view.SessionID,
		RunID:     view.RunID,
		Total:     view.Total,
		Vendors:   view.Vendors,
	}
}
