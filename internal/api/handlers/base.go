package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sorenh/brandbudget-backend/internal/api/dto"
	"github.com/sorenh/brandbudget-backend/internal/application/service"
	"github.com/sorenh/brandbudget-backend/internal/domain/budget"
)

// Base provides shared functionality for all handlers.
type Base struct {
	svc *service.BudgetService
}

// NewBase creates a new base handler with the given budget service.
func NewBase(svc *service.BudgetService) *Base {
	return &Base{svc: svc}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteAllocationError maps an engine error onto an HTTP response:
// allocation failures are client-side data problems (422), everything
// else is internal.
func (b *Base) WriteAllocationError(w http.ResponseWriter, err error) {
	var allocErr *budget.AllocationError
	if errors.As(err, &allocErr) {
		b.WriteJSON(w, http.StatusUnprocessableEntity, dto.FromAllocationError(allocErr))
		return
	}
	b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
}

// DecodeJSON decodes a request body into dst, reporting malformed input.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body"))
		return false
	}
	return true
}
