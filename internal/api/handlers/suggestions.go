package handlers

import (
	"net/http"

	"github.com/sorenh/brandbudget-backend/internal/api/dto"
	"github.com/sorenh/brandbudget-backend/internal/application/service"
)

// SuggestionsHandler handles brand suggestion requests.
type SuggestionsHandler struct {
	*Base
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(svc *service.BudgetService) *SuggestionsHandler {
	return &SuggestionsHandler{Base: NewBase(svc)}
}

// Create handles POST /api/suggestions - splits a total budget over brands
// proportionally to their historical budget totals.
func (h *SuggestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SuggestionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if req.Total.IsNegative() {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("total cannot be negative"))
		return
	}

	suggestions, err := h.svc.SuggestBrands(req.Total)
	if err != nil {
		h.WriteAllocationError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.SuggestionResponse{
		Total:       req.Total,
		Suggestions: suggestions,
	})
}
