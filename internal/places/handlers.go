// internal/places/handlers.go

package places

import (
	"errors"
	"net/http"

	"github.com/wandermate/wandermate-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Search handles GET /api/v1/places/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuery):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrSearchInProgress):
			utils.ErrorResponse(w, err.Error(), http.StatusTooManyRequests)
		default:
			utils.ErrorResponse(w, "Places search failed", http.StatusBadGateway)
		}
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}
