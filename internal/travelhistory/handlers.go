// internal/travelhistory/handlers.go

package travelhistory

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/common/utils"
	"github.com/wandermate/wandermate-backend/internal/users"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetTravelHistory handles GET /api/v1/users/{id}/travel-history.
// Travel histories are visible to any authenticated user.
func (h *Handler) GetTravelHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	items, err := h.service.GetUnifiedTravelHistory(r.Context(), userID, nil)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			utils.ErrorResponse(w, "User not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to load travel history", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"items": items,
		"count": len(items),
	}, http.StatusOK)
}
