// internal/notifications/handlers.go

package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/wandermate/wandermate-backend/internal/auth"
	"github.com/wandermate/wandermate-backend/internal/common/utils"
)

type Handler struct {
	tokens TokenRepository
}

func NewHandler(tokens TokenRepository) *Handler {
	return &Handler{tokens: tokens}
}

type RegisterTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// RegisterToken handles POST /api/v1/notifications/tokens
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.tokens.SaveToken(r.Context(), userID, req.Token, req.Platform); err != nil {
		utils.ErrorResponse(w, "Failed to register device token", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Device token registered", http.StatusCreated)
}

type DeleteTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// DeleteToken handles DELETE /api/v1/notifications/tokens
func (h *Handler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req DeleteTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.tokens.DeleteToken(r.Context(), userID, req.Token); err != nil {
		utils.ErrorResponse(w, "Failed to remove device token", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Device token removed", http.StatusOK)
}
