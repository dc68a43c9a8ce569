// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
	"github.com/wandermate/wandermate-backend/internal/common/utils"
	"github.com/wandermate/wandermate-backend/internal/users"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BatchMatchRequest asks for scores against a set of users
type BatchMatchRequest struct {
	TargetIDs []string `json:"targetIds" validate:"required,min=1,max=100,dive,uuid4"`
	Mode      string   `json:"mode" validate:"omitempty,oneof=current travel"`
}

func parseMode(raw string) Mode {
	if raw == string(ModeTravel) {
		return ModeTravel
	}
	return ModeCurrent
}

// GetMatch handles GET /api/v1/matches/{targetId}
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID := mux.Vars(r)["targetId"]
	mode := parseMode(r.URL.Query().Get("mode"))

	result, err := h.service.GetMatch(r.Context(), userID, targetID, mode)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotMatchSelf):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, users.ErrUserNotFound):
			utils.ErrorResponse(w, "User not found", http.StatusNotFound)
		default:
			utils.ErrorResponse(w, "Failed to calculate match", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"match":      result,
		"confidence": Confidence(result.Score),
	}, http.StatusOK)
}

// PlaceRecommendationRequest scores a set of candidate places for the
// logged-in user
type PlaceRecommendationRequest struct {
	Places   []PlaceForMatching `json:"places" validate:"required,min=1,max=200"`
	Mood     string             `json:"mood" validate:"omitempty,oneof=hungry work social chill"`
	MinScore int                `json:"minScore" validate:"omitempty,min=0,max=100"`
	Limit    int                `json:"limit" validate:"omitempty,min=1,max=100"`
}

// RecommendPlaces handles POST /api/v1/matches/places
func (h *Handler) RecommendPlaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req PlaceRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	scored, err := h.service.ScorePlaces(r.Context(), userID, req.Places, Mood(req.Mood), req.MinScore, req.Limit)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			utils.ErrorResponse(w, "User not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to score places", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, scored, http.StatusOK)
}

// GetMatchesBatch handles POST /api/v1/matches/batch
func (h *Handler) GetMatchesBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req BatchMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	scored, err := h.service.GetMatchesBatch(r.Context(), userID, req.TargetIDs, parseMode(req.Mode))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			utils.ErrorResponse(w, "User not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to calculate matches", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, scored, http.StatusOK)
}
