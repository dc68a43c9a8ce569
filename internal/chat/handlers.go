// internal/chat/handlers.go

package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
	"github.com/wandermate/wandermate-backend/internal/common/utils"
)

const defaultMessagePageSize = 50

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
	TempID  string `json:"tempId,omitempty"`
}

type DirectChatRequest struct {
	UserID string `json:"userId" validate:"required,uuid4"`
}

// SendMessage handles POST /api/v1/chats/{id}/messages — the HTTP
// fallback path when the socket is down. Same durable write, same
// fan-out.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["id"]

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.service.SendMessage(r.Context(), chatID, userID, req.Content, req.TempID, "http")
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	utils.SuccessResponse(w, message, http.StatusCreated)
}

// GetChat handles GET /api/v1/chats/{id}: chat, recent messages, and
// a read-marker side effect
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["id"]

	limit := defaultMessagePageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	chat, messages, err := h.service.GetChat(r.Context(), chatID, userID, limit, offset)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"chat":     chat,
		"messages": messages,
	}, http.StatusOK)
}

// CreateDirectChat handles POST /api/v1/chats/direct
func (h *Handler) CreateDirectChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req DirectChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	chat, err := h.service.FindOrCreateDirectChat(r.Context(), userID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrSelfChat) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(w, "Failed to open chat", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, chat, http.StatusOK)
}

// ListChats handles GET /api/v1/chats
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.service.ListChats(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, chats, http.StatusOK)
}

func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrChatNotFound):
		utils.ErrorResponse(w, "Chat not found", http.StatusNotFound)
	case errors.Is(err, ErrNotMember):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrEmptyMessage):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
