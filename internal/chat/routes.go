// internal/chat/routes.go

package chat

import (
	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, hub *Hub, service Service, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/chats").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.ListChats).Methods("GET")
	api.HandleFunc("/direct", handler.CreateDirectChat).Methods("POST")
	api.HandleFunc("/{id}", handler.GetChat).Methods("GET")
	api.HandleFunc("/{id}/messages", handler.SendMessage).Methods("POST")

	ws := router.PathPrefix("/api/v1/ws").Subrouter()
	ws.Use(authMiddleware.Authenticate)
	ws.HandleFunc("", ServeWS(hub, service)).Methods("GET")
}
