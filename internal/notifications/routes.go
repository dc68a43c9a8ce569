// internal/notifications/routes.go

package notifications

import (
	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/notifications").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/tokens", handler.RegisterToken).Methods("POST")
	api.HandleFunc("/tokens", handler.DeleteToken).Methods("DELETE")
}
