// internal/travelhistory/routes.go

package travelhistory

import (
	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/users").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/{id}/travel-history", handler.GetTravelHistory).Methods("GET")
}
