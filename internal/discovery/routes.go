// internal/discovery/routes.go

package discovery

import (
	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/discovery").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/mates", handler.DiscoverMates).Methods("GET")
}
