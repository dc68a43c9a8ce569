// internal/places/routes.go

package places

import (
	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/places").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/search", handler.Search).Methods("GET")
}
