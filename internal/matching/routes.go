// internal/matching/routes.go

package matching

import (
	"github.com/gorilla/mux"

	"github.com/wandermate/wandermate-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/batch", handler.GetMatchesBatch).Methods("POST")
	api.HandleFunc("/places", handler.RecommendPlaces).Methods("POST")
	api.HandleFunc("/{targetId}", handler.GetMatch).Methods("GET")
}
