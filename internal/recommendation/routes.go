package recommendation

import (
	"github.com/gorilla/mux"
	"github.com/localpulse/localpulse-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/events/recommendations", handler.GetRecommendations).Methods("GET")
	api.HandleFunc("/events/{id:[0-9]+}/track", handler.TrackInteraction).Methods("POST")
	api.HandleFunc("/users/similar", handler.GetSimilarUsers).Methods("GET")
}
