package events

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/localpulse/localpulse-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public catalog
	api.HandleFunc("/events", handler.GetEvents).Methods("GET")
	api.HandleFunc("/events", handler.CreateEvent).Methods("POST")
	api.HandleFunc("/events/{id:[0-9]+}", handler.GetEvent).Methods("GET")

	// Subscriptions work anonymously but pick up the user when present
	api.Handle("/events/{id:[0-9]+}/subscribe",
		authMiddleware.OptionalAuthenticate(http.HandlerFunc(handler.Subscribe))).Methods("POST")

	// Favorites require a signed-in user
	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/events/favorites", handler.GetFavorites).Methods("GET")
	protected.HandleFunc("/events/{id:[0-9]+}/favorite", handler.ToggleFavorite).Methods("POST")
}
