package events

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/localpulse/localpulse-backend/internal/auth"
	"github.com/localpulse/localpulse-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// listResponse extends the standard envelope with the cache source,
// so clients can tell cache hits from database reads.
type listResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Data    []*Event `json:"data"`
	Source  string   `json:"source"`
}

// GetEvents handles GET /events
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := ListFilters{
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Date:     query.Get("date"),
	}

	events, fromCache, err := h.service.GetEvents(r.Context(), filters)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	source := "database"
	if fromCache {
		source = "cache"
	}
	if events == nil {
		events = []*Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, listResponse{
		Success: true,
		Count:   len(events),
		Data:    events,
		Source:  source,
	})
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	event, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		if err == ErrEventNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch event")
		return
	}

	utils.RespondWithData(w, http.StatusOK, event)
}

// CreateEvent handles POST /events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto CreateEventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.service.CreateEvent(r.Context(), &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, event)
}

// GetFavorites handles GET /events/favorites
func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	favorites, err := h.service.GetFavorites(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch favorites")
		return
	}
	if favorites == nil {
		favorites = []*Event{}
	}

	utils.RespondWithList(w, http.StatusOK, len(favorites), favorites)
}

// ToggleFavorite handles POST /events/{id}/favorite
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleFavorite(r.Context(), userID, eventID)
	if err != nil {
		if err == ErrEventNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}

	message := "Removed from favorites"
	if result.IsFavorite {
		message = "Added to favorites"
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// Subscribe handles POST /events/{id}/subscribe
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseEventID(w, r)
	if !ok {
		return
	}

	var dto SubscribeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Subscribing works anonymously; a signed-in user additionally
	// feeds the recommender
	var userID *int64
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	redirectURL, err := h.service.Subscribe(r.Context(), eventID, &dto, userID)
	if err != nil {
		if err == ErrEventNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Successfully subscribed",
		"redirect_url": redirectURL,
	})
}

func parseEventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	eventID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return 0, false
	}
	return eventID, true
}
