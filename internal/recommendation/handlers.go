package recommendation

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

// TrackInteractionDTO is the body of an explicit tracking call
type TrackInteractionDTO struct {
	Type string `json:"type" validate:"required,oneof=favorite ticket view"`
}

// GetRecommendations handles GET /events/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	recommendations := h.service.Recommend(r.Context(), userID, limit)

	utils.RespondWithList(w, http.StatusOK, len(recommendations), recommendations)
}

// TrackInteraction handles POST /events/{id}/track
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	eventID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}

	var dto TrackInteractionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Tracking is best-effort; a nil result means it was dropped, which is
	// still a success from the caller's point of view
	h.service.Track(r.Context(), userID, eventID, Kind(dto.Type))

	utils.RespondWithMessage(w, http.StatusAccepted, "Interaction recorded")
}

// GetSimilarUsers handles GET /users/similar
func (h *Handler) GetSimilarUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	peers := h.service.FindSimilarUsers(r.Context(), userID, limit)

	utils.RespondWithList(w, http.StatusOK, len(peers), peers)
}
