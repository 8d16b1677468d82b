// internal/dating/handlers.go

package dating

import (
	"net/http"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
)

// Handler handles swipe and match requests
type Handler struct {
	service Service
}

// NewHandler creates a new dating handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Swipe handles POST /swipe
func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SwipeRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.RecordSwipe(r.Context(), userID, req.SwipedID, *req.IsLike)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to record swipe")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, newSwipeResponse(result))
}

// GetMatches handles GET /swipe/matches
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	matches, err := h.service.GetMatches(r.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to get matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}
