// internal/profile/handlers.go

package profile

import (
	"errors"
	"net/http"

	"github.com/imadgeboyega/xoxo-backend/internal/auth"
	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
)

const maxUploadSize = 10 << 20

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateProfile handles POST /profiles
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateProfileRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to create profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// GetMyProfile handles GET /profiles/me
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	p, err := h.service.GetMine(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found. Use PUT /api/v1/profiles/me to create one.")
			return
		}
		utils.RespondWithServiceError(w, err, "Failed to get profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

// UpdateMyProfile handles PUT /profiles/me
func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Upsert(r.Context(), userID, &req)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to update profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

// UploadPhoto handles multipart POST /profiles/me/photos
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	p, err := h.service.UploadPhoto(r.Context(), userID, &PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to upload photo")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, p)
}

// Discover handles GET /profiles/discover
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	profiles, err := h.service.Discover(r.Context(), userID)
	if err != nil {
		utils.RespondWithServiceError(w, err, "Failed to discover profiles")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profiles)
}
