package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voyage/server/internal/auth"
	"github.com/voyage/server/internal/middleware"
	"github.com/voyage/server/internal/repo"
)

// ProfileHandler serves the authenticated client's own profile.
type ProfileHandler struct {
	authService *auth.Service
	clients     repo.ClientRepo
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(authService *auth.Service, clients repo.ClientRepo) *ProfileHandler {
	return &ProfileHandler{authService: authService, clients: clients}
}

// HandleGet handles GET /api/profile.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	client, err := h.clients.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toClientResponse(client))
}

type updateProfileRequest struct {
	Name         *string `json:"name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profileImage"`
}

// HandleUpdate handles POST /api/profile/update.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := h.clients.UpdateProfile(r.Context(), claims.UserID, req.Name, req.Bio, req.ProfileImage)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toClientResponse(client))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleChangePassword handles POST /api/profile/change-password.
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	err := h.authService.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondWithError(w, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, auth.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Profile not found")
		default:
			respondServerError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Password updated successfully"})
}
