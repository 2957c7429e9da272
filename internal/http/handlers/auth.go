package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/voyage/server/internal/auth"
)

// AuthHandler serves the administrator authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleAdminLogin handles POST /api/auth/login.
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter both username and password")
		return
	}

	token, err := h.authService.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondWithError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword handles POST /api/auth/forgot-password. The reset
// code lives on the admin record, not the shared OTP ledger.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter your email")
		return
	}

	err := h.authService.RequestAdminReset(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Admin account not found")
			return
		}
		log.Printf("forgot-password for %s failed: %v", maskEmail(req.Email), err)
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "A reset code has been sent to your email."})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// HandleResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	err := h.authService.ResetAdminPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrOTPMismatch) {
			respondWithError(w, http.StatusBadRequest, "Invalid or expired OTP.")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Password has been reset successfully. You can now log in."})
}
