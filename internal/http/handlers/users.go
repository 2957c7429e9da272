package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voyage/server/internal/auth"
	"github.com/voyage/server/internal/middleware"
	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// UserHandler serves client registration, verification, login, and the
// admin-facing client management endpoints.
type UserHandler struct {
	authService *auth.Service
	clients     repo.ClientRepo
	ipLimiter   *middleware.RateLimiter
}

// NewUserHandler creates a UserHandler. The IP limiter guards the
// registration and login endpoints against burst abuse.
func NewUserHandler(authService *auth.Service, clients repo.ClientRepo) *UserHandler {
	return &UserHandler{
		authService: authService,
		clients:     clients,
		ipLimiter:   middleware.NewRateLimiter(10*time.Minute, 20),
	}
}

// clientResponse is a client record with secrets and OTP fields stripped.
type clientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Bio          *string   `json:"bio,omitempty"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	IsBlocked    bool      `json:"isBlocked"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toClientResponse(c model.Client) clientResponse {
	return clientResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Email:        c.Email,
		Bio:          c.Bio,
		ProfileImage: c.ProfileImage,
		IsBlocked:    c.IsBlocked,
		CreatedAt:    c.CreatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /api/users/register.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	if !h.ipLimiter.Allow(middleware.GetIPKey(r)) {
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	result, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyExists) {
			respondWithError(w, http.StatusBadRequest, "A verified user with this email already exists.")
			return
		}
		log.Printf("registration for %s failed: %v", maskEmail(req.Email), err)
		respondServerError(w, err)
		return
	}

	msg := "OTP sent to your email. Please verify to complete registration."
	if result.Resent {
		msg = "Account not verified. A new OTP has been sent."
	}
	respondJSON(w, http.StatusCreated, map[string]string{"msg": msg, "email": result.Email})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// HandleVerifyOTP handles POST /api/users/verify-otp.
func (h *UserHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Email == "" || req.OTP == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	if !h.ipLimiter.Allow(middleware.GetIPKey(r)) {
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	err := h.authService.VerifyRegistration(r.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrOTPNotFound):
			respondWithError(w, http.StatusBadRequest, "User not found. Please register again.")
		case errors.Is(err, auth.ErrOTPMismatch), errors.Is(err, auth.ErrOTPExpired):
			respondWithError(w, http.StatusBadRequest, "Invalid or expired OTP.")
		default:
			respondServerError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Email verified successfully! You can now log in."})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/users/login.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	if !h.ipLimiter.Allow(middleware.GetIPKey(r)) {
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondWithError(w, http.StatusBadRequest, "Invalid Credentials")
		case errors.Is(err, auth.ErrNotVerified):
			respondWithError(w, http.StatusUnauthorized, "Account not verified. Please check your email for the OTP.")
		case errors.Is(err, auth.ErrBlocked):
			respondWithError(w, http.StatusForbidden, "Your account has been blocked.")
		default:
			respondServerError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// HandleListAll handles GET /api/users/all (admin).
func (h *UserHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListAll(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	responses := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, toClientResponse(c))
	}
	respondJSON(w, http.StatusOK, responses)
}

// HandleToggleBlock handles POST /api/users/toggle-block/{id} (admin).
func (h *UserHandler) HandleToggleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	client, err := h.clients.ToggleBlocked(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toClientResponse(client))
}
