package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voyage/server/internal/mail"
	"github.com/voyage/server/internal/middleware"
	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// RequestHandler serves booking requests.
type RequestHandler struct {
	requests repo.RequestRepo
	clients  repo.ClientRepo
	mailer   mail.Mailer
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(requests repo.RequestRepo, clients repo.ClientRepo, mailer mail.Mailer) *RequestHandler {
	return &RequestHandler{requests: requests, clients: clients, mailer: mailer}
}

type requestResponse struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"clientId"`
	ClientName      string    `json:"clientName"`
	ClientEmail     string    `json:"clientEmail"`
	ClientPhone     string    `json:"clientPhone"`
	PackageName     string    `json:"packageName"`
	TravelDate      time.Time `json:"date"`
	Guests          int       `json:"guests"`
	SpecialRequests *string   `json:"requests,omitempty"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	TransactionID   string    `json:"transactionId"`
	TotalAmount     float64   `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toRequestResponse(q model.Request) requestResponse {
	return requestResponse{
		ID:              q.ID.String(),
		ClientID:        q.ClientID.String(),
		ClientName:      q.ClientName,
		ClientEmail:     q.ClientEmail,
		ClientPhone:     q.ClientPhone,
		PackageName:     q.PackageName,
		TravelDate:      q.TravelDate,
		Guests:          q.Guests,
		SpecialRequests: q.SpecialRequests,
		Status:          q.Status,
		PaymentStatus:   q.PaymentStatus,
		TransactionID:   q.TransactionID,
		TotalAmount:     q.TotalAmount,
		CreatedAt:       q.CreatedAt,
	}
}

type addRequestRequest struct {
	ClientName      string    `json:"clientName"`
	ClientEmail     string    `json:"clientEmail"`
	ClientPhone     string    `json:"clientPhone"`
	PackageName     string    `json:"packageName"`
	TravelDate      time.Time `json:"date"`
	Guests          int       `json:"guests"`
	SpecialRequests *string   `json:"requests"`
	TransactionID   string    `json:"transactionId"`
	TotalAmount     float64   `json:"totalAmount"`
}

// HandleAdd handles POST /api/requests/add. The confirmation mail is
// best-effort: a send failure is logged and the booking still commits.
func (h *RequestHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	var req addRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientName == "" || req.ClientEmail == "" || req.ClientPhone == "" ||
		req.PackageName == "" || req.TransactionID == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}
	if req.Guests < 1 {
		respondWithError(w, http.StatusBadRequest, "At least one guest is required")
		return
	}

	booking, err := h.requests.Create(r.Context(), repo.NewRequest{
		ClientID:        claims.UserID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		PackageName:     req.PackageName,
		TravelDate:      req.TravelDate,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
		TransactionID:   req.TransactionID,
		TotalAmount:     req.TotalAmount,
	})
	if err != nil {
		respondServerError(w, err)
		return
	}

	if client, err := h.clients.GetByID(r.Context(), claims.UserID); err == nil {
		if err := h.mailer.SendBookingConfirmation(client.Email, booking); err != nil {
			log.Printf("booking confirmation mail to %s failed: %v", maskEmail(client.Email), err)
		}
	}

	respondJSON(w, http.StatusOK, toRequestResponse(booking))
}

// HandleList handles GET /api/requests (admin).
func (h *RequestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListAll(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	responses := make([]requestResponse, 0, len(requests))
	for _, q := range requests {
		responses = append(responses, toRequestResponse(q))
	}
	respondJSON(w, http.StatusOK, responses)
}

// HandleDelete handles DELETE /api/requests/{id} (admin).
func (h *RequestHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.requests.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Request not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Request removed"})
}
