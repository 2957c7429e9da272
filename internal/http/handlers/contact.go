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

	"github.com/voyage/server/internal/mail"
	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// ContactHandler serves the public contact form and its admin inbox.
type ContactHandler struct {
	contacts repo.ContactRepo
	mailer   mail.Mailer
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(contacts repo.ContactRepo, mailer mail.Mailer) *ContactHandler {
	return &ContactHandler{contacts: contacts, mailer: mailer}
}

type contactResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Subject      string     `json:"subject"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	ResponseText *string    `json:"responseText,omitempty"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toContactResponse(c model.Contact) contactResponse {
	return contactResponse{
		ID:           c.ID.String(),
		Name:         c.Name,
		Email:        c.Email,
		Subject:      c.Subject,
		Message:      c.Message,
		Status:       c.Status,
		ResponseText: c.ResponseText,
		RespondedAt:  c.RespondedAt,
		CreatedAt:    c.CreatedAt,
	}
}

type addContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// HandleAdd handles POST /api/contact/add.
func (h *ContactHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	contact, err := h.contacts.Create(r.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"msg":     "Your message has been sent. We will get back to you soon!",
		"contact": toContactResponse(contact),
	})
}

// HandleList handles GET /api/contact (admin).
func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.ListAll(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	responses := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		responses = append(responses, toContactResponse(c))
	}
	respondJSON(w, http.StatusOK, responses)
}

type respondContactRequest struct {
	ResponseText string `json:"responseText"`
}

// HandleRespond handles POST /api/contact/respond/{id} (admin). The reply
// mail is best-effort: a send failure is logged and the response still
// commits so the inbox reflects what the admin wrote.
func (h *ContactHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	var req respondContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ResponseText = strings.TrimSpace(req.ResponseText)
	if req.ResponseText == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter a response")
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Contact message not found")
			return
		}
		respondServerError(w, err)
		return
	}

	if err := h.mailer.SendAdminResponse(contact.Email, contact.Name, contact.Subject, req.ResponseText); err != nil {
		log.Printf("contact response mail to %s failed: %v", maskEmail(contact.Email), err)
	}

	updated, err := h.contacts.MarkResponded(r.Context(), id, req.ResponseText)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Contact message not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"msg":     "Response sent successfully",
		"contact": toContactResponse(updated),
	})
}
