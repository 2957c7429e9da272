package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/voyage/server/internal/cache"
	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// TestimonialHandler serves the public testimonial wall.
type TestimonialHandler struct {
	testimonials repo.TestimonialRepo
	cache        *cache.Store
}

// NewTestimonialHandler creates a TestimonialHandler.
func NewTestimonialHandler(testimonials repo.TestimonialRepo, store *cache.Store) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials, cache: store}
}

type testimonialResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTestimonialResponse(t model.Testimonial) testimonialResponse {
	return testimonialResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Feedback:  t.Feedback,
		CreatedAt: t.CreatedAt,
	}
}

// HandleList handles GET /api/testimonials, served through the cache the
// same way as the team listing.
func (h *TestimonialHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if body, hit, err := h.cache.Get(r.Context(), cache.KeyAllTestimonials); err != nil {
		log.Printf("testimonial cache read: %v", err)
	} else if hit {
		respondRaw(w, http.StatusOK, body)
		return
	}

	testimonials, err := h.testimonials.ListAll(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	responses := make([]testimonialResponse, 0, len(testimonials))
	for _, t := range testimonials {
		responses = append(responses, toTestimonialResponse(t))
	}

	if body, err := json.Marshal(responses); err == nil {
		if err := h.cache.Set(r.Context(), cache.KeyAllTestimonials, body); err != nil {
			log.Printf("testimonial cache write: %v", err)
		}
	}
	respondJSON(w, http.StatusOK, responses)
}

type addTestimonialRequest struct {
	Name     string `json:"name"`
	Feedback string `json:"feedback"`
}

// HandleAdd handles POST /api/testimonials/add.
func (h *TestimonialHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Feedback = strings.TrimSpace(req.Feedback)
	if req.Name == "" || req.Feedback == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	testimonial, err := h.testimonials.Create(r.Context(), req.Name, req.Feedback)
	if err != nil {
		respondServerError(w, err)
		return
	}

	if err := h.cache.Invalidate(r.Context(), cache.KeyAllTestimonials); err != nil {
		log.Printf("testimonial cache invalidate: %v", err)
	}
	respondJSON(w, http.StatusCreated, toTestimonialResponse(testimonial))
}
