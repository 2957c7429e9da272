package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// PackageHandler serves the travel package catalog.
type PackageHandler struct {
	packages repo.PackageRepo
}

// NewPackageHandler creates a PackageHandler.
func NewPackageHandler(packages repo.PackageRepo) *PackageHandler {
	return &PackageHandler{packages: packages}
}

type packageResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Duration    string    `json:"duration"`
	Rating      float64   `json:"rating"`
	Image       string    `json:"image"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Highlights  []string  `json:"highlights"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toPackageResponse(p model.Package) packageResponse {
	return packageResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Location:    p.Location,
		Price:       p.Price,
		Duration:    p.Duration,
		Rating:      p.Rating,
		Image:       p.Image,
		Type:        p.Type,
		Description: p.Description,
		Highlights:  p.Highlights,
		CreatedAt:   p.CreatedAt,
	}
}

// HandleList handles GET /api/packages.
func (h *PackageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.ListAll(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	responses := make([]packageResponse, 0, len(packages))
	for _, p := range packages {
		responses = append(responses, toPackageResponse(p))
	}
	respondJSON(w, http.StatusOK, responses)
}

type addPackageRequest struct {
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Duration    string   `json:"duration"`
	Rating      float64  `json:"rating"`
	Image       string   `json:"image"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

// HandleAdd handles POST /api/packages/add (admin).
func (h *PackageHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Location == "" || req.Duration == "" || req.Type == "" || req.Description == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		respondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}

	pkg, err := h.packages.Create(r.Context(), model.Package{
		Title:       req.Title,
		Location:    req.Location,
		Price:       req.Price,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Image:       req.Image,
		Type:        req.Type,
		Description: req.Description,
		Highlights:  req.Highlights,
	})
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toPackageResponse(pkg))
}

type updatePackageRequest struct {
	Title       *string  `json:"title"`
	Location    *string  `json:"location"`
	Price       *float64 `json:"price"`
	Duration    *string  `json:"duration"`
	Rating      *float64 `json:"rating"`
	Image       *string  `json:"image"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	Highlights  []string `json:"highlights"`
}

// HandleUpdate handles POST /api/packages/update/{id} (admin).
func (h *PackageHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid package id")
		return
	}

	var req updatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pkg, err := h.packages.Update(r.Context(), id, repo.PackageUpdate{
		Title:       req.Title,
		Location:    req.Location,
		Price:       req.Price,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Image:       req.Image,
		Type:        req.Type,
		Description: req.Description,
		Highlights:  req.Highlights,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Package not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toPackageResponse(pkg))
}

// HandleDelete handles DELETE /api/packages/{id} (admin).
func (h *PackageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid package id")
		return
	}

	if err := h.packages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Package not found")
			return
		}
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"msg": "Package removed"})
}
