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

	"github.com/voyage/server/internal/cache"
	"github.com/voyage/server/internal/model"
	"github.com/voyage/server/internal/repo"
)

// TeamHandler serves the public team listing and its admin management
// endpoints. The listing is served through the read-through cache.
type TeamHandler struct {
	team  repo.TeamRepo
	cache *cache.Store
}

// NewTeamHandler creates a TeamHandler.
func NewTeamHandler(team repo.TeamRepo, store *cache.Store) *TeamHandler {
	return &TeamHandler{team: team, cache: store}
}

type teamMemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTeamMemberResponse(m model.TeamMember) teamMemberResponse {
	return teamMemberResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Title:     m.Title,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
	}
}

// HandleList handles GET /api/teams. Cache hits are served verbatim; on a
// miss the database result is cached before responding. A cache read or
// write failure degrades to the database path rather than failing the
// request.
func (h *TeamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if body, hit, err := h.cache.Get(r.Context(), cache.KeyAllTeamMembers); err != nil {
		log.Printf("team cache read: %v", err)
	} else if hit {
		respondRaw(w, http.StatusOK, body)
		return
	}

	members, err := h.team.ListAll(r.Context())
	if err != nil {
		respondServerError(w, err)
		return
	}

	responses := make([]teamMemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, toTeamMemberResponse(m))
	}

	if body, err := json.Marshal(responses); err == nil {
		if err := h.cache.Set(r.Context(), cache.KeyAllTeamMembers, body); err != nil {
			log.Printf("team cache write: %v", err)
		}
	}
	respondJSON(w, http.StatusOK, responses)
}

func (h *TeamHandler) invalidate(r *http.Request) {
	if err := h.cache.Invalidate(r.Context(), cache.KeyAllTeamMembers); err != nil {
		log.Printf("team cache invalidate: %v", err)
	}
}

type addTeamMemberRequest struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// HandleAdd handles POST /api/teams/add (admin).
func (h *TeamHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Title = strings.TrimSpace(req.Title)
	if req.Name == "" || req.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Please enter all fields")
		return
	}

	member, err := h.team.Create(r.Context(), req.Name, req.Title, req.Image)
	if err != nil {
		respondServerError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, toTeamMemberResponse(member))
}

type updateTeamMemberRequest struct {
	Name  *string `json:"name"`
	Title *string `json:"title"`
	Image *string `json:"image"`
}

// HandleUpdate handles POST /api/teams/update/{id} (admin).
func (h *TeamHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid team member id")
		return
	}

	var req updateTeamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.team.Update(r.Context(), id, req.Name, req.Title, req.Image)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team member not found")
			return
		}
		respondServerError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, toTeamMemberResponse(member))
}

// HandleDelete handles DELETE /api/teams/{id} (admin).
func (h *TeamHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid team member id")
		return
	}

	if err := h.team.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Team member not found")
			return
		}
		respondServerError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]string{"msg": "Team member removed"})
}
