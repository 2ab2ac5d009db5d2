package handlers

import (
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/branches"
	"github.com/campus-events/server/internal/domain/venues"
)

// ReferenceHandler serves the static venue and branch lookups.
type ReferenceHandler struct {
	Venues   *venues.Store
	Branches *branches.Store
	Env      string
}

func NewReferenceHandler(vs *venues.Store, bs *branches.Store, env string) *ReferenceHandler {
	return &ReferenceHandler{Venues: vs, Branches: bs, Env: env}
}

func (h *ReferenceHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": h.Venues.List()})
}

func (h *ReferenceHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	v, err := h.Venues.Get(pathParam(r, "id"))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *ReferenceHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": h.Branches.List()})
}

func (h *ReferenceHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.Branches.Get(pathParam(r, "id"))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
