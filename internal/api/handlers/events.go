package handlers

import (
	"net/http"

	"github.com/campus-events/server/internal/api/pagination"
	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type listResponse struct {
	Items      []events.Event `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// List handles GET /api/v1/events?q=&branch=&status=&limit=&after=.
// Filtering is lazy, so only as many events as the page needs are examined.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters, err := events.ParseFilters(query)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	limit, err := pagination.ParseLimit(query.Get("limit"))
	if err != nil {
		problem.FromError(w, r, events.FilterError{Field: "limit", Message: err.Error()}, h.Env)
		return
	}
	var after string
	if raw := query.Get("after"); raw != "" {
		if after, err = pagination.DecodeCursor(raw); err != nil {
			problem.FromError(w, r, events.FilterError{Field: "after", Message: err.Error()}, h.Env)
			return
		}
	}

	seq := events.Filter(h.Service.Store(), filters)
	items, next, err := pagination.Page(seq, eventID, after, limit)
	if err != nil {
		problem.FromError(w, r, events.FilterError{Field: "after", Message: "cursor does not match the current results"}, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, NextCursor: next})
}

func eventID(ev events.Event) string { return ev.ID }

// Create handles POST /api/v1/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft events.Draft
	if err := decodeJSON(r, &draft); err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}

	ev, err := h.Service.Create(r.Context(), draft)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	w.Header().Set("Location", "/api/v1/events/"+ev.ID)
	writeJSON(w, http.StatusCreated, ev)
}

// Get handles GET /api/v1/events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Service.Store().Get(pathParam(r, "id"))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// Advance handles POST /api/v1/events/{id}/advance.
func (h *EventsHandler) Advance(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Service.Advance(r.Context(), pathParam(r, "id"))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
