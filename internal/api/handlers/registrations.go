package handlers

import (
	"errors"
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/registrations"
)

type RegistrationsHandler struct {
	Manager *registrations.Manager
	Env     string
}

func NewRegistrationsHandler(manager *registrations.Manager, env string) *RegistrationsHandler {
	return &RegistrationsHandler{Manager: manager, Env: env}
}

type registrationRequest struct {
	StudentID string `json:"studentId"`
}

type registrationResponse struct {
	EventID    string `json:"eventId"`
	StudentID  string `json:"studentId"`
	Registered int    `json:"registered"`
	SpotsLeft  int    `json:"spotsLeft"`
}

// readSubject reads an optional body naming the student. An empty body
// means the caller acts for themself.
func (h *RegistrationsHandler) readSubject(r *http.Request) (string, error) {
	var req registrationRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			return "", err
		}
	}
	return subjectOrCaller(r, req.StudentID), nil
}

// Register handles POST /api/v1/events/{id}/registrations.
func (h *RegistrationsHandler) Register(w http.ResponseWriter, r *http.Request) {
	studentID, err := h.readSubject(r)
	if err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}
	ev, err := h.Manager.Register(r.Context(), pathParam(r, "id"), studentID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, summarize(ev, studentID))
}

// Cancel handles DELETE /api/v1/events/{id}/registrations. The student may
// also be named with ?studentId= since DELETE bodies are often dropped by
// intermediaries.
func (h *RegistrationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("studentId")
	if studentID == "" {
		var err error
		if studentID, err = h.readSubject(r); err != nil {
			writeDecodeError(w, r, err, h.Env)
			return
		}
	}
	ev, err := h.Manager.Cancel(r.Context(), pathParam(r, "id"), studentID)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, summarize(ev, studentID))
}

// ForStudent handles GET /api/v1/students/{id}/registrations.
func (h *RegistrationsHandler) ForStudent(w http.ResponseWriter, r *http.Request) {
	evs := h.Manager.ListForStudent(pathParam(r, "id"))
	if evs == nil {
		evs = []events.Event{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: evs})
}

func summarize(ev events.Event, studentID string) registrationResponse {
	return registrationResponse{
		EventID:    ev.ID,
		StudentID:  studentID,
		Registered: len(ev.RegisteredStudents),
		SpotsLeft:  ev.SpotsLeft(),
	}
}
