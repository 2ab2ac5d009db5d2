package handlers

import (
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/feedback"
)

type FeedbackHandler struct {
	Ledger *feedback.Ledger
	Env    string
}

func NewFeedbackHandler(ledger *feedback.Ledger, env string) *FeedbackHandler {
	return &FeedbackHandler{Ledger: ledger, Env: env}
}

type feedbackRequest struct {
	StudentID string `json:"studentId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// List handles GET /api/v1/events/{id}/feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.List(pathParam(r, "id"))
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Add handles POST /api/v1/events/{id}/feedback.
func (h *FeedbackHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, r, err, h.Env)
		return
	}

	fb, err := h.Ledger.AddFeedback(r.Context(), pathParam(r, "id"), subjectOrCaller(r, req.StudentID), req.Rating, req.Comment)
	if err != nil {
		problem.FromError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}
