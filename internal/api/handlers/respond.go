package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/events"
)

var errEmptyBody = events.ValidationError{Field: "body", Message: "request body is required"}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.PathValue(key))
}

// decodeJSON reads a single JSON object, rejecting unknown fields and
// trailing data. Oversized bodies surface as *http.MaxBytesError.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return events.ValidationError{Field: "body", Message: err.Error()}
	}
	if dec.More() {
		return events.ValidationError{Field: "body", Message: "unexpected data after JSON object"}
	}
	return nil
}

// writeDecodeError renders a body decoding failure, answering 413 for an
// oversized body.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		problem.Write(w, r, http.StatusRequestEntityTooLarge, problem.TypeBase+"payload_too_large", "Payload too large",
			err, env, problem.WithDetail(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
		return
	}
	problem.FromError(w, r, err, env)
}

// subjectOrCaller defaults an omitted student id to the caller.
func subjectOrCaller(r *http.Request, studentID string) string {
	if id := strings.TrimSpace(studentID); id != "" {
		return id
	}
	return auth.CallerFromContext(r.Context()).ID
}
