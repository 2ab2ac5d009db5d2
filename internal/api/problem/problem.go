package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/campus-events/server/internal/domain/branches"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/venues"
	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// TypeBase prefixes every problem type URI.
const TypeBase = "https://campus-events.dev/problems/"

type ProblemDetails struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Kind     string         `json:"kind,omitempty"`
	Errors   map[string]any `json:"errors,omitempty"`
}

type Option func(*ProblemDetails)

func WithDetail(detail string) Option {
	return func(p *ProblemDetails) {
		p.Detail = detail
	}
}

func WithKind(kind string) Option {
	return func(p *ProblemDetails) {
		p.Kind = kind
	}
}

func WithErrors(errs map[string]any) Option {
	return func(p *ProblemDetails) {
		p.Errors = errs
	}
}

// Write renders an RFC 7807 response. Outside development and test the
// detail falls back to the status text so internals are not leaked.
func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	problem := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}
	for _, opt := range opts {
		opt(&problem)
	}

	if problem.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			problem.Detail = err.Error()
		} else {
			problem.Detail = http.StatusText(status)
		}
	}
	if problem.Instance == "" && r != nil {
		problem.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteProblem(w, problem)
}

func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	payload, err := json.Marshal(problem)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(problem.Status)
	_, _ = w.Write(payload)
}

type mapping struct {
	status int
	title  string
}

var kinds = map[string]mapping{
	events.KindNotFound:          {http.StatusNotFound, "Not found"},
	events.KindValidation:        {http.StatusBadRequest, "Invalid request"},
	events.KindInvalidRating:     {http.StatusBadRequest, "Invalid rating"},
	events.KindInvalidState:      {http.StatusConflict, "Event is not in a valid state"},
	events.KindAlreadyRegistered: {http.StatusConflict, "Already registered"},
	events.KindNotRegistered:     {http.StatusConflict, "Not registered"},
	events.KindCapacityExceeded:  {http.StatusConflict, "Event is full"},
	events.KindForbidden:         {http.StatusForbidden, "Forbidden"},
	events.KindCorrupted:         {http.StatusInternalServerError, "Internal server error"},
	events.KindInternal:          {http.StatusInternalServerError, "Internal server error"},
}

// KindOf extends events.Kind with the lookup errors of the reference
// stores and filter parsing.
func KindOf(err error) string {
	var filterErr events.FilterError
	switch {
	case errors.Is(err, venues.ErrNotFound), errors.Is(err, branches.ErrNotFound):
		return events.KindNotFound
	case errors.As(err, &filterErr):
		return events.KindValidation
	default:
		return events.Kind(err)
	}
}

// StatusFor returns the HTTP status a failure kind is rendered with.
func StatusFor(kind string) int {
	if m, ok := kinds[kind]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// FromError renders a core error. Field-level validation failures carry
// the offending field under errors.
func FromError(w http.ResponseWriter, r *http.Request, err error, env string) {
	kind := KindOf(err)
	m, ok := kinds[kind]
	if !ok {
		m = kinds[events.KindInternal]
	}

	opts := []Option{WithKind(kind)}
	var validationErr events.ValidationError
	var filterErr events.FilterError
	switch {
	case errors.As(err, &validationErr) && validationErr.Field != "":
		opts = append(opts, WithErrors(map[string]any{validationErr.Field: validationErr.Message}))
	case errors.As(err, &filterErr) && filterErr.Field != "":
		opts = append(opts, WithErrors(map[string]any{filterErr.Field: filterErr.Message}))
	}
	// Business outcomes are safe and useful to show in every environment.
	if m.status < 500 {
		opts = append(opts, WithDetail(err.Error()))
	}

	Write(w, r, m.status, TypeBase+kind, m.title, err, env, opts...)
}
