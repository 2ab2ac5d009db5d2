package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-events/server/internal/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		id   string
		role string
		want auth.Caller
	}{
		{"student", "student1", "student", auth.Caller{ID: "student1", Role: auth.RoleStudent}},
		{"role is case-insensitive", "admin1", " ADMIN ", auth.Caller{ID: "admin1", Role: auth.RoleAdmin}},
		{"unknown role", "x", "dean", auth.Caller{ID: "x", Role: auth.RoleAnonymous}},
		{"role without id", "", "admin", auth.Caller{}},
		{"no headers", "", "", auth.Caller{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got auth.Caller
			handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.CallerFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
			if tt.id != "" {
				req.Header.Set(UserIDHeader, tt.id)
			}
			if tt.role != "" {
				req.Header.Set(UserRoleHeader, tt.role)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var seen string
	handler := CorrelationID(logger)(Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		LoggerFromContext(r.Context()).Info().Msg("inside")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	req.Header.Set(UserIDHeader, "student1")
	req.Header.Set(UserRoleHeader, "student")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-abc", seen)
	assert.Equal(t, "req-abc", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-abc"`)
	assert.Contains(t, buf.String(), `"caller":"student1"`)
}

func TestCorrelationID_GeneratesWhenMissingOrOversized(t *testing.T) {
	handler := CorrelationID(zerolog.Nop())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	require.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, string(bytes.Repeat([]byte("a"), maxRequestIDLength+1)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := CorrelationID(logger)(RequestLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/events/event1/registrations", nil))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"status":409`)
}
