package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func TestHTTPMiddleware_LabelsByRoutePattern(t *testing.T) {
	handler := HTTPMiddleware(eventsMux())
	const route = "GET /api/v1/events/{id}"

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, route, "404"))

	for _, id := range []string{"event1", "event2", "event3"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, route, "404"))
	assert.Equal(t, 3.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsInFlight))
	assert.Positive(t, testutil.CollectAndCount(HTTPRequestDuration, "campus_events_http_request_duration_seconds"))
}

func TestHTTPMiddleware_UnmatchedPathsShareOneLabel(t *testing.T) {
	handler := HTTPMiddleware(eventsMux())

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	for _, path := range []string{"/wp-admin", "/api/v1/nope/1", "/api/v1/nope/2"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))-before)
}

func TestHTTPMiddleware_ImplicitOK(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200"))-before)
}
