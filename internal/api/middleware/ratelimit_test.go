package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/config"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{MutationsPerMinute: 3})(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/event1/registrations", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/event1/registrations", nil)
	req.RemoteAddr = "192.168.1.100:12345"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.Equal(t, "20", res.Header().Get("Retry-After"))
}

func TestRateLimit_ReadsAreNotLimited(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{MutationsPerMinute: 1})(okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestRateLimit_PerCallerIsolation(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{MutationsPerMinute: 1})(okHandler())

	send := func(callerID string) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/event1/registrations", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req = req.WithContext(auth.WithCaller(req.Context(), auth.Caller{ID: callerID, Role: auth.RoleStudent}))
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	assert.Equal(t, http.StatusOK, send("student1"))
	assert.Equal(t, http.StatusTooManyRequests, send("student1"))
	assert.Equal(t, http.StatusOK, send("student2"))
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := RateLimit(config.RateLimitConfig{MutationsPerMinute: 0})(okHandler())

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestClientKey(t *testing.T) {
	trusted := []string{"10.0.0.0/8"}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.1.2.3")
	assert.Equal(t, "203.0.113.7", clientKey(req, trusted))

	req.RemoteAddr = "198.51.100.9:4000"
	assert.Equal(t, "198.51.100.9", clientKey(req, trusted), "untrusted peers cannot spoof")

	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	assert.Equal(t, "203.0.113.8", clientKey(req, trusted))

	assert.Equal(t, "10.1.2.3", clientKey(req, nil))
}
