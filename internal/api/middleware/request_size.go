package middleware

import (
	"net/http"
)

// DefaultMaxBodySize bounds JSON request bodies. Event drafts and feedback
// are small; 64KB leaves ample room for a long description.
const DefaultMaxBodySize int64 = 64 << 10

// RequestSize wraps the body with http.MaxBytesReader. Handlers see a read
// error once maxBytes is exceeded and answer 413.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
