package middleware

import (
	"net/http"
	"strings"

	"github.com/campus-events/server/internal/config"
	"github.com/rs/zerolog"
)

// CORS lets the browser front end call the API from another origin.
// Requests without an Origin header pass through untouched; preflight
// requests are answered here with 204.
func CORS(cfg config.CORSConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.AllowAllOrigins || isOriginAllowed(origin, cfg.AllowedOrigins) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", "Accept", RequestIDHeader, UserIDHeader, UserRoleHeader}, ", "))
				h.Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
				h.Set("Access-Control-Max-Age", "86400")
			} else {
				logger.Warn().
					Str("origin", origin).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("CORS request rejected: origin not in whitelist")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// isOriginAllowed performs a case-insensitive exact match.
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	origin = strings.TrimSpace(origin)
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}
