package middleware

import (
	"net/http"
	"strings"

	"github.com/campus-events/server/internal/auth"
)

// Headers set by the identity provider in front of the API. Their values
// are trusted as given.
const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

// Identity attaches the caller named by the identity headers to the request
// context. Requests without them proceed as anonymous and are refused by
// every mutating operation.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := auth.Caller{
			ID:   strings.TrimSpace(r.Header.Get(UserIDHeader)),
			Role: auth.NormalizeRole(r.Header.Get(UserRoleHeader)),
		}
		if caller.ID == "" {
			caller.Role = auth.RoleAnonymous
		}

		ctx := auth.WithCaller(r.Context(), caller)
		if caller.ID != "" {
			reqLogger := LoggerFromContext(ctx).With().
				Str("caller", caller.ID).
				Str("role", string(caller.Role)).
				Logger()
			ctx = reqLogger.WithContext(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
