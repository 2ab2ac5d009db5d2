package auth

import "context"

// Caller is the identity supplied by the external identity provider. The
// core trusts it as given; no credential is checked here.
type Caller struct {
	ID   string
	Role Role
}

type contextKey string

const callerKey contextKey = "caller"

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the caller stored in ctx, or an anonymous caller.
func CallerFromContext(ctx context.Context) Caller {
	if ctx == nil {
		return Caller{}
	}
	if caller, ok := ctx.Value(callerKey).(Caller); ok {
		return caller
	}
	return Caller{}
}
