package api

import (
	"net/http"
	"time"

	"github.com/campus-events/server/internal/api/handlers"
	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/config"
	"github.com/campus-events/server/internal/engine"
	"github.com/campus-events/server/internal/metrics"
	"github.com/rs/zerolog"
)

type handlerSet struct {
	events        *handlers.EventsHandler
	registrations *handlers.RegistrationsHandler
	feedback      *handlers.FeedbackHandler
	reference     *handlers.ReferenceHandler
	stats         *handlers.StatsHandler
	health        *handlers.HealthChecker
}

type route struct {
	pattern string
	handler func(*handlerSet) http.HandlerFunc
}

// routes lists every JSON API endpoint. Operational endpoints are mounted
// separately in NewRouter.
var routes = []route{
	{"GET /api/v1/events", func(h *handlerSet) http.HandlerFunc { return h.events.List }},
	{"POST /api/v1/events", func(h *handlerSet) http.HandlerFunc { return h.events.Create }},
	{"GET /api/v1/events/{id}", func(h *handlerSet) http.HandlerFunc { return h.events.Get }},
	{"POST /api/v1/events/{id}/advance", func(h *handlerSet) http.HandlerFunc { return h.events.Advance }},
	{"POST /api/v1/events/{id}/registrations", func(h *handlerSet) http.HandlerFunc { return h.registrations.Register }},
	{"DELETE /api/v1/events/{id}/registrations", func(h *handlerSet) http.HandlerFunc { return h.registrations.Cancel }},
	{"GET /api/v1/events/{id}/feedback", func(h *handlerSet) http.HandlerFunc { return h.feedback.List }},
	{"POST /api/v1/events/{id}/feedback", func(h *handlerSet) http.HandlerFunc { return h.feedback.Add }},
	{"GET /api/v1/students/{id}/registrations", func(h *handlerSet) http.HandlerFunc { return h.registrations.ForStudent }},
	{"GET /api/v1/venues", func(h *handlerSet) http.HandlerFunc { return h.reference.ListVenues }},
	{"GET /api/v1/venues/{id}", func(h *handlerSet) http.HandlerFunc { return h.reference.GetVenue }},
	{"GET /api/v1/branches", func(h *handlerSet) http.HandlerFunc { return h.reference.ListBranches }},
	{"GET /api/v1/branches/{id}", func(h *handlerSet) http.HandlerFunc { return h.reference.GetBranch }},
	{"GET /api/v1/stats", func(h *handlerSet) http.HandlerFunc { return h.stats.GetStats }},
}

// NewRouter mounts the API over eng and wraps it in the middleware chain.
func NewRouter(eng *engine.Engine, cfg config.Config, logger zerolog.Logger, info BuildInfo) http.Handler {
	env := cfg.Environment
	set := &handlerSet{
		events:        handlers.NewEventsHandler(eng.EventService, env),
		registrations: handlers.NewRegistrationsHandler(eng.Registrations, env),
		feedback:      handlers.NewFeedbackHandler(eng.Feedback, env),
		reference:     handlers.NewReferenceHandler(eng.Venues, eng.Branches, env),
		stats:         handlers.NewStatsHandler(eng.Stats, time.Now()),
		health:        handlers.NewHealthChecker(eng.Events, info.withDefaults().Version),
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.Handle(rt.pattern, rt.handler(set))
	}
	mux.HandleFunc("GET /healthz", set.health.Healthz)
	mux.HandleFunc("GET /readyz", set.health.Readyz)
	mux.Handle("GET /version", VersionHandler(info))
	mux.Handle("GET /api/v1/openapi.json", OpenAPIHandler())
	mux.Handle("GET /metrics", metrics.Handler())

	// Listed innermost first. The metrics middleware must wrap the mux
	// directly so r.Pattern is populated when it reads it.
	var handler http.Handler = metrics.HTTPMiddleware(mux)
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = middleware.Identity(handler)
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.SecurityHeaders(env == "production")(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(logger)(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	return handler
}
