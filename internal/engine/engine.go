// Package engine wires the event, venue, branch, registration and feedback
// components into one explicitly constructed unit.
package engine

import (
	"fmt"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/domain/branches"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/feedback"
	"github.com/campus-events/server/internal/domain/registrations"
	"github.com/campus-events/server/internal/domain/venues"
	"github.com/campus-events/server/internal/seed"
	"github.com/rs/zerolog"
)

type Engine struct {
	Events        *events.Store
	EventService  *events.Service
	Registrations *registrations.Manager
	Feedback      *feedback.Ledger
	Venues        *venues.Store
	Branches      *branches.Store
}

type options struct {
	feedback []feedback.Option
}

type Option func(*options)

func WithFeedbackOptions(opts ...feedback.Option) Option {
	return func(o *options) { o.feedback = append(o.feedback, opts...) }
}

// New builds an engine holding the given dataset.
func New(ds *seed.Dataset, logger zerolog.Logger, auditLogger *audit.Logger, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	branchStore, err := branches.NewStore(ds.DomainBranches())
	if err != nil {
		return nil, fmt.Errorf("loading branches: %w", err)
	}
	venueStore, err := venues.NewStore(ds.DomainVenues())
	if err != nil {
		return nil, fmt.Errorf("loading venues: %w", err)
	}

	eventStore := events.NewStore(
		events.WithVenues(venueStore),
		events.WithBranches(branchStore),
		events.WithLogger(logger),
	)
	for _, ev := range ds.DomainEvents() {
		if err := eventStore.Insert(ev); err != nil {
			return nil, fmt.Errorf("loading event %s: %w", ev.ID, err)
		}
	}
	venueStore.Attach(eventStore)

	logger.Info().
		Int("branches", len(ds.Branches)).
		Int("venues", venueStore.Len()).
		Int("events", eventStore.Len()).
		Msg("dataset loaded")

	return &Engine{
		Events:        eventStore,
		EventService:  events.NewService(eventStore, logger, auditLogger),
		Registrations: registrations.NewManager(eventStore, logger, auditLogger),
		Feedback:      feedback.NewLedger(eventStore, logger, auditLogger, o.feedback...),
		Venues:        venueStore,
		Branches:      branchStore,
	}, nil
}

// Stats summarizes the current state for the dashboard.
func (e *Engine) Stats() events.Stats {
	return events.ComputeStats(e.Events, e.Venues.Len())
}

// Snapshot captures the live state as a dataset.
func (e *Engine) Snapshot() *seed.Dataset {
	return seed.FromDomain(e.Branches.List(), e.Venues.List(), e.Events.List())
}
