package events

import (
	"context"
	"fmt"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/metrics"
	"github.com/campus-events/server/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Service applies authorization, auditing and instrumentation to event
// creation and status changes. Reads go straight to the Store.
type Service struct {
	store  *Store
	logger zerolog.Logger
	audit  *audit.Logger
	tracer trace.Tracer
}

func NewService(store *Store, logger zerolog.Logger, auditLogger *audit.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "events").Logger(),
		audit:  auditLogger,
		tracer: telemetry.GetTracer("campus-events/events"),
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// Create adds a new event on behalf of the caller in ctx. Hosts that omit
// the organizer are recorded as organizing it themselves.
func (s *Service) Create(ctx context.Context, draft Draft) (ev Event, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "events.Create", "")
	defer func() {
		metrics.EventOperations.WithLabelValues("create", Kind(err)).Inc()
		s.audit.Record(ctx, auth.OpCreateEvent, "event", ev.ID, err, map[string]string{"name": draft.Name})
		telemetry.EndSpan(span, err)
	}()

	caller := auth.CallerFromContext(ctx)
	if err = auth.Authorize(caller.Role, auth.OpCreateEvent); err != nil {
		return Event{}, err
	}
	if draft.Organizer == "" {
		draft.Organizer = caller.ID
	}

	ev, err = s.store.Add(draft)
	if err != nil {
		s.logger.Debug().Err(err).Str("actor", caller.ID).Msg("event rejected")
		return Event{}, err
	}
	s.logger.Info().Str("event_id", ev.ID).Str("actor", caller.ID).Msg("event created")
	return ev, nil
}

// Advance moves an event to the next status. Completed events cannot advance.
func (s *Service) Advance(ctx context.Context, eventID string) (ev Event, err error) {
	ctx, span := telemetry.StartSpan(ctx, s.tracer, "events.Advance", eventID)
	var from Status
	defer func() {
		metrics.EventOperations.WithLabelValues("advance", Kind(err)).Inc()
		s.audit.Record(ctx, auth.OpAdvanceEvent, "event", eventID, err, map[string]string{"from": string(from), "to": string(ev.Status)})
		telemetry.EndSpan(span, err)
	}()

	caller := auth.CallerFromContext(ctx)
	if err = auth.Authorize(caller.Role, auth.OpAdvanceEvent); err != nil {
		return Event{}, err
	}

	ev, err = s.store.Update(eventID, func(cur Event, m *Mutable) error {
		next, ok := cur.Status.Next()
		if !ok {
			return fmt.Errorf("%w: event %s is already %s", ErrInvalidState, cur.ID, cur.Status)
		}
		from = cur.Status
		m.Status = next
		return nil
	})
	if err != nil {
		return Event{}, err
	}
	s.logger.Info().Str("event_id", ev.ID).Str("from", string(from)).Str("to", string(ev.Status)).Msg("event advanced")
	return ev, nil
}
