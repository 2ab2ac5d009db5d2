package registrations

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/metrics"
	"github.com/campus-events/server/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Manager registers and cancels students on events. Every change is a
// compare-and-replace on the event's snapshot, so the capacity check and
// the append are one atomic step per event.
type Manager struct {
	store  *events.Store
	logger zerolog.Logger
	audit  *audit.Logger
	tracer trace.Tracer
}

func NewManager(store *events.Store, logger zerolog.Logger, auditLogger *audit.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.With().Str("component", "registrations").Logger(),
		audit:  auditLogger,
		tracer: telemetry.GetTracer("campus-events/registrations"),
	}
}

// Register adds studentID to the event. Failures, in order of precedence:
// ErrNotFound, ErrInvalidState (event not upcoming), ErrAlreadyRegistered,
// ErrCapacityExceeded.
func (m *Manager) Register(ctx context.Context, eventID, studentID string) (ev events.Event, err error) {
	ctx, span := telemetry.StartSpan(ctx, m.tracer, "registrations.Register", eventID)
	defer func() {
		m.record(ctx, auth.OpRegister, "register", eventID, studentID, err)
		telemetry.EndSpan(span, err)
	}()

	studentID = strings.TrimSpace(studentID)
	if err = m.authorize(ctx, auth.OpRegister, studentID); err != nil {
		return events.Event{}, err
	}

	return m.store.Update(eventID, func(cur events.Event, mu *events.Mutable) error {
		if cur.Status != events.StatusUpcoming {
			return fmt.Errorf("%w: event %s is %s", events.ErrInvalidState, cur.ID, cur.Status)
		}
		if cur.IsRegistered(studentID) {
			return fmt.Errorf("%w: %s on %s", events.ErrAlreadyRegistered, studentID, cur.ID)
		}
		if cur.IsFull() {
			return fmt.Errorf("%w: %s has %d of %d places taken", events.ErrCapacityExceeded, cur.ID, len(cur.RegisteredStudents), cur.Capacity)
		}
		mu.RegisteredStudents = append(mu.RegisteredStudents, studentID)
		return nil
	})
}

// Cancel removes studentID from the event. Cancelling a registration that
// does not exist is ErrNotRegistered. Status is not checked.
func (m *Manager) Cancel(ctx context.Context, eventID, studentID string) (ev events.Event, err error) {
	ctx, span := telemetry.StartSpan(ctx, m.tracer, "registrations.Cancel", eventID)
	defer func() {
		m.record(ctx, auth.OpCancel, "cancel", eventID, studentID, err)
		telemetry.EndSpan(span, err)
	}()

	studentID = strings.TrimSpace(studentID)
	if err = m.authorize(ctx, auth.OpCancel, studentID); err != nil {
		return events.Event{}, err
	}

	return m.store.Update(eventID, func(cur events.Event, mu *events.Mutable) error {
		i := slices.Index(mu.RegisteredStudents, studentID)
		if i < 0 {
			return fmt.Errorf("%w: %s on %s", events.ErrNotRegistered, studentID, cur.ID)
		}
		mu.RegisteredStudents = slices.Delete(mu.RegisteredStudents, i, i+1)
		return nil
	})
}

// ListForStudent returns the events studentID is registered for.
func (m *Manager) ListForStudent(studentID string) []events.Event {
	return m.store.RegisteredFor(strings.TrimSpace(studentID))
}

func (m *Manager) authorize(ctx context.Context, op auth.Operation, studentID string) error {
	if studentID == "" {
		return events.ValidationError{Field: "studentId", Message: "is required"}
	}
	return auth.AuthorizeFor(auth.CallerFromContext(ctx), op, studentID)
}

func (m *Manager) record(ctx context.Context, op auth.Operation, operation, eventID, studentID string, err error) {
	kind := events.Kind(err)
	metrics.RegistrationOutcomes.WithLabelValues(operation, kind).Inc()
	m.audit.Record(ctx, op, "event", eventID, err, map[string]string{"student_id": studentID})

	switch kind {
	case "ok":
		m.logger.Info().Str("event_id", eventID).Str("student_id", studentID).Msgf("%s succeeded", operation)
	case events.KindCorrupted, events.KindInternal:
		m.logger.Error().Err(err).Str("event_id", eventID).Str("student_id", studentID).Msgf("%s failed", operation)
	default:
		m.logger.Debug().Err(err).Str("event_id", eventID).Str("student_id", studentID).Str("outcome", kind).Msgf("%s rejected", operation)
	}
}
