package feedback

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/ids"
	"github.com/campus-events/server/internal/metrics"
	"github.com/campus-events/server/internal/sanitize"
	"github.com/campus-events/server/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	MinRating        = events.MinRating
	MaxRating        = events.MaxRating
	MaxCommentLength = 2000
)

// Ledger appends feedback to events. Feedback is never edited or removed.
type Ledger struct {
	store  *events.Store
	logger zerolog.Logger
	audit  *audit.Logger
	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Ledger)

// WithClock overrides the clock used to date feedback.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store *events.Store, logger zerolog.Logger, auditLogger *audit.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: logger.With().Str("component", "feedback").Logger(),
		audit:  auditLogger,
		tracer: telemetry.GetTracer("campus-events/feedback"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddFeedback records a rating and optional comment from studentID. It fails
// with ErrNotFound for an unknown event and ErrInvalidRating outside 1..5.
// A student may leave any number of entries.
func (l *Ledger) AddFeedback(ctx context.Context, eventID, studentID string, rating int, comment string) (fb events.Feedback, err error) {
	ctx, span := telemetry.StartSpan(ctx, l.tracer, "feedback.Add", eventID)
	defer func() {
		kind := events.Kind(err)
		metrics.FeedbackOutcomes.WithLabelValues(kind).Inc()
		l.audit.Record(ctx, auth.OpAddFeedback, "event", eventID, err, map[string]string{
			"student_id":  studentID,
			"feedback_id": fb.ID,
			"rating":      strconv.Itoa(rating),
		})
		telemetry.EndSpan(span, err)
		if err != nil {
			l.logger.Debug().Err(err).Str("event_id", eventID).Str("outcome", kind).Msg("feedback rejected")
		}
	}()

	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return events.Feedback{}, events.ValidationError{Field: "studentId", Message: "is required"}
	}
	if err = auth.AuthorizeFor(auth.CallerFromContext(ctx), auth.OpAddFeedback, studentID); err != nil {
		return events.Feedback{}, err
	}
	if !l.store.Exists(eventID) {
		return events.Feedback{}, fmt.Errorf("%w: %s", events.ErrNotFound, eventID)
	}
	if rating < MinRating || rating > MaxRating {
		return events.Feedback{}, fmt.Errorf("%w: got %d", events.ErrInvalidRating, rating)
	}
	comment = sanitize.Text(comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return events.Feedback{}, events.ValidationError{Field: "comment", Message: fmt.Sprintf("must be at most %d characters", MaxCommentLength)}
	}

	date := l.now().Format(events.DateLayout)
	_, err = l.store.Update(eventID, func(cur events.Event, m *events.Mutable) error {
		fb = events.Feedback{
			ID:        nextID(m.Feedback),
			EventID:   cur.ID,
			StudentID: studentID,
			Rating:    rating,
			Comment:   comment,
			Date:      date,
		}
		m.Feedback = append(m.Feedback, fb)
		return nil
	})
	if err != nil {
		return events.Feedback{}, err
	}

	l.logger.Info().Str("event_id", eventID).Str("feedback_id", fb.ID).Int("rating", rating).Msg("feedback added")
	return fb, nil
}

// List returns the event's feedback in submission order.
func (l *Ledger) List(eventID string) ([]events.Feedback, error) {
	ev, err := l.store.Get(eventID)
	if err != nil {
		return nil, err
	}
	return ev.Feedback, nil
}

// nextID numbers feedback by position, skipping any id already in use.
func nextID(existing []events.Feedback) string {
	taken := make(map[string]struct{}, len(existing))
	for _, fb := range existing {
		taken[fb.ID] = struct{}{}
	}
	n := len(existing) + 1
	for {
		id := ids.Sequential(ids.FeedbackPrefix, n)
		if _, ok := taken[id]; !ok {
			return id
		}
		n++
	}
}
