package events

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/campus-events/server/internal/domain/ids"
	"github.com/campus-events/server/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// slot holds the current immutable snapshot of one event. Published
// snapshots are never mutated; writers swap in a fresh value.
type slot struct {
	cur atomic.Pointer[Event]
}

// Store is the authoritative in-memory collection of events.
//
// Insertion order and the id index are guarded by mu. Each event's state
// lives in its own slot and is updated by compare-and-swap, so writers to
// different events never contend and readers never block.
type Store struct {
	mu    sync.RWMutex
	order []*slot
	index map[string]*slot

	venues   VenueIndex
	branches BranchIndex
	validate *validator.Validate
	logger   zerolog.Logger

	subsMu  sync.RWMutex
	subs    map[uint64]func(Change)
	nextSub uint64
}

type Option func(*Store)

// WithVenues enables venue reference checks on Add.
func WithVenues(v VenueIndex) Option {
	return func(s *Store) { s.venues = v }
}

// WithBranches enables branch reference checks on Add.
func WithBranches(b BranchIndex) Option {
	return func(s *Store) { s.branches = b }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger.With().Str("component", "event_store").Logger() }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		index:    make(map[string]*slot),
		validate: newValidator(),
		logger:   zerolog.Nop(),
		subs:     make(map[uint64]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) lookup(id string) (*slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.index[id]
	return sl, ok
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (Event, error) {
	sl, ok := s.lookup(id)
	if !ok {
		return Event{}, notFound(id)
	}
	return sl.cur.Load().Clone(), nil
}

// Exists reports whether id names a stored event.
func (s *Store) Exists(id string) bool {
	_, ok := s.lookup(id)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// All yields copies of every event in insertion order. The set of events is
// fixed when iteration starts; each event is read at the moment it is yielded.
func (s *Store) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		s.mu.RLock()
		slots := slices.Clone(s.order)
		s.mu.RUnlock()
		for _, sl := range slots {
			if !yield(sl.cur.Load().Clone()) {
				return
			}
		}
	}
}

// List returns copies of every event in insertion order.
func (s *Store) List() []Event {
	return slices.Collect(s.All())
}

// Add validates draft, assigns the next free "eventN" id and stores it.
func (s *Store) Add(draft Draft) (Event, error) {
	draft = draft.normalize()
	if err := validateDraft(s.validate, draft, s.venues, s.branches); err != nil {
		return Event{}, err
	}
	ev := draft.event()

	s.mu.Lock()
	n := len(s.order) + 1
	id := ids.Sequential(ids.EventPrefix, n)
	for {
		if _, taken := s.index[id]; !taken {
			break
		}
		n++
		id = ids.Sequential(ids.EventPrefix, n)
	}
	ev.ID = id
	assignFeedbackIDs(id, ev.Feedback)
	if err := ev.CheckInvariants(); err != nil {
		s.mu.Unlock()
		return Event{}, ValidationError{Field: "event", Message: err.Error()}
	}
	s.insertLocked(ev)
	count := len(s.order)
	s.mu.Unlock()

	metrics.EventsTotal.Set(float64(count))
	s.logger.Debug().Str("event_id", id).Msg("event added")
	s.notify(Change{Kind: ChangeCreated, Event: ev.Clone()})
	return ev.Clone(), nil
}

// Insert stores a fully formed event under its own id. It is used when
// loading a dataset whose ids are already assigned.
func (s *Store) Insert(ev Event) error {
	ev = ev.Clone()
	if err := ev.CheckInvariants(); err != nil {
		return ValidationError{Field: "event", Message: err.Error()}
	}

	s.mu.Lock()
	if _, taken := s.index[ev.ID]; taken {
		s.mu.Unlock()
		return ValidationError{Field: "id", Message: "duplicate event id " + ev.ID}
	}
	s.insertLocked(ev)
	count := len(s.order)
	s.mu.Unlock()

	metrics.EventsTotal.Set(float64(count))
	s.notify(Change{Kind: ChangeCreated, Event: ev.Clone()})
	return nil
}

// assignFeedbackIDs binds supplied feedback to eventID and gives each entry
// without an id the lowest free "feedbackN".
func assignFeedbackIDs(eventID string, fbs []Feedback) {
	taken := make(map[string]struct{}, len(fbs))
	for _, fb := range fbs {
		if fb.ID != "" {
			taken[fb.ID] = struct{}{}
		}
	}
	n := 0
	for i := range fbs {
		fbs[i].EventID = eventID
		if fbs[i].ID != "" {
			continue
		}
		for {
			n++
			id := ids.Sequential(ids.FeedbackPrefix, n)
			if _, ok := taken[id]; !ok {
				fbs[i].ID = id
				taken[id] = struct{}{}
				break
			}
		}
	}
}

func (s *Store) insertLocked(ev Event) {
	sl := &slot{}
	sl.cur.Store(&ev)
	s.order = append(s.order, sl)
	s.index[ev.ID] = sl
}

// Replace unconditionally overwrites the stored event with the same id.
// Writers that depend on the current state should use Update instead.
func (s *Store) Replace(ev Event) error {
	sl, ok := s.lookup(ev.ID)
	if !ok {
		return notFound(ev.ID)
	}
	next := ev.Clone()
	if err := next.CheckInvariants(); err != nil {
		return ValidationError{Field: "event", Message: err.Error()}
	}
	sl.cur.Store(&next)
	s.notify(Change{Kind: ChangeUpdated, Event: next.Clone()})
	return nil
}

// UpdateFunc inspects the current event and edits its mutable fields.
// Returning an error aborts the update and the error is passed through.
// It may run more than once when writers race, so it must not have side
// effects beyond m.
type UpdateFunc func(current Event, m *Mutable) error

// Update applies fn to the event with the given id and publishes the result
// with compare-and-swap, retrying on conflict. Only fields in Mutable can
// change, so no concurrent edit is ever lost or partially applied.
func (s *Store) Update(id string, fn UpdateFunc) (Event, error) {
	sl, ok := s.lookup(id)
	if !ok {
		return Event{}, notFound(id)
	}
	for {
		cur := sl.cur.Load()
		m := cur.mutable()
		if err := fn(cur.Clone(), &m); err != nil {
			return Event{}, err
		}
		next := cur.apply(m)
		if err := next.CheckInvariants(); err != nil {
			s.logger.Error().Err(err).Str("event_id", id).Msg("rejected update that breaks store invariants")
			return Event{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		if sl.cur.CompareAndSwap(cur, &next) {
			s.notify(Change{Kind: ChangeUpdated, Event: next.Clone()})
			return next.Clone(), nil
		}
		metrics.SnapshotConflicts.Inc()
	}
}

// Verify checks every stored event. A failure means the store can no longer
// be trusted.
func (s *Store) Verify() error {
	for ev := range s.All() {
		if err := ev.CheckInvariants(); err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
	}
	return nil
}

// RegisteredFor returns the events the student is currently registered for.
func (s *Store) RegisteredFor(studentID string) []Event {
	var out []Event
	for ev := range s.All() {
		if ev.IsRegistered(studentID) {
			out = append(out, ev)
		}
	}
	return out
}
