package venues

import (
	"errors"
	"fmt"
	"slices"

	"github.com/campus-events/server/internal/domain/events"
)

var ErrNotFound = errors.New("venue not found")

type Venue struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Capacity  int      `json:"capacity"`
	Resources []string `json:"resources"`
	// Events lists the ids of events held at the venue. It is derived from
	// the event store on every read and never stored.
	Events []string `json:"events"`
}

// Store holds the static venue set loaded at startup.
type Store struct {
	order  []string
	venues map[string]Venue
	events events.Source
}

// NewStore copies venues into a read-only store. Any Events values on the
// input are discarded.
func NewStore(venues []Venue) (*Store, error) {
	s := &Store{venues: make(map[string]Venue, len(venues))}
	for _, v := range venues {
		if v.ID == "" {
			return nil, fmt.Errorf("venue %q has empty id", v.Name)
		}
		if _, dup := s.venues[v.ID]; dup {
			return nil, fmt.Errorf("duplicate venue id %s", v.ID)
		}
		v.Resources = slices.Clone(v.Resources)
		v.Events = nil
		s.venues[v.ID] = v
		s.order = append(s.order, v.ID)
	}
	return s, nil
}

// Attach sets the event source used to derive each venue's event list. It
// must be called before the store is shared.
func (s *Store) Attach(src events.Source) {
	s.events = src
}

func (s *Store) Get(id string) (Venue, error) {
	v, ok := s.venues[id]
	if !ok {
		return Venue{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.withEvents(v), nil
}

func (s *Store) List() []Venue {
	out := make([]Venue, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.withEvents(s.venues[id]))
	}
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}

// EventsAt returns the ids of events whose venue is venueID, in event order.
func (s *Store) EventsAt(venueID string) []string {
	out := []string{}
	if s.events == nil {
		return out
	}
	for ev := range s.events.All() {
		if ev.VenueID == venueID {
			out = append(out, ev.ID)
		}
	}
	return out
}

// VenueCapacity lets the event store check references at creation time.
func (s *Store) VenueCapacity(id string) (int, bool) {
	v, ok := s.venues[id]
	return v.Capacity, ok
}

func (s *Store) withEvents(v Venue) Venue {
	v.Resources = slices.Clone(v.Resources)
	if v.Resources == nil {
		v.Resources = []string{}
	}
	v.Events = s.EventsAt(v.ID)
	return v
}
