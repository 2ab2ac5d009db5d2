package events

type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
)

// Change describes a committed write. Event is a copy of the new state.
type Change struct {
	Kind  ChangeKind
	Event Event
}

// Subscribe registers fn to be called after every committed write and
// returns a function that removes it. Callbacks run synchronously on the
// writer's goroutine after the write is visible, so they must be fast and
// must not write back to the store.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.subsMu.RLock()
	if len(s.subs) == 0 {
		s.subsMu.RUnlock()
		return
	}
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.RUnlock()

	for _, fn := range fns {
		fn(Change{Kind: c.Kind, Event: c.Event.Clone()})
	}
}
