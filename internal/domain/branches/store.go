package branches

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("branch not found")

// Branch is an academic department used to tag events.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Store struct {
	order    []Branch
	branches map[string]Branch
}

func NewStore(branches []Branch) (*Store, error) {
	s := &Store{branches: make(map[string]Branch, len(branches))}
	for _, b := range branches {
		if b.ID == "" {
			return nil, fmt.Errorf("branch %q has empty id", b.Name)
		}
		if _, dup := s.branches[b.ID]; dup {
			return nil, fmt.Errorf("duplicate branch id %s", b.ID)
		}
		s.branches[b.ID] = b
		s.order = append(s.order, b)
	}
	return s, nil
}

func (s *Store) Get(id string) (Branch, error) {
	b, ok := s.branches[id]
	if !ok {
		return Branch{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, nil
}

func (s *Store) List() []Branch {
	out := make([]Branch, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) HasBranch(id string) bool {
	_, ok := s.branches[id]
	return ok
}
