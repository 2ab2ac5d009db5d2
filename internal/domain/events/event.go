package events

import (
	"fmt"
	"slices"
	"strings"
)

// DateLayout is the calendar date format used for events and feedback.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the canonical lower-case statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus accepts a status name in any case.
func ParseStatus(value string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusUpcoming:
		return StatusUpcoming, true
	case StatusOngoing:
		return StatusOngoing, true
	case StatusCompleted:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Next returns the status that follows s. Completed has no successor.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusUpcoming:
		return StatusOngoing, true
	case StatusOngoing:
		return StatusCompleted, true
	default:
		return "", false
	}
}

type Event struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	Location           string     `json:"location"`
	BranchID           string     `json:"branchId"`
	Organizer          string     `json:"organizer"`
	Capacity           int        `json:"capacity"`
	RegisteredStudents []string   `json:"registeredStudents"`
	Feedback           []Feedback `json:"feedback"`
	VenueID            string     `json:"venueId"`
	Status             Status     `json:"status"`
	ImageURL           string     `json:"imageUrl,omitempty"`
}

type Feedback struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	StudentID string `json:"studentId" validate:"required,max=64"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment,omitempty" validate:"max=2000"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Rating bounds for feedback.
const (
	MinRating = 1
	MaxRating = 5
)

// Mutable names the fields of an Event that may change after creation.
// Every writer goes through it, so identity and descriptive fields are
// preserved by construction.
type Mutable struct {
	RegisteredStudents []string
	Feedback           []Feedback
	Status             Status
}

// Clone returns a deep copy that shares no slices with e.
func (e Event) Clone() Event {
	out := e
	out.RegisteredStudents = slices.Clone(e.RegisteredStudents)
	if out.RegisteredStudents == nil {
		out.RegisteredStudents = []string{}
	}
	out.Feedback = slices.Clone(e.Feedback)
	if out.Feedback == nil {
		out.Feedback = []Feedback{}
	}
	return out
}

func (e Event) IsRegistered(studentID string) bool {
	return slices.Contains(e.RegisteredStudents, studentID)
}

// SpotsLeft is the remaining capacity, never negative.
func (e Event) SpotsLeft() int {
	return max(e.Capacity-len(e.RegisteredStudents), 0)
}

func (e Event) IsFull() bool {
	return len(e.RegisteredStudents) >= e.Capacity
}

func (e Event) mutable() Mutable {
	c := e.Clone()
	return Mutable{
		RegisteredStudents: c.RegisteredStudents,
		Feedback:           c.Feedback,
		Status:             c.Status,
	}
}

func (e Event) apply(m Mutable) Event {
	next := e
	next.RegisteredStudents = m.RegisteredStudents
	next.Feedback = m.Feedback
	next.Status = m.Status
	return next
}

// CheckInvariants verifies the structural rules every stored event obeys.
func (e Event) CheckInvariants() error {
	if e.ID == "" {
		return fmt.Errorf("event has empty id")
	}
	if e.Capacity <= 0 {
		return fmt.Errorf("event %s: capacity %d is not positive", e.ID, e.Capacity)
	}
	if len(e.RegisteredStudents) > e.Capacity {
		return fmt.Errorf("event %s: %d registrations exceed capacity %d", e.ID, len(e.RegisteredStudents), e.Capacity)
	}
	seen := make(map[string]struct{}, len(e.RegisteredStudents))
	for _, id := range e.RegisteredStudents {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("event %s: student %s registered twice", e.ID, id)
		}
		seen[id] = struct{}{}
	}
	if !e.Status.Valid() {
		return fmt.Errorf("event %s: unknown status %q", e.ID, e.Status)
	}
	feedbackIDs := make(map[string]struct{}, len(e.Feedback))
	for _, fb := range e.Feedback {
		if fb.EventID != e.ID {
			return fmt.Errorf("event %s: feedback %s belongs to %s", e.ID, fb.ID, fb.EventID)
		}
		if fb.ID == "" {
			return fmt.Errorf("event %s: feedback has empty id", e.ID)
		}
		if fb.Rating < MinRating || fb.Rating > MaxRating {
			return fmt.Errorf("event %s: feedback %s rating %d outside %d..%d", e.ID, fb.ID, fb.Rating, MinRating, MaxRating)
		}
		if _, dup := feedbackIDs[fb.ID]; dup {
			return fmt.Errorf("event %s: duplicate feedback id %s", e.ID, fb.ID)
		}
		feedbackIDs[fb.ID] = struct{}{}
	}
	return nil
}
