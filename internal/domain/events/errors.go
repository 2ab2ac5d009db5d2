package events

import (
	"errors"
	"fmt"

	"github.com/campus-events/server/internal/auth"
)

var ErrNotFound = errors.New("event not found")

// Business outcomes. These are ordinary results of a call, not faults.
var (
	ErrInvalidState      = errors.New("event is not in a valid state for this operation")
	ErrAlreadyRegistered = errors.New("student is already registered for this event")
	ErrNotRegistered     = errors.New("student is not registered for this event")
	ErrCapacityExceeded  = errors.New("event is at capacity")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrValidation        = errors.New("validation error")
)

// ErrCorrupted signals a broken store invariant. It is not recoverable.
var ErrCorrupted = errors.New("event store invariant violated")

// ValidationError describes malformed input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Failure kinds reported to the presentation layer.
const (
	KindNotFound          = "not_found"
	KindInvalidState      = "invalid_state"
	KindAlreadyRegistered = "already_registered"
	KindNotRegistered     = "not_registered"
	KindCapacityExceeded  = "capacity_exceeded"
	KindInvalidRating     = "invalid_rating"
	KindValidation        = "validation_error"
	KindForbidden         = "forbidden"
	KindCorrupted         = "corrupted"
	KindInternal          = "internal"
)

// Kind maps err to its failure tag; nil maps to "ok".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrAlreadyRegistered):
		return KindAlreadyRegistered
	case errors.Is(err, ErrNotRegistered):
		return KindNotRegistered
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrInvalidRating):
		return KindInvalidRating
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, auth.ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrCorrupted):
		return KindCorrupted
	default:
		return KindInternal
	}
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
