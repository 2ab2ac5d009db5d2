package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden is returned when the caller's role may not perform an operation.
var ErrForbidden = errors.New("operation not permitted")

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleHost    Role = "host"

	// RoleAnonymous is assigned to callers without a recognised role. It
	// holds no permissions.
	RoleAnonymous Role = ""
)

// Operation names a mutating core operation subject to authorization.
type Operation string

const (
	OpCreateEvent  Operation = "create_event"
	OpAdvanceEvent Operation = "advance_event"
	OpRegister     Operation = "register"
	OpCancel       Operation = "cancel_registration"
	OpAddFeedback  Operation = "add_feedback"
)

var policy = map[Operation][]Role{
	OpCreateEvent:  {RoleAdmin, RoleHost},
	OpAdvanceEvent: {RoleAdmin, RoleHost},
	OpRegister:     {RoleStudent, RoleAdmin},
	OpCancel:       {RoleStudent, RoleAdmin},
	OpAddFeedback:  {RoleStudent},
}

func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleStudent):
		return RoleStudent
	case string(RoleHost):
		return RoleHost
	default:
		return RoleAnonymous
	}
}

func HasRole(role string, allowed ...Role) bool {
	current := NormalizeRole(role)
	if current == RoleAnonymous {
		return false
	}
	for _, candidate := range allowed {
		if current == candidate {
			return true
		}
	}
	return false
}

func IsAdmin(role string) bool {
	return NormalizeRole(role) == RoleAdmin
}

// Authorize is the single permission check every mutating operation runs.
// Unknown operations are denied.
func Authorize(role Role, op Operation) error {
	allowed, ok := policy[op]
	if !ok || !HasRole(string(role), allowed...) {
		return fmt.Errorf("%w: role %q may not %s", ErrForbidden, role, op)
	}
	return nil
}

// AuthorizeFor runs Authorize and additionally restricts students to acting
// on their own behalf.
func AuthorizeFor(caller Caller, op Operation, subjectID string) error {
	if err := Authorize(caller.Role, op); err != nil {
		return err
	}
	if caller.Role == RoleStudent && caller.ID != subjectID {
		return fmt.Errorf("%w: student %q may not %s for %q", ErrForbidden, caller.ID, op, subjectID)
	}
	return nil
}
