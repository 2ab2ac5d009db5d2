package events

import (
	"errors"
	"fmt"
	"testing"

	"github.com/campus-events/server/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError{Field: "capacity", Message: "must be greater than 0"}
	assert.Equal(t, "invalid capacity: must be greater than 0", err.Error())
	require.ErrorIs(t, err, ErrValidation)

	wrapped := fmt.Errorf("create: %w", err)
	var target ValidationError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "capacity", target.Field)

	assert.Equal(t, "bad input", ValidationError{Message: "bad input"}.Error())
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{notFound("event9"), KindNotFound},
		{fmt.Errorf("%w: completed", ErrInvalidState), KindInvalidState},
		{ErrAlreadyRegistered, KindAlreadyRegistered},
		{ErrNotRegistered, KindNotRegistered},
		{ErrCapacityExceeded, KindCapacityExceeded},
		{ErrInvalidRating, KindInvalidRating},
		{ValidationError{Field: "name"}, KindValidation},
		{fmt.Errorf("%w: host", auth.ErrForbidden), KindForbidden},
		{fmt.Errorf("%w: dup", ErrCorrupted), KindCorrupted},
		{errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
