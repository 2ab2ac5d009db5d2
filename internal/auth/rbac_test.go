package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole(" Admin "))
	assert.Equal(t, RoleStudent, NormalizeRole("STUDENT"))
	assert.Equal(t, RoleHost, NormalizeRole("host"))
	assert.Equal(t, RoleAnonymous, NormalizeRole("viewer"))
	assert.Equal(t, RoleAnonymous, NormalizeRole(""))
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole("host", RoleAdmin, RoleHost))
	assert.False(t, HasRole("student", RoleAdmin, RoleHost))
	assert.False(t, HasRole("", RoleAnonymous))
	assert.False(t, HasRole("admin"))
	assert.True(t, IsAdmin("ADMIN"))
}

func TestAuthorize_PolicyTable(t *testing.T) {
	tests := []struct {
		role    Role
		op      Operation
		allowed bool
	}{
		{RoleAdmin, OpCreateEvent, true},
		{RoleHost, OpCreateEvent, true},
		{RoleStudent, OpCreateEvent, false},
		{RoleAdmin, OpAdvanceEvent, true},
		{RoleStudent, OpAdvanceEvent, false},
		{RoleStudent, OpRegister, true},
		{RoleAdmin, OpRegister, true},
		{RoleHost, OpRegister, false},
		{RoleStudent, OpCancel, true},
		{RoleHost, OpCancel, false},
		{RoleStudent, OpAddFeedback, true},
		{RoleAdmin, OpAddFeedback, false},
		{RoleAnonymous, OpRegister, false},
		{RoleAdmin, Operation("delete_event"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			err := Authorize(tt.role, tt.op)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestAuthorizeFor_StudentsActOnlyForThemselves(t *testing.T) {
	student := Caller{ID: "student1", Role: RoleStudent}
	admin := Caller{ID: "admin1", Role: RoleAdmin}

	require.NoError(t, AuthorizeFor(student, OpRegister, "student1"))
	require.ErrorIs(t, AuthorizeFor(student, OpRegister, "student2"), ErrForbidden)
	require.NoError(t, AuthorizeFor(admin, OpCancel, "student2"))
}

func TestCallerFromContext(t *testing.T) {
	assert.Equal(t, Caller{}, CallerFromContext(context.Background()))

	ctx := WithCaller(context.Background(), Caller{ID: "host1", Role: RoleHost})
	caller := CallerFromContext(ctx)
	assert.Equal(t, "host1", caller.ID)
	assert.Equal(t, RoleHost, caller.Role)
}
