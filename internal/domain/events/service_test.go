package events

import (
	"bytes"
	"context"
	"testing"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asCaller(id string, role auth.Role) context.Context {
	return auth.WithCaller(context.Background(), auth.Caller{ID: id, Role: role})
}

func newTestService(t *testing.T) (*Service, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	svc := NewService(newFixtureStore(t), zerolog.Nop(), audit.NewLogger(zerolog.New(&buf)))
	return svc, &buf
}

func TestService_Create(t *testing.T) {
	svc, auditBuf := newTestService(t)
	before := testutil.ToFloat64(metrics.EventOperations.WithLabelValues("create", "ok"))

	draft := validDraft()
	draft.Organizer = ""
	ev, err := svc.Create(asCaller("host1", auth.RoleHost), draft)
	require.NoError(t, err)
	assert.Equal(t, "event4", ev.ID)
	assert.Equal(t, "host1", ev.Organizer)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EventOperations.WithLabelValues("create", "ok")))
	assert.Contains(t, auditBuf.String(), `"action":"create_event"`)
	assert.Contains(t, auditBuf.String(), `"resource_id":"event4"`)
}

func TestService_CreateForbidden(t *testing.T) {
	svc, auditBuf := newTestService(t)

	_, err := svc.Create(asCaller("student1", auth.RoleStudent), validDraft())
	require.ErrorIs(t, err, auth.ErrForbidden)
	assert.Equal(t, 3, svc.Store().Len())
	assert.Contains(t, auditBuf.String(), `"status":"failure"`)

	_, err = svc.Create(context.Background(), validDraft())
	require.ErrorIs(t, err, auth.ErrForbidden)
}

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	draft := validDraft()
	draft.Capacity = 0

	_, err := svc.Create(asCaller("admin1", auth.RoleAdmin), draft)
	require.ErrorIs(t, err, ErrValidation)
}

func TestService_Advance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := asCaller("admin1", auth.RoleAdmin)

	ev, err := svc.Advance(ctx, "event1")
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, ev.Status)
	assert.Len(t, ev.RegisteredStudents, 2)

	ev, err = svc.Advance(ctx, "event1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, ev.Status)

	_, err = svc.Advance(ctx, "event1")
	require.ErrorIs(t, err, ErrInvalidState)

	stored, err := svc.Store().Get("event1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
}

func TestService_AdvanceErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Advance(asCaller("host1", auth.RoleHost), "event404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Advance(asCaller("student1", auth.RoleStudent), "event1")
	require.ErrorIs(t, err, auth.ErrForbidden)
}
