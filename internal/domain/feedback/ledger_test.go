package feedback

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var fixedNow = time.Date(2025, 3, 16, 18, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) (*Ledger, *events.Store) {
	t.Helper()
	store := events.NewStore()
	require.NoError(t, store.Insert(events.Event{
		ID:                 "event1",
		Name:               "Annual Tech Symposium",
		Capacity:           500,
		RegisteredStudents: []string{"student1", "student3"},
		Feedback: []events.Feedback{{
			ID: "feedback1", EventID: "event1", StudentID: "student1",
			Rating: 4, Comment: "Great event, learned a lot!", Date: "2025-03-15",
		}},
		Status: events.StatusUpcoming,
	}))
	require.NoError(t, store.Insert(events.Event{ID: "event2", Capacity: 10, Status: events.StatusCompleted}))
	return NewLedger(store, zerolog.Nop(), audit.Nop(), WithClock(func() time.Time { return fixedNow })), store
}

func student(id string) context.Context {
	return auth.WithCaller(context.Background(), auth.Caller{ID: id, Role: auth.RoleStudent})
}

func TestAddFeedback(t *testing.T) {
	ledger, store := newTestLedger(t)

	fb, err := ledger.AddFeedback(student("student3"), "event1", "student3", 3, "  Good talks <b>overall</b> ")
	require.NoError(t, err)
	assert.Equal(t, events.Feedback{
		ID:        "feedback2",
		EventID:   "event1",
		StudentID: "student3",
		Rating:    3,
		Comment:   "Good talks overall",
		Date:      "2025-03-16",
	}, fb)

	ev, err := store.Get("event1")
	require.NoError(t, err)
	require.Len(t, ev.Feedback, 2)
	assert.Equal(t, fb, ev.Feedback[1])
	assert.Equal(t, []string{"student1", "student3"}, ev.RegisteredStudents)
}

func TestAddFeedback_RatingBounds(t *testing.T) {
	for _, rating := range []int{0, 6, -1, 100} {
		t.Run(fmt.Sprint(rating), func(t *testing.T) {
			ledger, _ := newTestLedger(t)
			_, err := ledger.AddFeedback(student("student1"), "event1", "student1", rating, "")
			require.ErrorIs(t, err, events.ErrInvalidRating)

			list, err := ledger.List("event1")
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}

	for _, rating := range []int{1, 5} {
		ledger, _ := newTestLedger(t)
		_, err := ledger.AddFeedback(student("student1"), "event1", "student1", rating, "")
		require.NoError(t, err)
	}
}

func TestAddFeedback_Errors(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.AddFeedback(student("student1"), "event404", "student1", 9, "")
	require.ErrorIs(t, err, events.ErrNotFound, "unknown event is reported before the rating")

	_, err = ledger.AddFeedback(student("student1"), "event1", "student2", 4, "")
	require.ErrorIs(t, err, auth.ErrForbidden)

	admin := auth.WithCaller(context.Background(), auth.Caller{ID: "admin1", Role: auth.RoleAdmin})
	_, err = ledger.AddFeedback(admin, "event1", "admin1", 4, "")
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = ledger.AddFeedback(student("student1"), "event1", "", 4, "")
	require.ErrorIs(t, err, events.ErrValidation)

	_, err = ledger.AddFeedback(student("student1"), "event1", "student1", 4, strings.Repeat("x", MaxCommentLength+1))
	require.ErrorIs(t, err, events.ErrValidation)
}

func TestAddFeedback_MultiplePerStudent(t *testing.T) {
	ledger, _ := newTestLedger(t)

	first, err := ledger.AddFeedback(student("student1"), "event2", "student1", 2, "meh")
	require.NoError(t, err)
	second, err := ledger.AddFeedback(student("student1"), "event2", "student1", 5, "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, "feedback1", first.ID)
	assert.Equal(t, "feedback2", second.ID)
}

func TestAddFeedback_ConcurrentIDsAreUnique(t *testing.T) {
	ledger, store := newTestLedger(t)

	var g errgroup.Group
	for i := range 40 {
		g.Go(func() error {
			id := fmt.Sprintf("student%d", i)
			_, err := ledger.AddFeedback(student(id), "event2", id, 1+i%5, "")
			return err
		})
	}
	require.NoError(t, g.Wait())

	ev, err := store.Get("event2")
	require.NoError(t, err)
	require.Len(t, ev.Feedback, 40)
	seen := map[string]bool{}
	for _, fb := range ev.Feedback {
		assert.False(t, seen[fb.ID], "duplicate id %s", fb.ID)
		seen[fb.ID] = true
	}
	require.NoError(t, store.Verify())
}

func TestNextID_SkipsTaken(t *testing.T) {
	existing := []events.Feedback{{ID: "feedback2"}}
	assert.Equal(t, "feedback3", nextID(existing))
	assert.Equal(t, "feedback1", nextID(nil))
}

func TestList(t *testing.T) {
	ledger, _ := newTestLedger(t)

	list, err := ledger.List("event1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "feedback1", list[0].ID)

	_, err = ledger.List("event404")
	require.ErrorIs(t, err, events.ErrNotFound)
}
