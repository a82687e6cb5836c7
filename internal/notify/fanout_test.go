package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/store/memory"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newTestFanout(t *testing.T) (*Fanout, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewFanout(st, nil, zap.NewNop(), observability.NewMetrics()), st
}

func strPtr(s string) *string { return &s }

func baseEvent(kind events.EventType, actorID string, assigneeID *string) events.Event {
	return events.Event{
		ID:         "evt-1",
		Type:       kind,
		TicketID:   "t1",
		ActorID:    actorID,
		AuthorID:   "author",
		AssigneeID: assigneeID,
		Timestamp:  time.Now(),
	}
}

func TestResolveRecipients(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		want  []string
	}{
		{
			name:  "update notifies author and assignee",
			event: baseEvent(events.EventTicketUpdated, "agent", strPtr("assignee")),
			want:  []string{"author", "assignee"},
		},
		{
			name:  "update by the author skips the author",
			event: baseEvent(events.EventTicketUpdated, "author", strPtr("assignee")),
			want:  []string{"assignee"},
		},
		{
			name:  "author doubling as assignee gets one notification",
			event: baseEvent(events.EventTicketUpdated, "agent", strPtr("author")),
			want:  []string{"author"},
		},
		{
			name:  "assign notifies both parties",
			event: baseEvent(events.EventTicketAssigned, "lead", strPtr("assignee")),
			want:  []string{"author", "assignee"},
		},
		{
			name:  "vote notifies only the assignee",
			event: baseEvent(events.EventTicketVoted, "voter", strPtr("assignee")),
			want:  []string{"assignee"},
		},
		{
			name:  "vote with nobody assigned notifies no one",
			event: baseEvent(events.EventTicketVoted, "voter", nil),
			want:  []string{},
		},
		{
			name:  "create without preassignment notifies no one",
			event: baseEvent(events.EventTicketCreated, "author", nil),
			want:  []string{},
		},
		{
			name:  "create with preassignment notifies the assignee",
			event: baseEvent(events.EventTicketCreated, "author", strPtr("assignee")),
			want:  []string{"assignee"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveRecipients(tc.event)
			assert.ElementsMatch(t, tc.want, got)
		})
	}
}

func TestHandleCreatesOneNotificationPerRecipient(t *testing.T) {
	fanout, st := newTestFanout(t)
	ctx := context.Background()

	event := baseEvent(events.EventTicketUpdated, "agent", strPtr("assignee"))
	require.NoError(t, fanout.Handle(ctx, event))

	authorSide, err := st.Notifications().ListByUser(ctx, "author", 10)
	require.NoError(t, err)
	require.Len(t, authorSide, 1)
	assert.Equal(t, "t1", authorSide[0].TicketID)
	assert.False(t, authorSide[0].Read)

	assigneeSide, err := st.Notifications().ListByUser(ctx, "assignee", 10)
	require.NoError(t, err)
	assert.Len(t, assigneeSide, 1)

	actorSide, err := st.Notifications().ListByUser(ctx, "agent", 10)
	require.NoError(t, err)
	assert.Empty(t, actorSide, "actor never notifies themselves")
}

func TestMarkRead(t *testing.T) {
	fanout, st := newTestFanout(t)
	ctx := context.Background()

	notification := &domain.Notification{UserID: "u1", TicketID: "t1", Message: "hi"}
	require.NoError(t, st.Notifications().Create(ctx, notification))

	require.NoError(t, fanout.MarkRead(ctx, notification.ID, "u1"))

	stored, err := st.Notifications().GetByID(ctx, notification.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)

	// idempotent: marking an already-read notification succeeds silently
	require.NoError(t, fanout.MarkRead(ctx, notification.ID, "u1"))

	err = fanout.MarkRead(ctx, "does-not-exist", "u1")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	// someone else's notification looks exactly like a missing one
	err = fanout.MarkRead(ctx, notification.ID, "u2")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
