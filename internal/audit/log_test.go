package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
	"github.com/spec-kit/helpdesk/internal/store/memory"
)

func newTestLog(t *testing.T) (*Log, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewLog(st, zap.NewNop()), st
}

func TestQueryClampsLimitAndOrdersNewestFirst(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		err := log.Append(ctx, &domain.HistoryEntry{
			TicketID: fmt.Sprintf("ticket-%d", i),
			UserID:   "u1",
			Action:   domain.ActionUpdate,
		})
		require.NoError(t, err)
	}

	entries, err := log.Query(ctx, store.HistoryFilter{}, 500)
	require.NoError(t, err)
	require.Len(t, entries, MaxQueryLimit)

	// newest first: the last appended entry leads the page
	assert.Equal(t, "ticket-149", entries[0].TicketID)
	assert.Equal(t, "ticket-50", entries[len(entries)-1].TicketID)

	// zero and negative limits also fall back to the cap
	entries, err = log.Query(ctx, store.HistoryFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, entries, MaxQueryLimit)
}

func TestQueryFiltersAreConjunctive(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	seed := []domain.HistoryEntry{
		{TicketID: "t1", UserID: "alice", Action: domain.ActionUpdate},
		{TicketID: "t1", UserID: "bob", Action: domain.ActionVote},
		{TicketID: "t2", UserID: "alice", Action: domain.ActionVote},
		{TicketID: "t2", UserID: "alice", Action: domain.ActionUpdate},
	}
	for i := range seed {
		require.NoError(t, log.Append(ctx, &seed[i]))
	}

	alice := "alice"
	vote := domain.ActionVote
	t2 := "t2"

	testCases := []struct {
		name   string
		filter store.HistoryFilter
		want   int
	}{
		{name: "no filter matches all", filter: store.HistoryFilter{}, want: 4},
		{name: "by user", filter: store.HistoryFilter{UserID: &alice}, want: 3},
		{name: "by action", filter: store.HistoryFilter{Action: &vote}, want: 2},
		{name: "user and action", filter: store.HistoryFilter{UserID: &alice, Action: &vote}, want: 1},
		{name: "user, action and ticket", filter: store.HistoryFilter{UserID: &alice, Action: &vote, TicketID: &t2}, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := log.Query(ctx, tc.filter, 10)
			require.NoError(t, err)
			assert.Len(t, entries, tc.want)
			for _, entry := range entries {
				if tc.filter.UserID != nil {
					assert.Equal(t, *tc.filter.UserID, entry.UserID)
				}
				if tc.filter.Action != nil {
					assert.Equal(t, *tc.filter.Action, entry.Action)
				}
				if tc.filter.TicketID != nil {
					assert.Equal(t, *tc.filter.TicketID, entry.TicketID)
				}
			}
		})
	}
}

func TestAppendSurvivesQueries(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	entry := &domain.HistoryEntry{TicketID: "t1", UserID: "u1", Action: domain.ActionCreate}
	require.NoError(t, log.Append(ctx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	// reading never mutates the trail
	for i := 0; i < 3; i++ {
		entries, err := log.Query(ctx, store.HistoryFilter{}, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
	}
}
