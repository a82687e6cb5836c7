package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/store"
	"github.com/spec-kit/helpdesk/internal/store/memory"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// txSpy counts transactions so tests can assert a rejected request never
// touched the store.
type txSpy struct {
	store.Store
	mu    sync.Mutex
	calls int
}

func (s *txSpy) WithTx(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.Store.WithTx(ctx, fn)
}

func (s *txSpy) txCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type pipelineFixture struct {
	pipeline *Pipeline
	store    *memory.Store
	spy      *txSpy
	ticket   *domain.Ticket
}

func newPipelineFixture(t *testing.T, dispatcher events.Dispatcher) *pipelineFixture {
	t.Helper()
	st := memory.New()
	st.SeedCategory(domain.Category{ID: "cat-1", Name: "Hardware"})
	require.NoError(t, st.Users().Create(context.Background(), &domain.User{ID: "author", Name: "Alice"}))
	require.NoError(t, st.Users().Create(context.Background(), &domain.User{ID: "assignee", Name: "Bob"}))

	assigneeID := "assignee"
	ticket := &domain.Ticket{
		Title:       "printer jam",
		Description: "paper everywhere",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityMedium,
		CategoryID:  "cat-1",
		AuthorID:    "author",
		AssigneeID:  &assigneeID,
	}
	require.NoError(t, st.Tickets().Create(context.Background(), ticket))

	spy := &txSpy{Store: st}
	pipeline := NewPipeline(spy, auth.NewAuthorizer(), dispatcher, zap.NewNop(), observability.NewMetrics())
	return &pipelineFixture{pipeline: pipeline, store: st, spy: spy, ticket: ticket}
}

func agentPrincipal() *domain.Principal {
	return &domain.Principal{UserID: "agent-1", Role: domain.RoleAgent}
}

func TestMutateVote(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()
	voter := &domain.Principal{UserID: "voter", Role: domain.RoleEndUser}

	projection, err := f.pipeline.Mutate(ctx, voter, f.ticket.ID, Mutation{
		Kind:    MutationVote,
		Vote:    domain.VoteHelpful,
		Details: map[string]any{"type": "helpful"},
	}, domain.PermTicketVote)
	require.NoError(t, err)

	assert.Equal(t, int64(1), projection.HelpfulCount)
	assert.Equal(t, int64(0), projection.NotHelpfulCount)
	assert.Equal(t, "Hardware", projection.CategoryName)
	assert.Equal(t, "Alice", projection.AuthorName)

	entries, err := f.store.History().Query(ctx, store.HistoryFilter{TicketID: &f.ticket.ID}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "exactly one history entry per vote")
	assert.Equal(t, domain.ActionVote, entries[0].Action)
	assert.Equal(t, "voter", entries[0].UserID)
}

func TestMutateRejectsInvalidVoteBeforeStoreAccess(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()
	voter := &domain.Principal{UserID: "voter", Role: domain.RoleEndUser}

	for _, vote := range []domain.VoteType{"", "HELPFUL", "upvote", "helpful "} {
		_, err := f.pipeline.Mutate(ctx, voter, f.ticket.ID, Mutation{
			Kind: MutationVote,
			Vote: vote,
		}, domain.PermTicketVote)
		assert.True(t, apperrors.IsCode(err, "INVALID_ARGUMENT"), "vote %q", vote)
	}

	assert.Zero(t, f.spy.txCalls(), "invalid vote must never reach the store")
	ticket, err := f.store.Tickets().GetByID(ctx, f.ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, ticket.HelpfulCount)
	assert.Zero(t, ticket.NotHelpfulCount)
}

func TestMutateDeniesBeforeStoreAccess(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	_, err := f.pipeline.Mutate(ctx, nil, f.ticket.ID, Mutation{Kind: MutationView}, domain.PermTicketView)
	assert.True(t, apperrors.IsCode(err, "UNAUTHENTICATED"))

	endUser := &domain.Principal{UserID: "voter", Role: domain.RoleEndUser}
	_, err = f.pipeline.Mutate(ctx, endUser, f.ticket.ID, Mutation{
		Kind:   MutationAssign,
		Update: &store.TicketUpdate{AssigneeID: &f.ticket.AuthorID},
	}, domain.PermTicketAssign)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	assert.Zero(t, f.spy.txCalls())
}

func TestMutateUnknownTicketIsNotFound(t *testing.T) {
	f := newPipelineFixture(t, nil)

	_, err := f.pipeline.Mutate(context.Background(), agentPrincipal(), "nope", Mutation{
		Kind: MutationView,
	}, domain.PermTicketView)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestMutateConcurrentViewIncrements(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx := context.Background()

	const viewers = 50
	var wg sync.WaitGroup
	errs := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.pipeline.Mutate(ctx, agentPrincipal(), f.ticket.ID, Mutation{
				Kind: MutationView,
			}, domain.PermTicketView)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	ticket, err := f.store.Tickets().GetByID(ctx, f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), ticket.ViewCount, "no increment may be lost")

	action := domain.ActionView
	entries, err := f.store.History().Query(ctx, store.HistoryFilter{Action: &action}, 100)
	require.NoError(t, err)
	assert.Len(t, entries, viewers, "every view bump leaves an audit entry")
}

func TestMutateViewSkipsFanout(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	f := newPipelineFixture(t, dispatcher)
	fanout := notify.NewFanout(f.store, nil, zap.NewNop(), observability.NewMetrics())
	fanout.Register(dispatcher)
	ctx := context.Background()

	_, err := f.pipeline.Mutate(ctx, agentPrincipal(), f.ticket.ID, Mutation{
		Kind: MutationView,
	}, domain.PermTicketView)
	require.NoError(t, err)

	for _, userID := range []string{"author", "assignee"} {
		notifications, err := f.store.Notifications().ListByUser(ctx, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, notifications, "view bumps never fan out")
	}
}

func TestMutateVoteNotifiesAssignee(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	f := newPipelineFixture(t, dispatcher)
	fanout := notify.NewFanout(f.store, nil, zap.NewNop(), observability.NewMetrics())
	fanout.Register(dispatcher)
	ctx := context.Background()

	_, err := f.pipeline.Mutate(ctx, &domain.Principal{UserID: "voter", Role: domain.RoleEndUser}, f.ticket.ID, Mutation{
		Kind:    MutationVote,
		Vote:    domain.VoteNotHelpful,
		Details: map[string]any{"type": "notHelpful"},
	}, domain.PermTicketVote)
	require.NoError(t, err)

	notifications, err := f.store.Notifications().ListByUser(ctx, "assignee", 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "notHelpful")
}

// brokenNotifications makes every notification write fail.
type brokenNotifications struct {
	store.NotificationRepository
}

func (brokenNotifications) Create(ctx context.Context, n *domain.Notification) error {
	return errors.New("notification backend down")
}

type brokenNotificationStore struct {
	store.Store
}

func (s brokenNotificationStore) Notifications() store.NotificationRepository {
	return brokenNotifications{NotificationRepository: s.Store.Notifications()}
}

func TestMutateSucceedsWhenFanoutFails(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	f := newPipelineFixture(t, dispatcher)
	fanout := notify.NewFanout(brokenNotificationStore{Store: f.store}, nil, zap.NewNop(), observability.NewMetrics())
	fanout.Register(dispatcher)
	ctx := context.Background()

	projection, err := f.pipeline.Mutate(ctx, &domain.Principal{UserID: "voter", Role: domain.RoleEndUser}, f.ticket.ID, Mutation{
		Kind:    MutationVote,
		Vote:    domain.VoteHelpful,
		Details: map[string]any{"type": "helpful"},
	}, domain.PermTicketVote)
	require.NoError(t, err, "fan-out failure never changes the outcome")
	assert.Equal(t, int64(1), projection.HelpfulCount)

	entries, err := f.store.History().Query(ctx, store.HistoryFilter{TicketID: &f.ticket.ID}, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the vote and its audit entry still committed")
}

func TestMutateAssignRecordsAndTargetsNewAssignee(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	f := newPipelineFixture(t, dispatcher)
	fanout := notify.NewFanout(f.store, nil, zap.NewNop(), observability.NewMetrics())
	fanout.Register(dispatcher)
	ctx := context.Background()
	lead := &domain.Principal{UserID: "lead", Role: domain.RoleTeamLead}

	newAssignee := "assignee-2"
	require.NoError(t, f.store.Users().Create(ctx, &domain.User{ID: newAssignee, Name: "Carol"}))

	projection, err := f.pipeline.Mutate(ctx, lead, f.ticket.ID, Mutation{
		Kind:    MutationAssign,
		Update:  &store.TicketUpdate{AssigneeID: &newAssignee},
		Details: map[string]any{"assignee_id": newAssignee},
	}, domain.PermTicketAssign)
	require.NoError(t, err)
	require.NotNil(t, projection.AssigneeID)
	assert.Equal(t, newAssignee, *projection.AssigneeID)

	// the event targets the incoming assignee, not the previous one
	notifications, err := f.store.Notifications().ListByUser(ctx, newAssignee, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	action := domain.ActionAssign
	entries, err := f.store.History().Query(ctx, store.HistoryFilter{Action: &action}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lead", entries[0].UserID)
}
