package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
	"github.com/spec-kit/helpdesk/internal/store/memory"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// slaSpy counts SLA repository handles so tests can prove a denied
// request performed zero store access.
type slaSpy struct {
	store.Store
	mu    sync.Mutex
	calls int
}

func (s *slaSpy) SLAs() store.SLARepository {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.Store.SLAs()
}

func (s *slaSpy) slaCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newSLAFixture(t *testing.T) (*SLAService, *slaSpy) {
	t.Helper()
	st := memory.New()
	st.SeedSLA(domain.SLAPolicy{ID: "sla-1", Name: "Urgent", Priority: domain.TicketPriorityUrgent, ResponseTimeMin: 15, ResolutionTimeMin: 240})
	st.SeedSLA(domain.SLAPolicy{ID: "sla-2", Name: "Standard", Priority: domain.TicketPriorityMedium, ResponseTimeMin: 240, ResolutionTimeMin: 2880})
	spy := &slaSpy{Store: st}
	return NewSLAService(spy, auth.NewAuthorizer(), nil, zap.NewNop()), spy
}

func TestListPoliciesRequiresSLAView(t *testing.T) {
	svc, spy := newSLAFixture(t)
	ctx := context.Background()

	endUser := &domain.Principal{UserID: "u1", Role: domain.RoleEndUser}
	_, err := svc.ListPolicies(ctx, endUser)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.ListPolicies(ctx, nil)
	assert.True(t, apperrors.IsCode(err, "UNAUTHENTICATED"))

	assert.Zero(t, spy.slaCalls(), "denied requests must not touch the store")
}

func TestListPolicies(t *testing.T) {
	svc, spy := newSLAFixture(t)
	ctx := context.Background()

	agent := &domain.Principal{UserID: "u2", Role: domain.RoleAgent}
	policies, err := svc.ListPolicies(ctx, agent)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, "Urgent", policies[0].Name)
	assert.Equal(t, 1, spy.slaCalls())
}

func TestGetPolicy(t *testing.T) {
	svc, _ := newSLAFixture(t)
	ctx := context.Background()
	agent := &domain.Principal{UserID: "u2", Role: domain.RoleAgent}

	policy, err := svc.GetPolicy(ctx, agent, "sla-1")
	require.NoError(t, err)
	assert.Equal(t, 15, policy.ResponseTimeMin)

	_, err = svc.GetPolicy(ctx, agent, "missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
