package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const slaCacheKey = "helpdesk:sla:policies"
const slaCacheTTL = 5 * time.Minute

// SLAService serves the read-only SLA reference data behind sla:view,
// with a redis cache in front of the store.
type SLAService struct {
	store      store.Store
	authorizer *auth.Authorizer
	redis      *store.Redis
	logger     *zap.Logger
}

// NewSLAService constructs the service. redis may be nil.
func NewSLAService(st store.Store, authorizer *auth.Authorizer, redis *store.Redis, logger *zap.Logger) *SLAService {
	return &SLAService{store: st, authorizer: authorizer, redis: redis, logger: logger}
}

// ListPolicies returns all SLA policies. Authorization runs before any
// store or cache access.
func (s *SLAService) ListPolicies(ctx context.Context, principal *domain.Principal) ([]domain.SLAPolicy, error) {
	if err := s.authorizer.Authorize(principal, domain.PermSLAView); err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	policies, err := s.store.SLAs().List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.toCache(ctx, policies)
	return policies, nil
}

// GetPolicy returns one policy by id.
func (s *SLAService) GetPolicy(ctx context.Context, principal *domain.Principal, id string) (*domain.SLAPolicy, error) {
	if err := s.authorizer.Authorize(principal, domain.PermSLAView); err != nil {
		return nil, err
	}
	policy, err := s.store.SLAs().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sla policy", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return policy, nil
}

func (s *SLAService) fromCache(ctx context.Context) []domain.SLAPolicy {
	if s.redis == nil || s.redis.Client == nil {
		return nil
	}
	raw, err := s.redis.Client.Get(ctx, slaCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var policies []domain.SLAPolicy
	if err := json.Unmarshal(raw, &policies); err != nil {
		return nil
	}
	return policies
}

func (s *SLAService) toCache(ctx context.Context, policies []domain.SLAPolicy) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(policies)
	if err != nil {
		return
	}
	if err := s.redis.Client.Set(ctx, slaCacheKey, raw, slaCacheTTL).Err(); err != nil {
		s.logger.Debug("sla cache write failed", zap.Error(err))
	}
}
