package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/store"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// MutationKind enumerates the operations the pipeline applies.
type MutationKind string

const (
	MutationUpdate MutationKind = "update"
	MutationAssign MutationKind = "assign"
	MutationVote   MutationKind = "vote"
	MutationView   MutationKind = "view"
)

// Mutation describes one requested ticket change. Update carries field
// changes for update/assign; Vote carries the vote type for vote.
type Mutation struct {
	Kind    MutationKind
	Update  *store.TicketUpdate
	Vote    domain.VoteType
	Details map[string]any
}

// Pipeline runs every ticket-affecting mutation as one logical unit:
// authorize, apply, record, notify. Apply and record share a store
// transaction; notify runs after commit and never changes the outcome.
type Pipeline struct {
	store      store.Store
	authorizer *auth.Authorizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewPipeline constructs the pipeline.
func NewPipeline(st store.Store, authorizer *auth.Authorizer, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		store:      st,
		authorizer: authorizer,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// Mutate executes the pipeline for one request. Authorization and input
// validation run before any store access; a failure there has no side
// effects at all.
func (p *Pipeline) Mutate(ctx context.Context, principal *domain.Principal, ticketID string, m Mutation, required ...domain.Permission) (*domain.TicketProjection, error) {
	if err := p.authorizer.Authorize(principal, required...); err != nil {
		p.metrics.RecordMutation(string(m.Kind), "denied")
		return nil, err
	}
	counter, err := p.validate(m)
	if err != nil {
		p.metrics.RecordMutation(string(m.Kind), "invalid")
		return nil, err
	}

	var ticket *domain.Ticket
	err = p.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		ticket = current

		switch m.Kind {
		case MutationUpdate, MutationAssign:
			if err := tx.Tickets().UpdateFields(ctx, ticketID, *m.Update); err != nil {
				return err
			}
		case MutationVote, MutationView:
			if err := tx.Tickets().IncrementCounter(ctx, ticketID, counter, 1); err != nil {
				return err
			}
		}

		entry := &domain.HistoryEntry{
			TicketID: ticketID,
			UserID:   principal.UserID,
			Action:   actionFor(m.Kind),
			Details:  m.Details,
		}
		return tx.History().Append(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.metrics.RecordMutation(string(m.Kind), "not_found")
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		p.metrics.RecordMutation(string(m.Kind), "error")
		return nil, apperrors.MapError(err)
	}

	if m.Kind != MutationView {
		p.publishEvent(ctx, principal, ticket, m)
	}
	p.metrics.RecordMutation(string(m.Kind), "success")

	projection, err := p.store.Tickets().GetProjection(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projection, nil
}

// validate rejects malformed mutations before any store access. The vote
// branch dispatches explicitly on the two allowed types; anything else is
// an InvalidArgument.
func (p *Pipeline) validate(m Mutation) (store.Counter, error) {
	switch m.Kind {
	case MutationUpdate, MutationAssign:
		if m.Update == nil {
			return "", apperrors.NewInvalidArgument("no fields to update", nil)
		}
		return "", nil
	case MutationVote:
		switch m.Vote {
		case domain.VoteHelpful:
			return store.CounterHelpful, nil
		case domain.VoteNotHelpful:
			return store.CounterNotHelpful, nil
		default:
			return "", apperrors.NewInvalidArgument("invalid vote type", map[string]any{"type": string(m.Vote)})
		}
	case MutationView:
		return store.CounterViews, nil
	default:
		return "", apperrors.NewInvalidArgument("unknown mutation kind", map[string]any{"kind": string(m.Kind)})
	}
}

func actionFor(kind MutationKind) domain.HistoryAction {
	switch kind {
	case MutationAssign:
		return domain.ActionAssign
	case MutationVote:
		return domain.ActionVote
	case MutationView:
		return domain.ActionView
	default:
		return domain.ActionUpdate
	}
}

func (p *Pipeline) publishEvent(ctx context.Context, principal *domain.Principal, ticket *domain.Ticket, m Mutation) {
	if p.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       eventTypeFor(m.Kind),
		TicketID:   ticket.ID,
		ActorID:    principal.UserID,
		AuthorID:   ticket.AuthorID,
		AssigneeID: ticket.AssigneeID,
		Timestamp:  time.Now(),
	}
	switch m.Kind {
	case MutationAssign:
		if m.Update != nil && m.Update.AssigneeID != nil {
			event.AssigneeID = m.Update.AssigneeID
		}
	case MutationVote:
		event.Detail = string(m.Vote)
	}
	_ = p.dispatcher.Publish(ctx, event)
}

func eventTypeFor(kind MutationKind) events.EventType {
	switch kind {
	case MutationAssign:
		return events.EventTicketAssigned
	case MutationVote:
		return events.EventTicketVoted
	default:
		return events.EventTicketUpdated
	}
}
