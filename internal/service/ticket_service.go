package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/sanitize"
	"github.com/spec-kit/helpdesk/internal/store"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService fronts ticket reads and funnels every mutation through
// the pipeline.
type TicketService struct {
	store      store.Store
	pipeline   *Pipeline
	authorizer *auth.Authorizer
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(st store.Store, pipeline *Pipeline, authorizer *auth.Authorizer, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{store: st, pipeline: pipeline, authorizer: authorizer, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
	AssigneeID  *string
}

// TicketUpdateInput describes a field update request.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	CategoryID  *string
}

// CreateTicket creates a ticket for the principal, records the creation
// and publishes the created event.
func (s *TicketService) CreateTicket(ctx context.Context, principal *domain.Principal, input TicketCreateInput) (*domain.TicketProjection, error) {
	if err := s.authorizer.Authorize(principal, domain.PermTicketCreate); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Description) == "" || input.CategoryID == "" {
		return nil, apperrors.NewInvalidArgument("title, description, category_id required", nil)
	}
	if _, err := s.store.Categories().GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: sanitize.HTML(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		CategoryID:  input.CategoryID,
		AuthorID:    principal.UserID,
		AssigneeID:  input.AssigneeID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Tickets().Create(ctx, ticket); err != nil {
			return err
		}
		entry := &domain.HistoryEntry{
			TicketID: ticket.ID,
			UserID:   principal.UserID,
			Action:   domain.ActionCreate,
			Details:  map[string]any{"title": ticket.Title},
		}
		return tx.History().Append(ctx, entry)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventTicketCreated,
			TicketID:   ticket.ID,
			ActorID:    principal.UserID,
			AuthorID:   ticket.AuthorID,
			AssigneeID: ticket.AssigneeID,
			Timestamp:  time.Now(),
		})
	}

	projection, err := s.store.Tickets().GetProjection(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projection, nil
}

// GetTicket returns the ticket projection and bumps the view counter
// through the pipeline (lightweight audit entry, no fan-out). The
// ownership check runs before the counter moves.
func (s *TicketService) GetTicket(ctx context.Context, principal *domain.Principal, ticketID string) (*domain.TicketProjection, error) {
	if err := s.authorizer.Authorize(principal, domain.PermTicketView); err != nil {
		return nil, err
	}
	ticket, err := s.store.Tickets().GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.AuthorID != principal.UserID && !s.authorizer.CanViewAllTickets(principal) {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	return s.pipeline.Mutate(ctx, principal, ticketID, Mutation{Kind: MutationView}, domain.PermTicketView)
}

// ListTickets lists tickets; holders of ticket:view:all see everything,
// everyone else only their own.
func (s *TicketService) ListTickets(ctx context.Context, principal *domain.Principal, limit, offset int) ([]domain.Ticket, error) {
	if err := s.authorizer.Authorize(principal, domain.PermTicketView); err != nil {
		return nil, err
	}
	var authorID *string
	if !s.authorizer.CanViewAllTickets(principal) {
		authorID = &principal.UserID
	}
	tickets, err := s.store.Tickets().List(ctx, authorID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateTicket applies a field update through the pipeline.
func (s *TicketService) UpdateTicket(ctx context.Context, principal *domain.Principal, ticketID string, input TicketUpdateInput) (*domain.TicketProjection, error) {
	update := store.TicketUpdate{
		Title:      input.Title,
		Status:     input.Status,
		Priority:   input.Priority,
		CategoryID: input.CategoryID,
	}
	if input.Description != nil {
		clean := sanitize.HTML(*input.Description)
		update.Description = &clean
	}

	details := map[string]any{}
	if input.Title != nil {
		details["title"] = *input.Title
	}
	if input.Status != nil {
		details["status"] = string(*input.Status)
	}
	if input.Priority != nil {
		details["priority"] = string(*input.Priority)
	}
	if input.CategoryID != nil {
		details["category_id"] = *input.CategoryID
	}
	if update.Description != nil {
		details["description_changed"] = true
	}

	m := Mutation{Kind: MutationUpdate, Update: &update, Details: details}
	return s.pipeline.Mutate(ctx, principal, ticketID, m, domain.PermTicketUpdate)
}

// AssignTicket sets the assignee through the pipeline.
func (s *TicketService) AssignTicket(ctx context.Context, principal *domain.Principal, ticketID, assigneeID string) (*domain.TicketProjection, error) {
	if strings.TrimSpace(assigneeID) == "" {
		return nil, apperrors.NewInvalidArgument("assignee_id required", nil)
	}
	if _, err := s.store.Users().GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	m := Mutation{
		Kind:    MutationAssign,
		Update:  &store.TicketUpdate{AssigneeID: &assigneeID},
		Details: map[string]any{"assignee_id": assigneeID},
	}
	return s.pipeline.Mutate(ctx, principal, ticketID, m, domain.PermTicketAssign)
}

// VoteTicket records a helpful/notHelpful vote through the pipeline. The
// vote type is validated there before any store access.
func (s *TicketService) VoteTicket(ctx context.Context, principal *domain.Principal, ticketID string, vote domain.VoteType) (*domain.TicketProjection, error) {
	m := Mutation{
		Kind:    MutationVote,
		Vote:    vote,
		Details: map[string]any{"type": string(vote)},
	}
	return s.pipeline.Mutate(ctx, principal, ticketID, m, domain.PermTicketVote)
}

// DeleteTicket removes a ticket; history and notifications cascade with
// it, which is the only way audit entries ever leave the store.
func (s *TicketService) DeleteTicket(ctx context.Context, principal *domain.Principal, ticketID string) error {
	if err := s.authorizer.Authorize(principal, domain.PermTicketDelete); err != nil {
		return err
	}
	if err := s.store.Tickets().Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}
