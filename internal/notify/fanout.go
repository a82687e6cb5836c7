package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/store"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Fanout turns a ticket event into one notification per resolved
// recipient. Creation is best-effort relative to the triggering mutation:
// partial failures are logged and counted, already-created notifications
// stay, and nothing rolls back.
type Fanout struct {
	store   store.Store
	queue   *Queue
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewFanout creates the service. queue may be nil when no redis is
// configured; delivery then stops at the stored notification rows.
func NewFanout(st store.Store, queue *Queue, logger *zap.Logger, metrics *observability.Metrics) *Fanout {
	return &Fanout{store: st, queue: queue, logger: logger, metrics: metrics}
}

// Register subscribes the fan-out handler to every ticket event kind.
func (f *Fanout) Register(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, f.Handle)
	dispatcher.Subscribe(events.EventTicketUpdated, f.Handle)
	dispatcher.Subscribe(events.EventTicketAssigned, f.Handle)
	dispatcher.Subscribe(events.EventTicketVoted, f.Handle)
}

// Handle creates the notifications for one event. Each recipient gets
// exactly one notification; the acting user never notifies themselves.
func (f *Fanout) Handle(ctx context.Context, event events.Event) error {
	recipients := resolveRecipients(event)

	var firstErr error
	for _, userID := range recipients {
		notification := &domain.Notification{
			UserID:   userID,
			TicketID: event.TicketID,
			Message:  messageFor(event),
		}
		if err := f.store.Notifications().Create(ctx, notification); err != nil {
			f.logger.Warn("notification create failed",
				zap.String("ticket_id", event.TicketID),
				zap.String("user_id", userID),
				zap.Error(err))
			f.metrics.RecordFanoutFailure()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := f.queue.Enqueue(ctx, notification); err != nil {
			f.logger.Warn("notification enqueue failed",
				zap.String("notification_id", notification.ID),
				zap.Error(err))
			f.metrics.RecordFanoutFailure()
		}
	}
	return firstErr
}

// resolveRecipients enumerates the recipient set per event kind, deduped
// and with the actor excluded.
func resolveRecipients(event events.Event) []string {
	candidates := []string{}
	switch event.Type {
	case events.EventTicketCreated:
		if event.AssigneeID != nil {
			candidates = append(candidates, *event.AssigneeID)
		}
	case events.EventTicketUpdated:
		candidates = append(candidates, event.AuthorID)
		if event.AssigneeID != nil {
			candidates = append(candidates, *event.AssigneeID)
		}
	case events.EventTicketAssigned:
		candidates = append(candidates, event.AuthorID)
		if event.AssigneeID != nil {
			candidates = append(candidates, *event.AssigneeID)
		}
	case events.EventTicketVoted:
		if event.AssigneeID != nil {
			candidates = append(candidates, *event.AssigneeID)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	recipients := make([]string, 0, len(candidates))
	for _, userID := range candidates {
		if userID == "" || userID == event.ActorID {
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		recipients = append(recipients, userID)
	}
	return recipients
}

func messageFor(event events.Event) string {
	switch event.Type {
	case events.EventTicketCreated:
		return "A new ticket was assigned to you"
	case events.EventTicketAssigned:
		return "Ticket assignment changed"
	case events.EventTicketVoted:
		return fmt.Sprintf("Your ticket received a %s vote", event.Detail)
	default:
		if event.Detail != "" {
			return "Ticket updated: " + event.Detail
		}
		return "Ticket updated"
	}
}

// ListForUser returns the recipient's own notifications, newest first.
func (f *Fanout) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return f.store.Notifications().ListByUser(ctx, userID, limit)
}

// MarkRead flips a notification to read. Marking twice is a no-op, not an
// error; a missing id or one belonging to another user reports NotFound.
func (f *Fanout) MarkRead(ctx context.Context, notificationID, requestingUserID string) error {
	notification, err := f.store.Notifications().GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", map[string]any{"id": notificationID})
		}
		return apperrors.MapError(err)
	}
	if notification.UserID != requestingUserID {
		return apperrors.NewNotFound("notification", map[string]any{"id": notificationID})
	}
	if notification.Read {
		return nil
	}
	if err := f.store.Notifications().MarkRead(ctx, notificationID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
