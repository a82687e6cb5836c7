package store

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Counter names a ticket counter column. The set is closed so callers can
// never select a column dynamically.
type Counter string

const (
	CounterHelpful    Counter = "helpful"
	CounterNotHelpful Counter = "notHelpful"
	CounterViews      Counter = "views"
)

// TicketUpdate carries optional field changes; nil fields are untouched.
type TicketUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	CategoryID  *string
	AssigneeID  *string
}

// HistoryFilter selects audit entries. Set fields combine conjunctively;
// unset fields are not constraints.
type HistoryFilter struct {
	UserID   *string
	Action   *domain.HistoryAction
	TicketID *string
}

// TicketRepository encapsulates ticket persistence. IncrementCounter must
// be an atomic store-side delta so concurrent bumps never lose updates.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetProjection(ctx context.Context, id string) (*domain.TicketProjection, error)
	List(ctx context.Context, authorID *string, limit, offset int) ([]domain.Ticket, error)
	UpdateFields(ctx context.Context, id string, update TicketUpdate) error
	IncrementCounter(ctx context.Context, id string, counter Counter, delta int64) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository stores audit entries. Append-only: there is no update
// or delete operation by construction.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	Query(ctx context.Context, filter HistoryFilter, limit int) ([]domain.HistoryEntry, error)
}

// NotificationRepository stores per-recipient notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SLARepository reads the read-only SLA reference data.
type SLARepository interface {
	List(ctx context.Context) ([]domain.SLAPolicy, error)
	GetByID(ctx context.Context, id string) (*domain.SLAPolicy, error)
}

// CategoryRepository reads ticket categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// Store bundles the repositories behind one handle. WithTx runs fn with a
// store whose writes share a single transaction, so a mutation and its
// audit entry commit or roll back together.
type Store interface {
	Tickets() TicketRepository
	History() HistoryRepository
	Notifications() NotificationRepository
	Users() UserRepository
	SLAs() SLARepository
	Categories() CategoryRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}
