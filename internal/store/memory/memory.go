// Package memory provides a mutex-guarded in-memory Store. It backs the
// test suite and lets the service boot without a POSTGRES_DSN.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
)

// Store keeps everything in maps under one lock. Counter bumps happen
// under that lock, so concurrent increments are never lost.
type Store struct {
	mu sync.Mutex
	// txMu serializes WithTx blocks so a mutation and its audit entry are
	// always observed together.
	txMu sync.Mutex

	tickets       map[string]*domain.Ticket
	history       []*domain.HistoryEntry
	notifications map[string]*domain.Notification
	users         map[string]*domain.User
	slas          map[string]*domain.SLAPolicy
	categories    map[string]*domain.Category
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		tickets:       make(map[string]*domain.Ticket),
		notifications: make(map[string]*domain.Notification),
		users:         make(map[string]*domain.User),
		slas:          make(map[string]*domain.SLAPolicy),
		categories:    make(map[string]*domain.Category),
	}
}

func (s *Store) Tickets() store.TicketRepository             { return &ticketRepo{s: s} }
func (s *Store) History() store.HistoryRepository            { return &historyRepo{s: s} }
func (s *Store) Notifications() store.NotificationRepository { return &notificationRepo{s: s} }
func (s *Store) Users() store.UserRepository                 { return &userRepo{s: s} }
func (s *Store) SLAs() store.SLARepository                   { return &slaRepo{s: s} }
func (s *Store) Categories() store.CategoryRepository        { return &categoryRepo{s: s} }

func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

// SeedCategory inserts reference data for tests and DSN-less boots.
func (s *Store) SeedCategory(category domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := category
	s.categories[c.ID] = &c
}

// SeedSLA inserts an SLA policy.
func (s *Store) SeedSLA(policy domain.SLAPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := policy
	s.slas[p.ID] = &p
}

type ticketRepo struct {
	s *Store
}

func (r *ticketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	clone := *ticket
	r.s.tickets[ticket.ID] = &clone
	return nil
}

func (r *ticketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *ticketRepo) GetProjection(ctx context.Context, id string) (*domain.TicketProjection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	proj := domain.TicketProjection{Ticket: *ticket}
	if category, ok := r.s.categories[ticket.CategoryID]; ok {
		proj.CategoryName = category.Name
	}
	if author, ok := r.s.users[ticket.AuthorID]; ok {
		proj.AuthorName = author.Name
	}
	if ticket.AssigneeID != nil {
		if assignee, ok := r.s.users[*ticket.AssigneeID]; ok {
			name := assignee.Name
			proj.AssigneeName = &name
		}
	}
	return &proj, nil
}

func (r *ticketRepo) List(ctx context.Context, authorID *string, limit, offset int) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.s.tickets {
		if authorID != nil && ticket.AuthorID != *authorID {
			continue
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(result) {
		return nil, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

func (r *ticketRepo) UpdateFields(ctx context.Context, id string, update store.TicketUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if update.Title != nil {
		ticket.Title = *update.Title
	}
	if update.Description != nil {
		ticket.Description = *update.Description
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	if update.CategoryID != nil {
		ticket.CategoryID = *update.CategoryID
	}
	if update.AssigneeID != nil {
		assignee := *update.AssigneeID
		ticket.AssigneeID = &assignee
	}
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *ticketRepo) IncrementCounter(ctx context.Context, id string, counter store.Counter, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	switch counter {
	case store.CounterHelpful:
		ticket.HelpfulCount += delta
	case store.CounterNotHelpful:
		ticket.NotHelpfulCount += delta
	case store.CounterViews:
		ticket.ViewCount += delta
	default:
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	return nil
}

func (r *ticketRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.tickets, id)
	// cascade: history and notifications belong to the ticket
	kept := r.s.history[:0]
	for _, entry := range r.s.history {
		if entry.TicketID != id {
			kept = append(kept, entry)
		}
	}
	r.s.history = kept
	for nid, n := range r.s.notifications {
		if n.TicketID == id {
			delete(r.s.notifications, nid)
		}
	}
	return nil
}

type historyRepo struct {
	s *Store
}

func (r *historyRepo) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	clone := *entry
	r.s.history = append(r.s.history, &clone)
	return nil
}

func (r *historyRepo) Query(ctx context.Context, filter store.HistoryFilter, limit int) ([]domain.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	var result []domain.HistoryEntry
	// reverse insertion order: newest first even when timestamps collide
	for i := len(r.s.history) - 1; i >= 0 && len(result) < limit; i-- {
		entry := r.s.history[i]
		if filter.UserID != nil && entry.UserID != *filter.UserID {
			continue
		}
		if filter.Action != nil && entry.Action != *filter.Action {
			continue
		}
		if filter.TicketID != nil && entry.TicketID != *filter.TicketID {
			continue
		}
		result = append(result, *entry)
	}
	return result, nil
}

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	clone := *notification
	r.s.notifications[notification.ID] = &clone
	return nil
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification, ok := r.s.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *notification
	return &clone, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var result []domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification, ok := r.s.notifications[id]
	if !ok {
		return pgx.ErrNoRows
	}
	notification.Read = true
	return nil
}

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type slaRepo struct {
	s *Store
}

func (r *slaRepo) List(ctx context.Context) ([]domain.SLAPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.SLAPolicy
	for _, policy := range r.s.slas {
		result = append(result, *policy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ResponseTimeMin < result[j].ResponseTimeMin
	})
	return result, nil
}

func (r *slaRepo) GetByID(ctx context.Context, id string) (*domain.SLAPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	policy, ok := r.s.slas[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *policy
	return &clone, nil
}

type categoryRepo struct {
	s *Store
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category, ok := r.s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Category
	for _, category := range r.s.categories {
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
