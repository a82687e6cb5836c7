package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type pgTicketRepository struct {
	q Querier
}

const ticketColumns = `id, title, description, status, priority, category_id, author_id, assignee_id,
       helpful_count, not_helpful_count, view_count, created_at, updated_at`

func (r *pgTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, category_id, author_id, assignee_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.q.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CategoryID,
		ticket.AuthorID,
		ticket.AssigneeID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *pgTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(r.q.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *pgTicketRepository) GetProjection(ctx context.Context, id string) (*domain.TicketProjection, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.status, t.priority, t.category_id, t.author_id, t.assignee_id,
               t.helpful_count, t.not_helpful_count, t.view_count, t.created_at, t.updated_at,
               c.name, a.name, s.name
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        JOIN users a ON a.id = t.author_id
        LEFT JOIN users s ON s.id = t.assignee_id
        WHERE t.id=$1`
	var proj domain.TicketProjection
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&proj.ID,
		&proj.Title,
		&proj.Description,
		&proj.Status,
		&proj.Priority,
		&proj.CategoryID,
		&proj.AuthorID,
		&proj.AssigneeID,
		&proj.HelpfulCount,
		&proj.NotHelpfulCount,
		&proj.ViewCount,
		&proj.CreatedAt,
		&proj.UpdatedAt,
		&proj.CategoryName,
		&proj.AuthorName,
		&proj.AssigneeName,
	); err != nil {
		return nil, err
	}
	return &proj, nil
}

func (r *pgTicketRepository) List(ctx context.Context, authorID *string, limit, offset int) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if authorID != nil {
		args = append(args, *authorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *pgTicketRepository) UpdateFields(ctx context.Context, id string, update TicketUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description=$%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.Priority != nil {
		args = append(args, *update.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if update.CategoryID != nil {
		args = append(args, *update.CategoryID)
		sets = append(sets, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if update.AssigneeID != nil {
		args = append(args, *update.AssigneeID)
		sets = append(sets, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IncrementCounter applies an atomic store-side delta. The column is
// chosen by an explicit switch over the closed Counter set, never from
// caller-supplied input.
func (r *pgTicketRepository) IncrementCounter(ctx context.Context, id string, counter Counter, delta int64) error {
	var column string
	switch counter {
	case CounterHelpful:
		column = "helpful_count"
	case CounterNotHelpful:
		column = "not_helpful_count"
	case CounterViews:
		column = "view_count"
	default:
		return fmt.Errorf("unknown counter %q", counter)
	}

	query := fmt.Sprintf(`UPDATE tickets SET %s = %s + $1, updated_at=NOW() WHERE id=$2`, column, column)
	cmd, err := r.q.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgTicketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CategoryID,
		&ticket.AuthorID,
		&ticket.AssigneeID,
		&ticket.HelpfulCount,
		&ticket.NotHelpfulCount,
		&ticket.ViewCount,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}
