package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type pgNotificationRepository struct {
	q Querier
}

func (r *pgNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, ticket_id, message, read)
        VALUES ($1,$2,$3,false)
        RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		notification.UserID,
		notification.TicketID,
		notification.Message,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *pgNotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	const query = `
        SELECT id, user_id, ticket_id, message, read, created_at
        FROM notifications WHERE id=$1`
	var n domain.Notification
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&n.ID,
		&n.UserID,
		&n.TicketID,
		&n.Message,
		&n.Read,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *pgNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, user_id, ticket_id, message, read, created_at
        FROM notifications WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TicketID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead flips read to true. The statement is idempotent: marking an
// already-read notification matches the row and succeeds again.
func (r *pgNotificationRepository) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE notifications SET read=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
