package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type pgHistoryRepository struct {
	q Querier
}

// Append writes one immutable entry. The seq column preserves insertion
// order regardless of clock skew between writers.
func (r *pgHistoryRepository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, user_id, action, details)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.q.QueryRow(ctx, query,
		entry.TicketID,
		entry.UserID,
		entry.Action,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *pgHistoryRepository) Query(ctx context.Context, filter HistoryFilter, limit int) ([]domain.HistoryEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Action != nil {
		args = append(args, *filter.Action)
		clauses = append(clauses, fmt.Sprintf("action=$%d", len(args)))
	}
	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
        SELECT id, ticket_id, user_id, action, details, created_at
        FROM ticket_history WHERE %s
        ORDER BY created_at DESC, seq DESC LIMIT %d`,
		strings.Join(clauses, " AND "), limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
