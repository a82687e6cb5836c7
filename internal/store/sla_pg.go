package store

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type pgSLARepository struct {
	q Querier
}

func (r *pgSLARepository) List(ctx context.Context) ([]domain.SLAPolicy, error) {
	const query = `
        SELECT id, name, priority, response_time_min, resolution_time_min
        FROM sla_policies ORDER BY response_time_min ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPolicy
	for rows.Next() {
		var policy domain.SLAPolicy
		if err := rows.Scan(
			&policy.ID,
			&policy.Name,
			&policy.Priority,
			&policy.ResponseTimeMin,
			&policy.ResolutionTimeMin,
		); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}

func (r *pgSLARepository) GetByID(ctx context.Context, id string) (*domain.SLAPolicy, error) {
	const query = `
        SELECT id, name, priority, response_time_min, resolution_time_min
        FROM sla_policies WHERE id=$1`
	var policy domain.SLAPolicy
	if err := r.q.QueryRow(ctx, query, id).Scan(
		&policy.ID,
		&policy.Name,
		&policy.Priority,
		&policy.ResponseTimeMin,
		&policy.ResolutionTimeMin,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}
