package store

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

type pgCategoryRepository struct {
	q Querier
}

func (r *pgCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var category domain.Category
	if err := r.q.QueryRow(ctx, `SELECT id, name FROM categories WHERE id=$1`, id).Scan(
		&category.ID,
		&category.Name,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *pgCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
