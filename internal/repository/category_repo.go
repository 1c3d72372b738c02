package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"okane/internal/model"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// ListVisible returns the shared defaults (user_id IS NULL) plus the user's
// own categories.
func (r *CategoryRepository) ListVisible(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name FROM categories
		 WHERE user_id IS NULL OR user_id = $1
		 ORDER BY user_id NULLS FIRST, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindVisibleByID(ctx context.Context, id string, userID string) (model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name FROM categories
		 WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Category{}, model.ErrCategoryNotFound
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c model.Category) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, user_id, name) VALUES ($1, $2, $3)`,
		c.ID, c.UserID, c.Name)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Delete removes one of the user's own categories. Shared defaults have a
// NULL user_id and never match.
func (r *CategoryRepository) Delete(ctx context.Context, id string, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
