package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
)

// MenuCategoryRepository defines persistence access for menu categories.
type MenuCategoryRepository interface {
	Create(ctx context.Context, category *domain.MenuCategory) error
	GetByName(ctx context.Context, name string) (*domain.MenuCategory, error)
	List(ctx context.Context) ([]domain.MenuCategory, error)
}

type menuCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewMenuCategoryRepository returns a Postgres-backed implementation.
func NewMenuCategoryRepository(pool *pgxpool.Pool) MenuCategoryRepository {
	return &menuCategoryRepository{pool: pool}
}

func (r *menuCategoryRepository) Create(ctx context.Context, category *domain.MenuCategory) error {
	const query = `
        INSERT INTO menu_categories (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, category.Name).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *menuCategoryRepository) GetByName(ctx context.Context, name string) (*domain.MenuCategory, error) {
	const query = `
        SELECT id, name, deleted_at, created_at, updated_at
        FROM menu_categories WHERE name=$1 AND deleted_at IS NULL`

	var category domain.MenuCategory
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&category.ID,
		&category.Name,
		&category.DeletedAt,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuCategoryRepository) List(ctx context.Context) ([]domain.MenuCategory, error) {
	const query = `
        SELECT id, name, deleted_at, created_at, updated_at
        FROM menu_categories WHERE deleted_at IS NULL ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.MenuCategory
	for rows.Next() {
		var category domain.MenuCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.DeletedAt,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
