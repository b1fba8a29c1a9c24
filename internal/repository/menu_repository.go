package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
)

const menuColumns = `m.id, m.name, m.slug, m.price, m.description, m.image_url, m.stock, m.status,
        m.menu_category_id, c.name, m.deleted_at, m.created_at, m.updated_at`

// MenuListParams narrows and orders menu listings.
type MenuListParams struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	SortBy    string
	SortOrder string
}

// MenuRepository defines persistence access for menu items. All reads are
// scoped to non-deleted rows.
type MenuRepository interface {
	Create(ctx context.Context, menu *domain.Menu) error
	Update(ctx context.Context, menu *domain.Menu) error
	GetByID(ctx context.Context, id string) (*domain.Menu, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Menu, error)
	FindDuplicateSlug(ctx context.Context, slug, excludeID string) (*domain.Menu, error)
	List(ctx context.Context, params MenuListParams) ([]domain.Menu, int, error)
	ListAll(ctx context.Context) ([]domain.Menu, error)
	SoftDelete(ctx context.Context, id string) (*domain.Menu, error)
}

type menuRepository struct {
	pool *pgxpool.Pool
}

// NewMenuRepository returns a Postgres-backed implementation.
func NewMenuRepository(pool *pgxpool.Pool) MenuRepository {
	return &menuRepository{pool: pool}
}

func scanMenu(row pgx.Row) (*domain.Menu, error) {
	var menu domain.Menu
	if err := row.Scan(
		&menu.ID,
		&menu.Name,
		&menu.Slug,
		&menu.Price,
		&menu.Description,
		&menu.ImageURL,
		&menu.Stock,
		&menu.Status,
		&menu.MenuCategoryID,
		&menu.CategoryName,
		&menu.DeletedAt,
		&menu.CreatedAt,
		&menu.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) Create(ctx context.Context, menu *domain.Menu) error {
	const query = `
        INSERT INTO menus (name, slug, price, description, image_url, stock, status, menu_category_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		menu.Name,
		menu.Slug,
		menu.Price,
		menu.Description,
		menu.ImageURL,
		menu.Stock,
		menu.Status,
		menu.MenuCategoryID,
	).Scan(&menu.ID, &menu.CreatedAt, &menu.UpdatedAt)
}

func (r *menuRepository) Update(ctx context.Context, menu *domain.Menu) error {
	const query = `
        UPDATE menus
        SET name=$1, slug=$2, price=$3, description=$4, image_url=$5, stock=$6, status=$7,
            menu_category_id=$8, updated_at=NOW()
        WHERE id=$9 AND deleted_at IS NULL
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		menu.Name,
		menu.Slug,
		menu.Price,
		menu.Description,
		menu.ImageURL,
		menu.Stock,
		menu.Status,
		menu.MenuCategoryID,
		menu.ID,
	).Scan(&menu.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *menuRepository) GetByID(ctx context.Context, id string) (*domain.Menu, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE m.id=$1 AND m.deleted_at IS NULL`, menuColumns)
	return scanMenu(r.pool.QueryRow(ctx, query, id))
}

func (r *menuRepository) GetBySlug(ctx context.Context, slug string) (*domain.Menu, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE m.slug=$1 AND m.deleted_at IS NULL`, menuColumns)
	return scanMenu(r.pool.QueryRow(ctx, query, slug))
}

func (r *menuRepository) FindDuplicateSlug(ctx context.Context, slug, excludeID string) (*domain.Menu, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE m.slug=$1 AND m.deleted_at IS NULL AND ($2 = '' OR m.id <> $2::uuid)
        LIMIT 1`, menuColumns)
	return scanMenu(r.pool.QueryRow(ctx, query, slug, excludeID))
}

var menuSortColumns = map[string]string{
	"name":       "m.name",
	"slug":       "m.slug",
	"price":      "m.price",
	"stock":      "m.stock",
	"status":     "m.status",
	"created_at": "m.created_at",
	"updated_at": "m.updated_at",
}

func (r *menuRepository) List(ctx context.Context, params MenuListParams) ([]domain.Menu, int, error) {
	where := []string{"m.deleted_at IS NULL"}
	args := []any{}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("m.name ILIKE $%d", len(args)))
	}
	if params.Category != "" {
		args = append(args, params.Category)
		where = append(where, fmt.Sprintf("c.name = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `
        SELECT COUNT(*) FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "m.created_at"
	if col, ok := menuSortColumns[params.SortBy]; ok {
		orderBy = col
	}
	direction := "ASC"
	if strings.EqualFold(params.SortOrder, "desc") {
		direction = "DESC"
	}

	args = append(args, params.Limit, (params.Page-1)*params.Limit)
	query := fmt.Sprintf(`
        SELECT %s FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d`,
		menuColumns, whereClause, orderBy, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	menus := make([]domain.Menu, 0, params.Limit)
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, 0, err
		}
		menus = append(menus, *menu)
	}
	return menus, total, rows.Err()
}

func (r *menuRepository) ListAll(ctx context.Context) ([]domain.Menu, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE m.deleted_at IS NULL
        ORDER BY m.created_at`, menuColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []domain.Menu
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		menus = append(menus, *menu)
	}
	return menus, rows.Err()
}

// SoftDelete marks a live row as deleted inside one transaction.
func (r *menuRepository) SoftDelete(ctx context.Context, id string) (*domain.Menu, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := fmt.Sprintf(`
        SELECT %s FROM menus m
        LEFT JOIN menu_categories c ON c.id = m.menu_category_id
        WHERE m.id=$1 AND m.deleted_at IS NULL
        FOR UPDATE OF m`, menuColumns)
	menu, err := scanMenu(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	const markQuery = `UPDATE menus SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 RETURNING deleted_at, updated_at`
	if err := tx.QueryRow(ctx, markQuery, id).Scan(&menu.DeletedAt, &menu.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return menu, nil
}
