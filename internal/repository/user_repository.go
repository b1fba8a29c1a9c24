package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
)

const userColumns = `id, email, username, full_name, password_hash, role, status, deleted_at, created_at, updated_at`

// UserListParams narrows and orders user listings.
type UserListParams struct {
	Page      int
	Limit     int
	Search    string
	Role      string
	Status    string
	SortBy    string
	SortOrder string
}

// UserRepository defines persistence access for dashboard users. All reads
// are scoped to non-deleted rows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error)
	FindDuplicate(ctx context.Context, email, username, excludeID string) (*domain.User, error)
	List(ctx context.Context, params UserListParams) ([]domain.User, int, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	SoftDelete(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FullName,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, username, full_name, password_hash, role, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.Role,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users
        SET email=$1, username=$2, full_name=$3, password_hash=$4, role=$5, status=$6, updated_at=NOW()
        WHERE id=$7 AND deleted_at IS NULL
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.Username,
		user.FullName,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.ID,
	).Scan(&user.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1 AND deleted_at IS NULL`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM users
        WHERE (email=$1 OR username=$1) AND deleted_at IS NULL
        LIMIT 1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, identifier))
}

func (r *userRepository) FindDuplicate(ctx context.Context, email, username, excludeID string) (*domain.User, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM users
        WHERE (email=$1 OR username=$2) AND deleted_at IS NULL AND ($3 = '' OR id <> $3::uuid)
        LIMIT 1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, email, username, excludeID))
}

var userSortColumns = map[string]string{
	"email":      "email",
	"username":   "username",
	"full_name":  "full_name",
	"role":       "role",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (r *userRepository) List(ctx context.Context, params UserListParams) ([]domain.User, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		idx := len(args)
		where = append(where, fmt.Sprintf("(email ILIKE $%d OR username ILIKE $%d OR full_name ILIKE $%d)", idx, idx, idx))
	}
	if params.Role != "" {
		args = append(args, params.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM users WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at"
	if col, ok := userSortColumns[params.SortBy]; ok {
		orderBy = col
	}
	direction := "ASC"
	if strings.EqualFold(params.SortOrder, "desc") {
		direction = "DESC"
	}

	args = append(args, params.Limit, (params.Page-1)*params.Limit)
	query := fmt.Sprintf(`
        SELECT %s FROM users WHERE %s
        ORDER BY %s %s
        LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, orderBy, direction, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, params.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE deleted_at IS NULL ORDER BY created_at`, userColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// SoftDelete marks a live row as deleted. The precondition check and the
// mark run in one transaction so two concurrent deletes cannot both pass.
func (r *userRepository) SoftDelete(ctx context.Context, id string) (*domain.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`, userColumns)
	user, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	const markQuery = `UPDATE users SET deleted_at=NOW(), updated_at=NOW() WHERE id=$1 RETURNING deleted_at, updated_at`
	if err := tx.QueryRow(ctx, markQuery, id).Scan(&user.DeletedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return user, nil
}
