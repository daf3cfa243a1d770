package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new role record.
func (r *PostgresRepository) Create(ctx context.Context, role *Role) error {
	query := `
		INSERT INTO roles (name, is_admin)
		VALUES ($1, $2)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, role.Name, role.IsAdmin).Scan(&role.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRoleName
		}
		return fmt.Errorf("inserting role: %w", err)
	}

	return nil
}

// Ensure returns the role with the given name, inserting it when absent.
// The no-op DO UPDATE makes the insert return the existing row instead of
// nothing on conflict.
func (r *PostgresRepository) Ensure(ctx context.Context, name string, isAdmin bool) (*Role, error) {
	query := `
		INSERT INTO roles (name, is_admin)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, is_admin`

	var role Role
	err := r.pool.QueryRow(ctx, query, name, isAdmin).Scan(&role.ID, &role.Name, &role.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("ensuring role: %w", err)
	}

	return &role, nil
}

// GetByID retrieves a single role by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Role, error) {
	query := `SELECT id, name, is_admin FROM roles WHERE id = $1`

	var role Role
	err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.IsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("querying role: %w", err)
	}

	return &role, nil
}

// List retrieves all roles ordered by ID.
func (r *PostgresRepository) List(ctx context.Context) ([]Role, error) {
	query := `SELECT id, name, is_admin FROM roles ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.IsAdmin); err != nil {
			return nil, fmt.Errorf("scanning role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating role rows: %w", err)
	}

	if roles == nil {
		roles = []Role{}
	}

	return roles, nil
}

// Update modifies the name and is_admin flag of an existing role.
func (r *PostgresRepository) Update(ctx context.Context, role *Role) error {
	query := `UPDATE roles SET name = $2, is_admin = $3 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, role.ID, role.Name, role.IsAdmin)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRoleName
		}
		return fmt.Errorf("updating role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRoleNotFound
	}

	return nil
}

// Delete removes a role by its ID. Returns ErrRoleInUse if users still
// reference it (FK RESTRICT).
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM roles WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrRoleInUse
		}
		return fmt.Errorf("deleting role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRoleNotFound
	}

	return nil
}
