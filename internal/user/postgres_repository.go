package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const userColumns = `u.id, u.email, u.password_hash, u.name, u.tel, u.address,
	       u.city, u.country, u.role_id, u.organization_id, u.created_at,
	       r.id, r.name, r.is_admin`

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Tel, &u.Address,
		&u.City, &u.Country, &u.RoleID, &u.OrganizationID, &u.CreatedAt,
		&u.Role.ID, &u.Role.Name, &u.Role.IsAdmin,
	)
}

// Create inserts a new user record and loads the role snapshot.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password_hash, name, tel, address, city, country, role_id, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.Tel, u.Address,
		u.City, u.Country, u.RoleID, u.OrganizationID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	loaded, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Role = loaded.Role

	return nil
}

// GetByID retrieves a single user by its ID with the role joined in.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.id = $1`

	var u User
	err := scanUser(r.pool.QueryRow(ctx, query, id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a single user by its unique email with the role joined in.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.email = $1`

	var u User
	err := scanUser(r.pool.QueryRow(ctx, query, email), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	return &u, nil
}

// List retrieves all users with role info, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN roles r ON u.role_id = r.id
		ORDER BY u.id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return users, nil
}

// Update modifies the non-nil fields of a user and returns the updated record.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*User, error) {
	var sets []string
	var args []any
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.PasswordHash != nil {
		add("password_hash", *fields.PasswordHash)
	}
	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Tel != nil {
		add("tel", *fields.Tel)
	}
	if fields.Address != nil {
		add("address", *fields.Address)
	}
	if fields.City != nil {
		add("city", *fields.City)
	}
	if fields.Country != nil {
		add("country", *fields.Country)
	}
	if fields.RoleID != nil {
		add("role_id", *fields.RoleID)
	}
	if fields.OrganizationID != nil {
		add("organization_id", *fields.OrganizationID)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a user by its ID. Owned projects, memberships and the token
// row are removed by FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
