package org

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

const orgColumns = `id, name, org_number, email, phone, address, city, country, created_at`

func scanOrg(row pgx.Row, o *Organization) error {
	return row.Scan(
		&o.ID, &o.Name, &o.OrgNumber, &o.Email, &o.Phone,
		&o.Address, &o.City, &o.Country, &o.CreatedAt,
	)
}

// Create inserts a new organization record.
func (r *PostgresRepository) Create(ctx context.Context, o *Organization) error {
	query := `
		INSERT INTO organizations (name, org_number, email, phone, address, city, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		o.Name, o.OrgNumber, o.Email, o.Phone, o.Address, o.City, o.Country,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateOrgName
		}
		return fmt.Errorf("inserting organization: %w", err)
	}

	return nil
}

// GetByID retrieves a single organization by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`

	var o Organization
	err := scanOrg(r.pool.QueryRow(ctx, query, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("querying organization: %w", err)
	}

	return &o, nil
}

// List retrieves all organizations ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var o Organization
		if err := scanOrg(rows, &o); err != nil {
			return nil, fmt.Errorf("scanning organization row: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating organization rows: %w", err)
	}

	if orgs == nil {
		orgs = []Organization{}
	}

	return orgs, nil
}

// Update modifies the non-nil fields of an organization and returns the
// updated record.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*Organization, error) {
	var sets []string
	var args []any
	args = append(args, id)

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", fields.Name)
	add("org_number", fields.OrgNumber)
	add("email", fields.Email)
	add("phone", fields.Phone)
	add("address", fields.Address)
	add("city", fields.City)
	add("country", fields.Country)

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `
		UPDATE organizations
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + orgColumns

	var o Organization
	err := scanOrg(r.pool.QueryRow(ctx, query, args...), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrgNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateOrgName
		}
		return nil, fmt.Errorf("updating organization: %w", err)
	}

	return &o, nil
}

// Delete removes an organization by its ID. Users, projects and groups owned
// by the organization are removed by FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrOrgNotFound
	}

	return nil
}
