package group

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

// Create inserts a new group record.
func (r *PostgresRepository) Create(ctx context.Context, g *Group) error {
	query := `
		INSERT INTO groups (organization_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, g.OrganizationID, g.Name).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateGroupName
		}
		return fmt.Errorf("inserting group: %w", err)
	}

	return nil
}

// GetByID retrieves a single group by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `SELECT id, organization_id, name, created_at FROM groups WHERE id = $1`

	var g Group
	err := r.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.OrganizationID, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("querying group: %w", err)
	}

	return &g, nil
}

// ListByOrg retrieves all groups of an organization ordered by name.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID int64) ([]Group, error) {
	query := `
		SELECT id, organization_id, name, created_at
		FROM groups
		WHERE organization_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group rows: %w", err)
	}

	if groups == nil {
		groups = []Group{}
	}

	return groups, nil
}

// Delete removes a group by its ID. Group memberships and project attachments
// are removed by FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// AddMember inserts a (group, user) membership row. Re-adding an existing
// pair is a no-op.
func (r *PostgresRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("inserting group member: %w", err)
	}

	return nil
}

// RemoveMember deletes a (group, user) membership row.
func (r *PostgresRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("deleting group member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ListMembers retrieves the members of a group with user info joined in.
func (r *PostgresRepository) ListMembers(ctx context.Context, groupID int64) ([]Member, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, u.email, u.name, gm.created_at
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY u.email ASC`

	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Email, &m.UserName, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning group member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group member rows: %w", err)
	}

	if members == nil {
		members = []Member{}
	}

	return members, nil
}
