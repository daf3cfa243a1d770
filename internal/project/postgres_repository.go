package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
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

const projectColumns = `id, name, description, organization_id, owner_user_id, created_at`

func scanProject(row pgx.Row, p *Project) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.OrganizationID, &p.OwnerUserID, &p.CreatedAt)
}

// Create inserts a new project record.
func (r *PostgresRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (name, description, organization_id, owner_user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.OrganizationID, p.OwnerUserID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	return nil
}

// GetByID retrieves a single project by its ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var p Project
	err := scanProject(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	return &p, nil
}

// ListForUser retrieves the projects the user owns plus those shared with the
// user through a direct membership row, newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]Project, error) {
	query := `
		SELECT DISTINCT p.id, p.name, p.description, p.organization_id, p.owner_user_id, p.created_at
		FROM projects p
		LEFT JOIN project_members pm ON pm.project_id = p.id
		WHERE p.owner_user_id = $1 OR pm.user_id = $1
		ORDER BY p.id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := scanProject(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	if projects == nil {
		projects = []Project{}
	}

	return projects, nil
}

// Update modifies the non-nil fields of a project and returns the updated record.
func (r *PostgresRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*Project, error) {
	var sets []string
	var args []any
	args = append(args, id)

	if fields.Name != nil {
		args = append(args, *fields.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if fields.Description != nil {
		args = append(args, *fields.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := `
		UPDATE projects
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + projectColumns

	var p Project
	err := scanProject(r.pool.QueryRow(ctx, query, args...), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return &p, nil
}

// Delete removes a project by its ID. Memberships, requirements, test cases
// and request logs are removed by FK cascade.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

const memberColumns = `pm.id, pm.project_id, pm.user_id, pm.access_level, u.email, u.name, pm.created_at`

func scanMember(row pgx.Row, m *Member) error {
	return row.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.AccessLevel, &m.Email, &m.UserName, &m.CreatedAt)
}

// GetMember retrieves the direct membership row for a (project, user) pair.
func (r *PostgresRepository) GetMember(ctx context.Context, projectID, userID int64) (*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1 AND pm.user_id = $2`

	var m Member
	err := scanMember(r.pool.QueryRow(ctx, query, projectID, userID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("querying project member: %w", err)
	}

	return &m, nil
}

// GetMemberByID retrieves a membership row by its ID, scoped to the project.
func (r *PostgresRepository) GetMemberByID(ctx context.Context, projectID, memberID int64) (*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.id = $1 AND pm.project_id = $2`

	var m Member
	err := scanMember(r.pool.QueryRow(ctx, query, memberID, projectID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("querying project member: %w", err)
	}

	return &m, nil
}

// UpsertMember inserts a (project, user) membership row, or updates the access
// level of the existing row. The unique constraint on the pair makes the
// replace atomic; concurrent upserts never produce two rows.
func (r *PostgresRepository) UpsertMember(ctx context.Context, projectID, userID int64, accessLevel string) (*Member, error) {
	query := `
		INSERT INTO project_members (project_id, user_id, access_level)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO UPDATE SET access_level = EXCLUDED.access_level
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, projectID, userID, accessLevel).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upserting project member: %w", err)
	}

	return r.GetMemberByID(ctx, projectID, id)
}

// UpdateMemberLevel changes the access level of a membership row in place.
func (r *PostgresRepository) UpdateMemberLevel(ctx context.Context, projectID, memberID int64, accessLevel string) (*Member, error) {
	query := `
		UPDATE project_members
		SET access_level = $3
		WHERE id = $1 AND project_id = $2`

	result, err := r.pool.Exec(ctx, query, memberID, projectID, accessLevel)
	if err != nil {
		return nil, fmt.Errorf("updating project member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, ErrMemberNotFound
	}

	return r.GetMemberByID(ctx, projectID, memberID)
}

// RemoveMember deletes a membership row, scoped to the project.
func (r *PostgresRepository) RemoveMember(ctx context.Context, projectID, memberID int64) error {
	query := `DELETE FROM project_members WHERE id = $1 AND project_id = $2`

	result, err := r.pool.Exec(ctx, query, memberID, projectID)
	if err != nil {
		return fmt.Errorf("deleting project member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ListMembers retrieves the direct members of a project with user info joined in.
func (r *PostgresRepository) ListMembers(ctx context.Context, projectID int64) ([]Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1
		ORDER BY u.email ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := scanMember(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning project member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project member rows: %w", err)
	}

	if members == nil {
		members = []Member{}
	}

	return members, nil
}

const groupMemberColumns = `pgm.id, pgm.project_id, pgm.group_id, pgm.access_level, g.name, pgm.created_at`

func scanGroupMember(row pgx.Row, m *GroupMember) error {
	return row.Scan(&m.ID, &m.ProjectID, &m.GroupID, &m.AccessLevel, &m.GroupName, &m.CreatedAt)
}

// GetGroupMemberByID retrieves a group attachment row by its ID, scoped to the project.
func (r *PostgresRepository) GetGroupMemberByID(ctx context.Context, projectID, memberID int64) (*GroupMember, error) {
	query := `
		SELECT ` + groupMemberColumns + `
		FROM project_group_members pgm
		JOIN groups g ON pgm.group_id = g.id
		WHERE pgm.id = $1 AND pgm.project_id = $2`

	var m GroupMember
	err := scanGroupMember(r.pool.QueryRow(ctx, query, memberID, projectID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("querying project group member: %w", err)
	}

	return &m, nil
}

// UpsertGroupMember inserts a (project, group) attachment row, or updates the
// access level of the existing row.
func (r *PostgresRepository) UpsertGroupMember(ctx context.Context, projectID, groupID int64, accessLevel string) (*GroupMember, error) {
	query := `
		INSERT INTO project_group_members (project_id, group_id, access_level)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, group_id) DO UPDATE SET access_level = EXCLUDED.access_level
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, projectID, groupID, accessLevel).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("upserting project group member: %w", err)
	}

	return r.GetGroupMemberByID(ctx, projectID, id)
}

// UpdateGroupMemberLevel changes the access level of a group attachment row in place.
func (r *PostgresRepository) UpdateGroupMemberLevel(ctx context.Context, projectID, memberID int64, accessLevel string) (*GroupMember, error) {
	query := `
		UPDATE project_group_members
		SET access_level = $3
		WHERE id = $1 AND project_id = $2`

	result, err := r.pool.Exec(ctx, query, memberID, projectID, accessLevel)
	if err != nil {
		return nil, fmt.Errorf("updating project group member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, ErrMemberNotFound
	}

	return r.GetGroupMemberByID(ctx, projectID, memberID)
}

// RemoveGroupMember deletes a group attachment row, scoped to the project.
func (r *PostgresRepository) RemoveGroupMember(ctx context.Context, projectID, memberID int64) error {
	query := `DELETE FROM project_group_members WHERE id = $1 AND project_id = $2`

	result, err := r.pool.Exec(ctx, query, memberID, projectID)
	if err != nil {
		return fmt.Errorf("deleting project group member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// ListGroupMembers retrieves the groups attached to a project with the group
// name joined in.
func (r *PostgresRepository) ListGroupMembers(ctx context.Context, projectID int64) ([]GroupMember, error) {
	query := `
		SELECT ` + groupMemberColumns + `
		FROM project_group_members pgm
		JOIN groups g ON pgm.group_id = g.id
		WHERE pgm.project_id = $1
		ORDER BY g.name ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project group members: %w", err)
	}
	defer rows.Close()

	var members []GroupMember
	for rows.Next() {
		var m GroupMember
		if err := scanGroupMember(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning project group member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project group member rows: %w", err)
	}

	if members == nil {
		members = []GroupMember{}
	}

	return members, nil
}
