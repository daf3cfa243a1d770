package requirement

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

const columns = `id, project_id, title, description, acceptance_criteria, source, external_id, created_at`

func scan(row pgx.Row, r *Requirement) error {
	return row.Scan(
		&r.ID, &r.ProjectID, &r.Title, &r.Description,
		&r.AcceptanceCriteria, &r.Source, &r.ExternalID, &r.CreatedAt,
	)
}

// Create inserts a new requirement record.
func (p *PostgresRepository) Create(ctx context.Context, req *Requirement) error {
	if req.Source == "" {
		req.Source = "manual"
	}

	query := `
		INSERT INTO requirements (project_id, title, description, acceptance_criteria, source, external_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := p.pool.QueryRow(ctx, query,
		req.ProjectID, req.Title, req.Description,
		req.AcceptanceCriteria, req.Source, req.ExternalID,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting requirement: %w", err)
	}

	return nil
}

// GetByID retrieves a requirement by its ID, scoped to the project.
func (p *PostgresRepository) GetByID(ctx context.Context, projectID, id int64) (*Requirement, error) {
	query := `SELECT ` + columns + ` FROM requirements WHERE id = $1 AND project_id = $2`

	var r Requirement
	err := scan(p.pool.QueryRow(ctx, query, id, projectID), &r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("querying requirement: %w", err)
	}

	return &r, nil
}

// ListByProject retrieves a project's requirements, newest first.
func (p *PostgresRepository) ListByProject(ctx context.Context, projectID int64) ([]Requirement, error) {
	query := `SELECT ` + columns + ` FROM requirements WHERE project_id = $1 ORDER BY id DESC`

	rows, err := p.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing requirements: %w", err)
	}
	defer rows.Close()

	var reqs []Requirement
	for rows.Next() {
		var r Requirement
		if err := scan(rows, &r); err != nil {
			return nil, fmt.Errorf("scanning requirement row: %w", err)
		}
		reqs = append(reqs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requirement rows: %w", err)
	}

	if reqs == nil {
		reqs = []Requirement{}
	}

	return reqs, nil
}

// Update modifies the non-nil fields of a requirement and returns the updated record.
func (p *PostgresRepository) Update(ctx context.Context, projectID, id int64, fields UpdateFields) (*Requirement, error) {
	var sets []string
	var args []any
	args = append(args, id, projectID)

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("title", fields.Title)
	add("description", fields.Description)
	add("acceptance_criteria", fields.AcceptanceCriteria)
	add("external_id", fields.ExternalID)

	if len(sets) == 0 {
		return p.GetByID(ctx, projectID, id)
	}

	query := `
		UPDATE requirements
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1 AND project_id = $2
		RETURNING ` + columns

	var r Requirement
	err := scan(p.pool.QueryRow(ctx, query, args...), &r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequirementNotFound
		}
		return nil, fmt.Errorf("updating requirement: %w", err)
	}

	return &r, nil
}

// Delete removes a requirement, scoped to the project.
func (p *PostgresRepository) Delete(ctx context.Context, projectID, id int64) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM requirements WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("deleting requirement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRequirementNotFound
	}

	return nil
}
