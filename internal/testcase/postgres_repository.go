package testcase

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

const columns = `id, project_id, requirement_id, title, description, steps, preconditions, expected_result, priority, status, created_at`

func scan(row pgx.Row, t *TestCase) error {
	return row.Scan(
		&t.ID, &t.ProjectID, &t.RequirementID, &t.Title, &t.Description, &t.Steps,
		&t.Preconditions, &t.ExpectedResult, &t.Priority, &t.Status, &t.CreatedAt,
	)
}

// Create inserts a new test case record.
func (p *PostgresRepository) Create(ctx context.Context, tc *TestCase) error {
	if tc.Status == "" {
		tc.Status = "draft"
	}

	query := `
		INSERT INTO test_cases (project_id, requirement_id, title, description, steps, preconditions, expected_result, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := p.pool.QueryRow(ctx, query,
		tc.ProjectID, tc.RequirementID, tc.Title, tc.Description, tc.Steps,
		tc.Preconditions, tc.ExpectedResult, tc.Priority, tc.Status,
	).Scan(&tc.ID, &tc.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting test case: %w", err)
	}

	return nil
}

// GetByID retrieves a test case by its ID, scoped to the project.
func (p *PostgresRepository) GetByID(ctx context.Context, projectID, id int64) (*TestCase, error) {
	query := `SELECT ` + columns + ` FROM test_cases WHERE id = $1 AND project_id = $2`

	var t TestCase
	err := scan(p.pool.QueryRow(ctx, query, id, projectID), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestCaseNotFound
		}
		return nil, fmt.Errorf("querying test case: %w", err)
	}

	return &t, nil
}

// ListByProject retrieves a project's test cases, newest first.
func (p *PostgresRepository) ListByProject(ctx context.Context, projectID int64) ([]TestCase, error) {
	query := `SELECT ` + columns + ` FROM test_cases WHERE project_id = $1 ORDER BY id DESC`

	rows, err := p.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing test cases: %w", err)
	}
	defer rows.Close()

	var cases []TestCase
	for rows.Next() {
		var t TestCase
		if err := scan(rows, &t); err != nil {
			return nil, fmt.Errorf("scanning test case row: %w", err)
		}
		cases = append(cases, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating test case rows: %w", err)
	}

	if cases == nil {
		cases = []TestCase{}
	}

	return cases, nil
}

// Update modifies the non-nil fields of a test case and returns the updated record.
func (p *PostgresRepository) Update(ctx context.Context, projectID, id int64, fields UpdateFields) (*TestCase, error) {
	var sets []string
	var args []any
	args = append(args, id, projectID)

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	if fields.RequirementID != nil {
		args = append(args, *fields.RequirementID)
		sets = append(sets, fmt.Sprintf("requirement_id = $%d", len(args)))
	}
	add("title", fields.Title)
	add("description", fields.Description)
	add("steps", fields.Steps)
	add("preconditions", fields.Preconditions)
	add("expected_result", fields.ExpectedResult)
	add("priority", fields.Priority)
	add("status", fields.Status)

	if len(sets) == 0 {
		return p.GetByID(ctx, projectID, id)
	}

	query := `
		UPDATE test_cases
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1 AND project_id = $2
		RETURNING ` + columns

	var t TestCase
	err := scan(p.pool.QueryRow(ctx, query, args...), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTestCaseNotFound
		}
		return nil, fmt.Errorf("updating test case: %w", err)
	}

	return &t, nil
}

// Delete removes a test case, scoped to the project.
func (p *PostgresRepository) Delete(ctx context.Context, projectID, id int64) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM test_cases WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("deleting test case: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTestCaseNotFound
	}

	return nil
}
