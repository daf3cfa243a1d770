package ailog

import (
	"context"
	"errors"
	"fmt"

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

// Create appends a new request log record.
func (p *PostgresRepository) Create(ctx context.Context, l *RequestLog) error {
	query := `
		INSERT INTO request_logs (project_id, endpoint, input_text, output_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := p.pool.QueryRow(ctx, query,
		l.ProjectID, l.Endpoint, l.InputText, l.OutputText,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting request log: %w", err)
	}

	return nil
}

// GetByID retrieves a request log by its ID, scoped to the project.
func (p *PostgresRepository) GetByID(ctx context.Context, projectID, id int64) (*RequestLog, error) {
	query := `
		SELECT id, project_id, endpoint, input_text, output_text, created_at
		FROM request_logs
		WHERE id = $1 AND project_id = $2`

	var l RequestLog
	err := p.pool.QueryRow(ctx, query, id, projectID).Scan(
		&l.ID, &l.ProjectID, &l.Endpoint, &l.InputText, &l.OutputText, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("querying request log: %w", err)
	}

	return &l, nil
}

// ListByProject retrieves a project's request logs, newest first.
func (p *PostgresRepository) ListByProject(ctx context.Context, projectID int64) ([]RequestLog, error) {
	query := `
		SELECT id, project_id, endpoint, input_text, output_text, created_at
		FROM request_logs
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing request logs: %w", err)
	}
	defer rows.Close()

	var logs []RequestLog
	for rows.Next() {
		var l RequestLog
		err := rows.Scan(&l.ID, &l.ProjectID, &l.Endpoint, &l.InputText, &l.OutputText, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning request log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating request log rows: %w", err)
	}

	if logs == nil {
		logs = []RequestLog{}
	}

	return logs, nil
}
