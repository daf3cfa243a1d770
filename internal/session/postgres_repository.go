package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTokenRepository implements TokenRepository using pgxpool.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository backed by the given connection pool.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

// Replace installs the token for the user. The upsert on the user-ID primary
// key replaces any prior row in a single statement, so concurrent logins for
// the same user always leave exactly one row.
func (r *PostgresTokenRepository) Replace(ctx context.Context, userID int64, value string, expiresAt time.Time) error {
	query := `
		INSERT INTO tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`

	if _, err := r.pool.Exec(ctx, query, userID, value, expiresAt); err != nil {
		return fmt.Errorf("replacing token: %w", err)
	}

	return nil
}

// Get retrieves a token row by its unique value.
func (r *PostgresTokenRepository) Get(ctx context.Context, value string) (*Token, error) {
	query := `SELECT user_id, token, expires_at FROM tokens WHERE token = $1`

	var t Token
	err := r.pool.QueryRow(ctx, query, value).Scan(&t.UserID, &t.Value, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("querying token: %w", err)
	}

	return &t, nil
}

// Delete removes a token row keyed by its value. Deleting by value means a
// token reissued concurrently for the same user is never clobbered.
func (r *PostgresTokenRepository) Delete(ctx context.Context, value string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM tokens WHERE token = $1`, value); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}

	return nil
}
