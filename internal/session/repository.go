package session

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when no token row matches the presented value.
var ErrTokenNotFound = errors.New("token not found")

// ErrTokenExpired is returned when the presented token has passed its expiry.
// The row is deleted before the error surfaces.
var ErrTokenExpired = errors.New("token expired")

// ErrUserNotFound is returned when a token resolves but its user no longer exists.
var ErrUserNotFound = errors.New("user not found")

// TokenRepository provides operations on the tokens table.
type TokenRepository interface {
	// Replace atomically installs a new token for the user, discarding any
	// existing row.
	Replace(ctx context.Context, userID int64, value string, expiresAt time.Time) error
	Get(ctx context.Context, value string) (*Token, error)
	// Delete removes a token row if present. Absence is not an error.
	Delete(ctx context.Context, value string) error
}
