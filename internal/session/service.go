package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/tmshq/tms/internal/user"
)

// Service issues, resolves and revokes bearer-token sessions. A user holds at
// most one active session at a time; issuing replaces any prior token.
type Service struct {
	tokenRepo TokenRepository
	userRepo  user.Repository
	ttl       time.Duration
}

// NewService creates a new session Service. ttlDays is the token lifetime in
// days from issuance.
func NewService(tokenRepo TokenRepository, userRepo user.Repository, ttlDays int) *Service {
	return &Service{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		ttl:       time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Issue generates a new opaque token for the user, replacing any existing one,
// and returns the token value with its absolute expiry. The token is 32 random
// bytes encoded as URL-safe base64.
func (s *Service) Issue(ctx context.Context, userID int64) (string, time.Time, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("generating random bytes: %w", err)
	}

	value := base64.RawURLEncoding.EncodeToString(b)
	expiresAt := time.Now().Add(s.ttl).UTC()

	if err := s.tokenRepo.Replace(ctx, userID, value, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	return value, expiresAt, nil
}

// Resolve looks up the presented token and returns the owning user as an
// Actor with its role snapshot. An expired token row is deleted before
// ErrTokenExpired surfaces, so a second resolve of the same value reports
// ErrTokenNotFound.
func (s *Service) Resolve(ctx context.Context, value string) (*Actor, error) {
	t, err := s.tokenRepo.Get(ctx, value)
	if err != nil {
		return nil, err
	}

	if !t.ExpiresAt.After(time.Now()) {
		if err := s.tokenRepo.Delete(ctx, value); err != nil {
			return nil, err
		}
		return nil, ErrTokenExpired
	}

	u, err := s.userRepo.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return actorFromUser(u), nil
}

// Revoke deletes the token row if present. Revoking an unknown token is not
// an error.
func (s *Service) Revoke(ctx context.Context, value string) error {
	return s.tokenRepo.Delete(ctx, value)
}
