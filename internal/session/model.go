package session

import (
	"time"

	"github.com/tmshq/tms/internal/role"
	"github.com/tmshq/tms/internal/user"
)

// Token represents a row in the tokens table. The primary key is the user ID,
// so a user structurally holds at most one token.
type Token struct {
	UserID    int64
	Value     string
	ExpiresAt time.Time
}

// Actor is the authenticated identity stored in the request context after a
// token resolves. Role is a snapshot taken at resolution time.
type Actor struct {
	UserID         int64
	Email          string
	Name           string
	OrganizationID *int64 // nil for org-less users
	Role           role.Role
}

func actorFromUser(u *user.User) *Actor {
	return &Actor{
		UserID:         u.ID,
		Email:          u.Email,
		Name:           u.Name,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
	}
}
