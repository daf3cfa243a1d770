package user

import (
	"time"

	"github.com/tmshq/tms/internal/role"
)

// User represents a row in the users table. Role is always populated from a
// join at load time so that permission checks never depend on a deferred
// lookup.
type User struct {
	ID             int64
	Email          string
	PasswordHash   string
	Name           string
	Tel            *string
	Address        *string
	City           *string
	Country        *string
	RoleID         int64
	OrganizationID *int64 // nil for org-less users
	CreatedAt      time.Time

	Role role.Role
}

// UpdateFields holds updatable fields on a user record. Nil fields are not
// updated.
type UpdateFields struct {
	Email          *string
	PasswordHash   *string
	Name           *string
	Tel            *string
	Address        *string
	City           *string
	Country        *string
	RoleID         *int64
	OrganizationID *int64
}
