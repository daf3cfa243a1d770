package role

import (
	"context"
	"errors"
)

// ErrRoleNotFound is returned when a role record is not found.
var ErrRoleNotFound = errors.New("role not found")

// ErrDuplicateRoleName is returned when a role with the same name already exists.
var ErrDuplicateRoleName = errors.New("role name already exists")

// ErrRoleInUse is returned when attempting to delete a role still referenced by users.
var ErrRoleInUse = errors.New("role is in use by users")

// Repository provides CRUD operations on the roles table.
type Repository interface {
	Create(ctx context.Context, role *Role) error
	// Ensure returns the role with the given name, creating it with the
	// given admin flag when absent.
	Ensure(ctx context.Context, name string, isAdmin bool) (*Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error
}
