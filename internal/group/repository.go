package group

import (
	"context"
	"errors"
)

// ErrGroupNotFound is returned when a group record is not found.
var ErrGroupNotFound = errors.New("group not found")

// ErrDuplicateGroupName is returned when the organization already has a group
// with the same name.
var ErrDuplicateGroupName = errors.New("group name already exists in organization")

// ErrMemberNotFound is returned when a group membership row is not found.
var ErrMemberNotFound = errors.New("group member not found")

// Repository provides operations on the groups and group_members tables.
type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id int64) (*Group, error)
	ListByOrg(ctx context.Context, orgID int64) ([]Group, error)
	Delete(ctx context.Context, id int64) error

	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	ListMembers(ctx context.Context, groupID int64) ([]Member, error)
}
