package project

import (
	"context"
	"errors"
)

// ErrProjectNotFound is returned when a project record is not found.
var ErrProjectNotFound = errors.New("project not found")

// ErrMemberNotFound is returned when a membership row is not found, or does
// not belong to the given project.
var ErrMemberNotFound = errors.New("project member not found")

// Repository provides operations on the projects, project_members and
// project_group_members tables.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	ListForUser(ctx context.Context, userID int64) ([]Project, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Project, error)
	Delete(ctx context.Context, id int64) error

	GetMember(ctx context.Context, projectID, userID int64) (*Member, error)
	GetMemberByID(ctx context.Context, projectID, memberID int64) (*Member, error)
	UpsertMember(ctx context.Context, projectID, userID int64, accessLevel string) (*Member, error)
	UpdateMemberLevel(ctx context.Context, projectID, memberID int64, accessLevel string) (*Member, error)
	RemoveMember(ctx context.Context, projectID, memberID int64) error
	ListMembers(ctx context.Context, projectID int64) ([]Member, error)

	GetGroupMemberByID(ctx context.Context, projectID, memberID int64) (*GroupMember, error)
	UpsertGroupMember(ctx context.Context, projectID, groupID int64, accessLevel string) (*GroupMember, error)
	UpdateGroupMemberLevel(ctx context.Context, projectID, memberID int64, accessLevel string) (*GroupMember, error)
	RemoveGroupMember(ctx context.Context, projectID, memberID int64) error
	ListGroupMembers(ctx context.Context, projectID int64) ([]GroupMember, error)
}
