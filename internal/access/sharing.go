package access

import (
	"context"

	"github.com/tmshq/tms/internal/group"
	"github.com/tmshq/tms/internal/project"
	"github.com/tmshq/tms/internal/session"
	"github.com/tmshq/tms/internal/user"
)

// Sharing mutates project and group memberships. Every project-scoped
// mutation passes CheckAdmin first; each row change is a single atomic
// statement against the store.
type Sharing struct {
	resolver      *Resolver
	projects      project.Repository
	users         user.Repository
	groups        group.Repository
	allowCrossOrg bool
}

// NewSharing creates a new Sharing service. allowCrossOrg permits inviting
// users from outside the project's organization; group attachments are always
// confined to one organization regardless of the flag.
func NewSharing(resolver *Resolver, projects project.Repository, users user.Repository, groups group.Repository, allowCrossOrg bool) *Sharing {
	return &Sharing{
		resolver:      resolver,
		projects:      projects,
		users:         users,
		groups:        groups,
		allowCrossOrg: allowCrossOrg,
	}
}

func sameOrg(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// AddUserMember grants the user identified by email access to the project,
// updating the access level in place when a membership row already exists.
func (s *Sharing) AddUserMember(ctx context.Context, actor *session.Actor, projectID int64, email, accessLevel string) (*project.Member, error) {
	p, err := s.resolver.CheckAdmin(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	level, ok := NormalizeAccessLevel(accessLevel)
	if !ok {
		return nil, ErrInvalidAccessLevel
	}

	target, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if target.ID == p.OwnerUserID {
		return nil, ErrOwnerAlreadyHasAccess
	}

	if !s.allowCrossOrg && !sameOrg(target.OrganizationID, p.OrganizationID) {
		return nil, ErrCrossOrganizationNotAllowed
	}

	return s.projects.UpsertMember(ctx, projectID, target.ID, level)
}

// RemoveUserMember revokes a direct membership row from the project.
func (s *Sharing) RemoveUserMember(ctx context.Context, actor *session.Actor, projectID, memberID int64) error {
	if _, err := s.resolver.CheckAdmin(ctx, actor, projectID); err != nil {
		return err
	}

	return s.projects.RemoveMember(ctx, projectID, memberID)
}

// UpdateMemberAccess changes the access level on an existing membership row.
func (s *Sharing) UpdateMemberAccess(ctx context.Context, actor *session.Actor, projectID, memberID int64, accessLevel string) (*project.Member, error) {
	if _, err := s.resolver.CheckAdmin(ctx, actor, projectID); err != nil {
		return nil, err
	}

	level, ok := NormalizeAccessLevel(accessLevel)
	if !ok {
		return nil, ErrInvalidAccessLevel
	}

	return s.projects.UpdateMemberLevel(ctx, projectID, memberID, level)
}

// AttachGroup attaches a group to the project with the given access level,
// updating the level in place when the attachment already exists. The group
// must belong to the project's organization.
func (s *Sharing) AttachGroup(ctx context.Context, actor *session.Actor, projectID, groupID int64, accessLevel string) (*project.GroupMember, error) {
	p, err := s.resolver.CheckAdmin(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	level, ok := NormalizeAccessLevel(accessLevel)
	if !ok {
		return nil, ErrInvalidAccessLevel
	}

	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if p.OrganizationID == nil || *p.OrganizationID != g.OrganizationID {
		return nil, ErrCrossOrganizationNotAllowed
	}

	return s.projects.UpsertGroupMember(ctx, projectID, groupID, level)
}

// UpdateGroupAccess changes the access level on an existing group attachment.
func (s *Sharing) UpdateGroupAccess(ctx context.Context, actor *session.Actor, projectID, memberID int64, accessLevel string) (*project.GroupMember, error) {
	if _, err := s.resolver.CheckAdmin(ctx, actor, projectID); err != nil {
		return nil, err
	}

	level, ok := NormalizeAccessLevel(accessLevel)
	if !ok {
		return nil, ErrInvalidAccessLevel
	}

	return s.projects.UpdateGroupMemberLevel(ctx, projectID, memberID, level)
}

// DetachGroup removes a group attachment from the project.
func (s *Sharing) DetachGroup(ctx context.Context, actor *session.Actor, projectID, memberID int64) error {
	if _, err := s.resolver.CheckAdmin(ctx, actor, projectID); err != nil {
		return err
	}

	return s.projects.RemoveGroupMember(ctx, projectID, memberID)
}

// ListMembers returns the project's direct members and attached groups. Any
// actor with view access may list; group rows are informational and do not
// grant their members access.
func (s *Sharing) ListMembers(ctx context.Context, actor *session.Actor, projectID int64) ([]project.Member, []project.GroupMember, error) {
	if _, err := s.resolver.CheckAccess(ctx, actor, projectID, LevelView); err != nil {
		return nil, nil, err
	}

	members, err := s.projects.ListMembers(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	groupMembers, err := s.projects.ListGroupMembers(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	return members, groupMembers, nil
}

// AddGroupUser adds a user to a group. The actor and the target user must both
// belong to the group's organization; a group never spans organizations.
func (s *Sharing) AddGroupUser(ctx context.Context, actor *session.Actor, groupID, userID int64) error {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if actor.OrganizationID == nil || *actor.OrganizationID != g.OrganizationID {
		return group.ErrGroupNotFound
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if target.OrganizationID == nil || *target.OrganizationID != g.OrganizationID {
		return ErrCrossOrganizationNotAllowed
	}

	return s.groups.AddMember(ctx, groupID, userID)
}

// RemoveGroupUser removes a user from a group in the actor's organization.
func (s *Sharing) RemoveGroupUser(ctx context.Context, actor *session.Actor, groupID, userID int64) error {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if actor.OrganizationID == nil || *actor.OrganizationID != g.OrganizationID {
		return group.ErrGroupNotFound
	}

	return s.groups.RemoveMember(ctx, groupID, userID)
}
