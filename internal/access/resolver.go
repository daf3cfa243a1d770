package access

import (
	"context"
	"errors"

	"github.com/tmshq/tms/internal/project"
	"github.com/tmshq/tms/internal/session"
)

// Resolver decides whether an actor may view or modify a project. The decision
// walks ownership, then direct membership; group attachments are listing-only
// and never grant access. Extending the walk to group-derived access would be
// a single additional lookup after the direct-membership check.
type Resolver struct {
	projects project.Repository
}

// NewResolver creates a new Resolver.
func NewResolver(projects project.Repository) *Resolver {
	return &Resolver{projects: projects}
}

// CheckAccess returns the project when the actor holds at least the required
// level on it. The owner is allowed unconditionally, regardless of any
// membership row. A direct member is allowed for LevelView always, and for
// LevelEdit only when the row grants editor. An actor with no relation to the
// project gets ErrNoAccess.
func (r *Resolver) CheckAccess(ctx context.Context, actor *session.Actor, projectID int64, level Level) (*project.Project, error) {
	p, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if p.OwnerUserID == actor.UserID {
		return p, nil
	}

	m, err := r.projects.GetMember(ctx, projectID, actor.UserID)
	if err != nil {
		if errors.Is(err, project.ErrMemberNotFound) {
			return nil, ErrNoAccess
		}
		return nil, err
	}

	if level == LevelEdit && !grantsEdit(m.AccessLevel) {
		return nil, ErrInsufficientPermission
	}

	return p, nil
}

// CheckAdmin returns the project when the actor may manage its sharing: the
// owner, or any actor whose role carries the admin flag. This gate applies
// only to membership management, never to ordinary project content access.
func (r *Resolver) CheckAdmin(ctx context.Context, actor *session.Actor, projectID int64) (*project.Project, error) {
	p, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if p.OwnerUserID == actor.UserID || actor.Role.IsAdmin {
		return p, nil
	}

	return nil, ErrInsufficientPermission
}
