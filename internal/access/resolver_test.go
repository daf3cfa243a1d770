package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/project"
)

func TestCheckAccess_OwnerAlwaysEdits(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	p, err := f.resolver.CheckAccess(ctx, owner, projectID, access.LevelEdit)
	require.NoError(t, err)
	assert.Equal(t, projectID, p.ID)
}

func TestCheckAccess_OwnerIgnoresViewerRow(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	// A stray membership row never demotes the owner.
	f.grantAccess(t, projectID, owner.UserID, "viewer")

	_, err := f.resolver.CheckAccess(ctx, owner, projectID, access.LevelEdit)
	assert.NoError(t, err)
}

func TestCheckAccess_NoRelation(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	stranger := f.createUser(t, "stranger@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, err := f.resolver.CheckAccess(ctx, stranger, projectID, access.LevelView)
	assert.ErrorIs(t, err, access.ErrNoAccess)
}

func TestCheckAccess_ViewerLevels(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	viewer := f.createUser(t, "viewer@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)
	f.grantAccess(t, projectID, viewer.UserID, "viewer")

	_, err := f.resolver.CheckAccess(ctx, viewer, projectID, access.LevelView)
	assert.NoError(t, err)

	_, err = f.resolver.CheckAccess(ctx, viewer, projectID, access.LevelEdit)
	assert.ErrorIs(t, err, access.ErrInsufficientPermission)
}

func TestCheckAccess_EditorLevels(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	editor := f.createUser(t, "editor@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)
	f.grantAccess(t, projectID, editor.UserID, "editor")

	_, err := f.resolver.CheckAccess(ctx, editor, projectID, access.LevelView)
	assert.NoError(t, err)

	_, err = f.resolver.CheckAccess(ctx, editor, projectID, access.LevelEdit)
	assert.NoError(t, err)
}

func TestCheckAccess_UnknownLevelFailsClosed(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	member := f.createUser(t, "member@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	// A level the application never writes is treated as view-only.
	f.grantAccess(t, projectID, member.UserID, "superuser")

	_, err := f.resolver.CheckAccess(ctx, member, projectID, access.LevelView)
	assert.NoError(t, err)

	_, err = f.resolver.CheckAccess(ctx, member, projectID, access.LevelEdit)
	assert.ErrorIs(t, err, access.ErrInsufficientPermission)
}

func TestCheckAccess_GroupAttachmentGrantsNothing(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	owner := f.createUser(t, "owner@example.com", &orgID, false)
	member := f.createUser(t, "grouped@example.com", &orgID, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &orgID)

	groupID := f.createGroup(t, "qa", orgID)
	require.NoError(t, f.groups.AddMember(ctx, groupID, member.UserID))
	_, err := f.projects.UpsertGroupMember(ctx, projectID, groupID, "editor")
	require.NoError(t, err)

	// Group attachments are listing-only; the member has no direct row.
	_, err = f.resolver.CheckAccess(ctx, member, projectID, access.LevelView)
	assert.ErrorIs(t, err, access.ErrNoAccess)
}

func TestCheckAccess_MissingProject(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	actor := f.createUser(t, "anyone@example.com", nil, false)

	_, err := f.resolver.CheckAccess(context.Background(), actor, 999999, access.LevelView)
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestCheckAdmin_Owner(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	owner := f.createUser(t, "owner@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, err := f.resolver.CheckAdmin(context.Background(), owner, projectID)
	assert.NoError(t, err)
}

func TestCheckAdmin_AdminRole(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	owner := f.createUser(t, "owner@example.com", nil, false)
	admin := f.createUser(t, "admin@example.com", nil, true)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, err := f.resolver.CheckAdmin(context.Background(), admin, projectID)
	assert.NoError(t, err)
}

func TestCheckAdmin_EditorIsNotAdmin(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	editor := f.createUser(t, "editor@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)
	f.grantAccess(t, projectID, editor.UserID, "editor")

	// Edit access on content does not extend to sharing management.
	_, err := f.resolver.CheckAdmin(ctx, editor, projectID)
	assert.ErrorIs(t, err, access.ErrInsufficientPermission)
}
