package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/group"
)

func TestAddUserMember_Grant(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	m, err := f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "viewer")
	require.NoError(t, err)
	assert.Equal(t, "viewer", m.AccessLevel)
	assert.Equal(t, "invitee@example.com", m.Email)
}

func TestAddUserMember_UpsertKeepsSingleRow(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	invitee := f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	first, err := f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "viewer")
	require.NoError(t, err)

	// Re-sharing upgrades the row in place rather than stacking a second one.
	second, err := f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "editor")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "editor", second.AccessLevel)

	var count int
	err = f.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM project_members WHERE project_id = $1 AND user_id = $2",
		projectID, invitee.UserID,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddUserMember_ViewerUpgradeTakesEffect(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	invitee := f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, err := f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "viewer")
	require.NoError(t, err)

	_, err = f.resolver.CheckAccess(ctx, invitee, projectID, access.LevelEdit)
	require.ErrorIs(t, err, access.ErrInsufficientPermission)

	_, err = f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "editor")
	require.NoError(t, err)

	_, err = f.resolver.CheckAccess(ctx, invitee, projectID, access.LevelEdit)
	assert.NoError(t, err)
}

func TestAddUserMember_OwnerRejected(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	owner := f.createUser(t, "owner@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, err := f.sharing.AddUserMember(context.Background(), owner, projectID, "owner@example.com", "viewer")
	assert.ErrorIs(t, err, access.ErrOwnerAlreadyHasAccess)
}

func TestAddUserMember_InvalidLevel(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	owner := f.createUser(t, "owner@example.com", nil, false)
	f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, err := f.sharing.AddUserMember(context.Background(), owner, projectID, "invitee@example.com", "superuser")
	assert.ErrorIs(t, err, access.ErrInvalidAccessLevel)
}

func TestAddUserMember_LevelNormalized(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	owner := f.createUser(t, "owner@example.com", nil, false)
	f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	m, err := f.sharing.AddUserMember(context.Background(), owner, projectID, "invitee@example.com", "  Editor ")
	require.NoError(t, err)
	assert.Equal(t, "editor", m.AccessLevel)
}

func TestAddUserMember_NonAdminRejected(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	editor := f.createUser(t, "editor@example.com", nil, false)
	f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)
	f.grantAccess(t, projectID, editor.UserID, "editor")

	_, err := f.sharing.AddUserMember(ctx, editor, projectID, "invitee@example.com", "viewer")
	assert.ErrorIs(t, err, access.ErrInsufficientPermission)
}

func TestAddUserMember_CrossOrgRejected(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	acme := f.createOrg(t, "acme")
	globex := f.createOrg(t, "globex")
	owner := f.createUser(t, "owner@example.com", &acme, false)
	f.createUser(t, "outsider@example.com", &globex, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &acme)

	_, err := f.sharing.AddUserMember(ctx, owner, projectID, "outsider@example.com", "viewer")
	assert.ErrorIs(t, err, access.ErrCrossOrganizationNotAllowed)
}

func TestAddUserMember_CrossOrgAllowedByFlag(t *testing.T) {
	f, cleanup := setupAccess(t, true)
	defer cleanup()

	ctx := context.Background()
	acme := f.createOrg(t, "acme")
	globex := f.createOrg(t, "globex")
	owner := f.createUser(t, "owner@example.com", &acme, false)
	f.createUser(t, "outsider@example.com", &globex, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &acme)

	m, err := f.sharing.AddUserMember(ctx, owner, projectID, "outsider@example.com", "viewer")
	require.NoError(t, err)
	assert.Equal(t, "viewer", m.AccessLevel)
}

func TestRemoveUserMember_RevokesAccess(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	invitee := f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	m, err := f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "editor")
	require.NoError(t, err)

	require.NoError(t, f.sharing.RemoveUserMember(ctx, owner, projectID, m.ID))

	_, err = f.resolver.CheckAccess(ctx, invitee, projectID, access.LevelView)
	assert.ErrorIs(t, err, access.ErrNoAccess)
}

func TestUpdateMemberAccess_Downgrade(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	owner := f.createUser(t, "owner@example.com", nil, false)
	invitee := f.createUser(t, "invitee@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	m, err := f.sharing.AddUserMember(ctx, owner, projectID, "invitee@example.com", "editor")
	require.NoError(t, err)

	updated, err := f.sharing.UpdateMemberAccess(ctx, owner, projectID, m.ID, "viewer")
	require.NoError(t, err)
	assert.Equal(t, "viewer", updated.AccessLevel)

	_, err = f.resolver.CheckAccess(ctx, invitee, projectID, access.LevelEdit)
	assert.ErrorIs(t, err, access.ErrInsufficientPermission)
}

func TestAttachGroup_SameOrg(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	owner := f.createUser(t, "owner@example.com", &orgID, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &orgID)
	groupID := f.createGroup(t, "qa", orgID)

	gm, err := f.sharing.AttachGroup(ctx, owner, projectID, groupID, "viewer")
	require.NoError(t, err)
	assert.Equal(t, "viewer", gm.AccessLevel)
	assert.Equal(t, "qa", gm.GroupName)
}

func TestAttachGroup_CrossOrgAlwaysRejected(t *testing.T) {
	// The cross-org flag covers user invitations only; group attachments
	// never cross organizations.
	f, cleanup := setupAccess(t, true)
	defer cleanup()

	ctx := context.Background()
	acme := f.createOrg(t, "acme")
	globex := f.createOrg(t, "globex")
	owner := f.createUser(t, "owner@example.com", &acme, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &acme)
	groupID := f.createGroup(t, "qa", globex)

	_, err := f.sharing.AttachGroup(ctx, owner, projectID, groupID, "viewer")
	assert.ErrorIs(t, err, access.ErrCrossOrganizationNotAllowed)
}

func TestAttachGroup_OrglessProjectRejected(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	owner := f.createUser(t, "owner@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)
	groupID := f.createGroup(t, "qa", orgID)

	_, err := f.sharing.AttachGroup(ctx, owner, projectID, groupID, "viewer")
	assert.ErrorIs(t, err, access.ErrCrossOrganizationNotAllowed)
}

func TestAttachGroup_UpsertUpdatesLevel(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	owner := f.createUser(t, "owner@example.com", &orgID, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &orgID)
	groupID := f.createGroup(t, "qa", orgID)

	first, err := f.sharing.AttachGroup(ctx, owner, projectID, groupID, "viewer")
	require.NoError(t, err)

	second, err := f.sharing.AttachGroup(ctx, owner, projectID, groupID, "editor")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "editor", second.AccessLevel)
}

func TestListMembers_ViewerMaySee(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	owner := f.createUser(t, "owner@example.com", &orgID, false)
	viewer := f.createUser(t, "viewer@example.com", &orgID, false)
	projectID := f.createProject(t, "alpha", owner.UserID, &orgID)
	groupID := f.createGroup(t, "qa", orgID)

	_, err := f.sharing.AddUserMember(ctx, owner, projectID, "viewer@example.com", "viewer")
	require.NoError(t, err)
	_, err = f.sharing.AttachGroup(ctx, owner, projectID, groupID, "viewer")
	require.NoError(t, err)

	members, groups, err := f.sharing.ListMembers(ctx, viewer, projectID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Len(t, groups, 1)
}

func TestListMembers_StrangerDenied(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	owner := f.createUser(t, "owner@example.com", nil, false)
	stranger := f.createUser(t, "stranger@example.com", nil, false)
	projectID := f.createProject(t, "alpha", owner.UserID, nil)

	_, _, err := f.sharing.ListMembers(context.Background(), stranger, projectID)
	assert.ErrorIs(t, err, access.ErrNoAccess)
}

func TestAddGroupUser_SameOrg(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	actor := f.createUser(t, "actor@example.com", &orgID, false)
	target := f.createUser(t, "target@example.com", &orgID, false)
	groupID := f.createGroup(t, "qa", orgID)

	require.NoError(t, f.sharing.AddGroupUser(ctx, actor, groupID, target.UserID))

	members, err := f.groups.ListMembers(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, target.UserID, members[0].UserID)
}

func TestAddGroupUser_ForeignOrgActorSeesNotFound(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	acme := f.createOrg(t, "acme")
	globex := f.createOrg(t, "globex")
	actor := f.createUser(t, "actor@example.com", &globex, false)
	f.createUser(t, "target@example.com", &acme, false)
	groupID := f.createGroup(t, "qa", acme)

	err := f.sharing.AddGroupUser(ctx, actor, groupID, 1)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestAddGroupUser_CrossOrgTargetRejected(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	acme := f.createOrg(t, "acme")
	globex := f.createOrg(t, "globex")
	actor := f.createUser(t, "actor@example.com", &acme, false)
	target := f.createUser(t, "target@example.com", &globex, false)
	groupID := f.createGroup(t, "qa", acme)

	err := f.sharing.AddGroupUser(ctx, actor, groupID, target.UserID)
	assert.ErrorIs(t, err, access.ErrCrossOrganizationNotAllowed)
}

func TestRemoveGroupUser(t *testing.T) {
	f, cleanup := setupAccess(t, false)
	defer cleanup()

	ctx := context.Background()
	orgID := f.createOrg(t, "acme")
	actor := f.createUser(t, "actor@example.com", &orgID, false)
	target := f.createUser(t, "target@example.com", &orgID, false)
	groupID := f.createGroup(t, "qa", orgID)

	require.NoError(t, f.sharing.AddGroupUser(ctx, actor, groupID, target.UserID))
	require.NoError(t, f.sharing.RemoveGroupUser(ctx, actor, groupID, target.UserID))

	members, err := f.groups.ListMembers(ctx, groupID)
	require.NoError(t, err)
	assert.Empty(t, members)
}
