package access

import "errors"

// ErrNoAccess is returned when the actor has no relation to the project at all.
var ErrNoAccess = errors.New("no access to this project")

// ErrInsufficientPermission is returned when the actor has a relation to the
// project but not a sufficient one, or lacks the admin override.
var ErrInsufficientPermission = errors.New("insufficient permission")

// ErrInvalidAccessLevel is returned when a caller supplies an access level
// other than viewer or editor.
var ErrInvalidAccessLevel = errors.New("invalid access level")

// ErrOwnerAlreadyHasAccess is returned when attempting to add the project
// owner as a member.
var ErrOwnerAlreadyHasAccess = errors.New("owner already has access")

// ErrCrossOrganizationNotAllowed is returned when a membership would span two
// organizations.
var ErrCrossOrganizationNotAllowed = errors.New("cross-organization membership not allowed")
