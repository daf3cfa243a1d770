package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/ailog"
	"github.com/tmshq/tms/internal/api/response"
	"github.com/tmshq/tms/internal/group"
	"github.com/tmshq/tms/internal/project"
	"github.com/tmshq/tms/internal/requirement"
	"github.com/tmshq/tms/internal/testcase"
	"github.com/tmshq/tms/internal/user"
)

// writeDomainError maps access-control and membership errors to HTTP
// responses. Returns false when the error is not a recognized domain error;
// the caller then logs it and writes a 500.
func writeDomainError(w http.ResponseWriter, err error, requestID string) bool {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		response.Err(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found", requestID)
	case errors.Is(err, access.ErrNoAccess):
		response.Err(w, http.StatusForbidden, "NO_ACCESS", "No access to this project", requestID)
	case errors.Is(err, access.ErrInsufficientPermission):
		response.Err(w, http.StatusForbidden, "INSUFFICIENT_PERMISSION", "Not enough permissions", requestID)
	case errors.Is(err, access.ErrInvalidAccessLevel):
		response.Err(w, http.StatusBadRequest, "INVALID_ACCESS_LEVEL", "Access level must be \"viewer\" or \"editor\"", requestID)
	case errors.Is(err, access.ErrOwnerAlreadyHasAccess):
		response.Err(w, http.StatusConflict, "OWNER_ALREADY_HAS_ACCESS", "The project owner always has access", requestID)
	case errors.Is(err, access.ErrCrossOrganizationNotAllowed):
		response.Err(w, http.StatusBadRequest, "CROSS_ORGANIZATION", "Membership cannot span organizations", requestID)
	case errors.Is(err, project.ErrMemberNotFound):
		response.Err(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found", requestID)
	case errors.Is(err, group.ErrMemberNotFound):
		response.Err(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found", requestID)
	case errors.Is(err, group.ErrGroupNotFound):
		response.Err(w, http.StatusNotFound, "GROUP_NOT_FOUND", "Group not found", requestID)
	case errors.Is(err, user.ErrUserNotFound):
		response.Err(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found", requestID)
	case errors.Is(err, requirement.ErrRequirementNotFound):
		response.Err(w, http.StatusNotFound, "REQUIREMENT_NOT_FOUND", "Requirement not found", requestID)
	case errors.Is(err, testcase.ErrTestCaseNotFound):
		response.Err(w, http.StatusNotFound, "TEST_CASE_NOT_FOUND", "Test case not found", requestID)
	case errors.Is(err, ailog.ErrLogNotFound):
		response.Err(w, http.StatusNotFound, "LOG_NOT_FOUND", "Request log not found", requestID)
	default:
		return false
	}
	return true
}

// pathID parses a numeric chi URL parameter.
func pathID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
