package validation

import "strings"

// CreateOrganizationRequest mirrors the fields needed for create organization validation.
type CreateOrganizationRequest struct {
	Name string
}

// ValidateCreateOrganizationRequest validates the fields of a create organization request.
func ValidateCreateOrganizationRequest(req CreateOrganizationRequest) []FieldError {
	return requiredName(req.Name, 150)
}

// CreateRoleRequest mirrors the fields needed for create role validation.
type CreateRoleRequest struct {
	Name string
}

// ValidateCreateRoleRequest validates the fields of a create role request.
func ValidateCreateRoleRequest(req CreateRoleRequest) []FieldError {
	return requiredName(req.Name, 50)
}

// CreateGroupRequest mirrors the fields needed for create group validation.
type CreateGroupRequest struct {
	Name string
}

// ValidateCreateGroupRequest validates the fields of a create group request.
func ValidateCreateGroupRequest(req CreateGroupRequest) []FieldError {
	return requiredName(req.Name, 120)
}

// CreateProjectRequest mirrors the fields needed for create project validation.
type CreateProjectRequest struct {
	Name string
}

// ValidateCreateProjectRequest validates the fields of a create project request.
func ValidateCreateProjectRequest(req CreateProjectRequest) []FieldError {
	return requiredName(req.Name, 150)
}

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Email    string
	Password string
	Name     string
	RoleID   int64
}

// ValidateCreateUserRequest validates the fields of a create user request.
func ValidateCreateUserRequest(req CreateUserRequest) []FieldError {
	errs := ValidateRegisterRequest(RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})

	if req.RoleID <= 0 {
		errs = append(errs, FieldError{Field: "roleId", Message: "roleId is required"})
	}

	return errs
}

// CreateRequirementRequest mirrors the fields needed for create requirement validation.
type CreateRequirementRequest struct {
	Title       string
	Description string
	Source      string
}

// ValidateCreateRequirementRequest validates the fields of a create requirement request.
func ValidateCreateRequirementRequest(req CreateRequirementRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(req.Title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: "description is required"})
	}

	if req.Source != "" && req.Source != "manual" && req.Source != "imported" {
		errs = append(errs, FieldError{Field: "source", Message: "source must be \"manual\" or \"imported\""})
	}

	return errs
}

// CreateTestCaseRequest mirrors the fields needed for create test case validation.
type CreateTestCaseRequest struct {
	Title  string
	Status string
}

var testCaseStatuses = map[string]bool{
	"draft":  true,
	"ready":  true,
	"passed": true,
	"failed": true,
}

// ValidateCreateTestCaseRequest validates the fields of a create test case request.
func ValidateCreateTestCaseRequest(req CreateTestCaseRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(req.Title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	if req.Status != "" && !testCaseStatuses[req.Status] {
		errs = append(errs, FieldError{Field: "status", Message: "status must be one of draft, ready, passed, failed"})
	}

	return errs
}

func requiredName(name string, maxLen int) []FieldError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return []FieldError{{Field: "name", Message: "name is required"}}
	}
	if len(trimmed) > maxLen {
		return []FieldError{{Field: "name", Message: "name is too long"}}
	}
	return nil
}
