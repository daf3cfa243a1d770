package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmshq/tms/internal/api/validation"
)

func fieldNames(errs []validation.FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestValidateRegisterRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        validation.RegisterRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  validation.RegisterRequest{Email: "a@example.com", Password: "longenough", Name: "Alice"},
		},
		{
			name:       "all missing",
			req:        validation.RegisterRequest{},
			wantFields: []string{"email", "password", "name"},
		},
		{
			name:       "short password",
			req:        validation.RegisterRequest{Email: "a@example.com", Password: "short", Name: "Alice"},
			wantFields: []string{"password"},
		},
		{
			name:       "no at sign",
			req:        validation.RegisterRequest{Email: "not-an-email", Password: "longenough", Name: "Alice"},
			wantFields: []string{"email"},
		},
		{
			name:       "at sign first",
			req:        validation.RegisterRequest{Email: "@example.com", Password: "longenough", Name: "Alice"},
			wantFields: []string{"email"},
		},
		{
			name:       "at sign last",
			req:        validation.RegisterRequest{Email: "alice@", Password: "longenough", Name: "Alice"},
			wantFields: []string{"email"},
		},
		{
			name:       "blank name",
			req:        validation.RegisterRequest{Email: "a@example.com", Password: "longenough", Name: "   "},
			wantFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateRegisterRequest(tt.req)
			assert.ElementsMatch(t, tt.wantFields, fieldNames(errs))
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	errs := validation.ValidateLoginRequest(validation.LoginRequest{})
	assert.ElementsMatch(t, []string{"email", "password"}, fieldNames(errs))

	errs = validation.ValidateLoginRequest(validation.LoginRequest{Email: "a@example.com", Password: "x"})
	assert.Empty(t, errs)
}

func TestValidateCreateProjectRequest(t *testing.T) {
	assert.Empty(t, validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{Name: "alpha"}))

	errs := validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{Name: "  "})
	assert.ElementsMatch(t, []string{"name"}, fieldNames(errs))

	errs = validation.ValidateCreateProjectRequest(validation.CreateProjectRequest{Name: strings.Repeat("x", 151)})
	assert.ElementsMatch(t, []string{"name"}, fieldNames(errs))
}

func TestValidateCreateUserRequest(t *testing.T) {
	errs := validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Email: "a@example.com", Password: "longenough", Name: "Alice", RoleID: 1,
	})
	assert.Empty(t, errs)

	errs = validation.ValidateCreateUserRequest(validation.CreateUserRequest{
		Email: "a@example.com", Password: "longenough", Name: "Alice",
	})
	assert.ElementsMatch(t, []string{"roleId"}, fieldNames(errs))
}

func TestValidateCreateRequirementRequest(t *testing.T) {
	errs := validation.ValidateCreateRequirementRequest(validation.CreateRequirementRequest{
		Title: "Login works", Description: "Users can log in", Source: "manual",
	})
	assert.Empty(t, errs)

	errs = validation.ValidateCreateRequirementRequest(validation.CreateRequirementRequest{Source: "scraped"})
	assert.ElementsMatch(t, []string{"title", "description", "source"}, fieldNames(errs))
}

func TestValidateCreateTestCaseRequest(t *testing.T) {
	errs := validation.ValidateCreateTestCaseRequest(validation.CreateTestCaseRequest{Title: "TC-1", Status: "draft"})
	assert.Empty(t, errs)

	// Status defaults at the handler; empty passes here.
	errs = validation.ValidateCreateTestCaseRequest(validation.CreateTestCaseRequest{Title: "TC-1"})
	assert.Empty(t, errs)

	errs = validation.ValidateCreateTestCaseRequest(validation.CreateTestCaseRequest{Title: "", Status: "bogus"})
	assert.ElementsMatch(t, []string{"title", "status"}, fieldNames(errs))
}
