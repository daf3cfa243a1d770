package testcase

import (
	"context"
	"errors"
)

// ErrTestCaseNotFound is returned when a test case record is not found within
// the given project.
var ErrTestCaseNotFound = errors.New("test case not found")

// Repository provides CRUD operations on the test_cases table. All lookups
// are scoped to a project; access checks happen before the repository is
// reached.
type Repository interface {
	Create(ctx context.Context, tc *TestCase) error
	GetByID(ctx context.Context, projectID, id int64) (*TestCase, error)
	ListByProject(ctx context.Context, projectID int64) ([]TestCase, error)
	Update(ctx context.Context, projectID, id int64, fields UpdateFields) (*TestCase, error)
	Delete(ctx context.Context, projectID, id int64) error
}
