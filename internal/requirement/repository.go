package requirement

import (
	"context"
	"errors"
)

// ErrRequirementNotFound is returned when a requirement record is not found
// within the given project.
var ErrRequirementNotFound = errors.New("requirement not found")

// Repository provides CRUD operations on the requirements table. All lookups
// are scoped to a project; access checks happen before the repository is
// reached.
type Repository interface {
	Create(ctx context.Context, req *Requirement) error
	GetByID(ctx context.Context, projectID, id int64) (*Requirement, error)
	ListByProject(ctx context.Context, projectID int64) ([]Requirement, error)
	Update(ctx context.Context, projectID, id int64, fields UpdateFields) (*Requirement, error)
	Delete(ctx context.Context, projectID, id int64) error
}
