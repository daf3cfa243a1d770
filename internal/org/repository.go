package org

import (
	"context"
	"errors"
)

// ErrOrgNotFound is returned when an organization record is not found.
var ErrOrgNotFound = errors.New("organization not found")

// ErrDuplicateOrgName is returned when an organization with the same name
// or org number already exists.
var ErrDuplicateOrgName = errors.New("organization already exists")

// Repository provides CRUD operations on the organizations table.
type Repository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id int64) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (*Organization, error)
	Delete(ctx context.Context, id int64) error
}
