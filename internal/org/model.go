package org

import "time"

// Organization represents a row in the organizations table.
type Organization struct {
	ID        int64
	Name      string
	OrgNumber *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	Country   *string
	CreatedAt time.Time
}

// UpdateFields holds user-updatable fields on an organization record.
// Nil fields are not updated.
type UpdateFields struct {
	Name      *string
	OrgNumber *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	Country   *string
}
