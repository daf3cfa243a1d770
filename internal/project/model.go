package project

import "time"

// Project represents a row in the projects table. Every project has exactly
// one owner; the organization is optional.
type Project struct {
	ID             int64
	Name           string
	Description    *string
	OrganizationID *int64
	OwnerUserID    int64
	CreatedAt      time.Time
}

// UpdateFields holds updatable fields on a project record. Nil fields are not
// updated.
type UpdateFields struct {
	Name        *string
	Description *string
}

// Member represents a row in the project_members table, joined with the
// member user's email and name for listings.
type Member struct {
	ID          int64
	ProjectID   int64
	UserID      int64
	AccessLevel string
	Email       string
	UserName    string
	CreatedAt   time.Time
}

// GroupMember represents a row in the project_group_members table, joined
// with the group's name for listings.
type GroupMember struct {
	ID          int64
	ProjectID   int64
	GroupID     int64
	AccessLevel string
	GroupName   string
	CreatedAt   time.Time
}
