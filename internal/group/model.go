package group

import "time"

// Group represents a row in the groups table. Group names are unique within
// their organization.
type Group struct {
	ID             int64
	OrganizationID int64
	Name           string
	CreatedAt      time.Time
}

// Member represents a row in the group_members table, joined with the member
// user's email and name for listings.
type Member struct {
	ID        int64
	GroupID   int64
	UserID    int64
	Email     string
	UserName  string
	CreatedAt time.Time
}
