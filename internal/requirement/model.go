package requirement

import "time"

// Requirement represents a row in the requirements table.
type Requirement struct {
	ID                 int64
	ProjectID          int64
	Title              string
	Description        string
	AcceptanceCriteria *string
	Source             string // "manual" or "imported"
	ExternalID         *string
	CreatedAt          time.Time
}

// UpdateFields holds updatable fields on a requirement. Nil fields are not
// updated.
type UpdateFields struct {
	Title              *string
	Description        *string
	AcceptanceCriteria *string
	ExternalID         *string
}
