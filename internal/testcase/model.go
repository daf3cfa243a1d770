package testcase

import "time"

// TestCase represents a row in the test_cases table. Steps and preconditions
// are stored as newline-separated text.
type TestCase struct {
	ID             int64
	ProjectID      int64
	RequirementID  *int64 // optional link to the requirement it verifies
	Title          string
	Description    *string
	Steps          *string
	Preconditions  *string
	ExpectedResult *string
	Priority       *string
	Status         string // "draft", "ready", "passed", "failed"
	CreatedAt      time.Time
}

// UpdateFields holds updatable fields on a test case. Nil fields are not
// updated.
type UpdateFields struct {
	RequirementID  *int64
	Title          *string
	Description    *string
	Steps          *string
	Preconditions  *string
	ExpectedResult *string
	Priority       *string
	Status         *string
}
