package role

// Role represents a row in the roles table.
type Role struct {
	ID      int64
	Name    string
	IsAdmin bool
}
