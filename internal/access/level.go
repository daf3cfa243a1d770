package access

import "strings"

// Level is the minimum access a caller requires for an operation.
type Level int

const (
	// LevelView permits read-only operations.
	LevelView Level = iota
	// LevelEdit permits read and write operations.
	LevelEdit
)

// Access levels stored on membership rows.
const (
	AccessViewer = "viewer"
	AccessEditor = "editor"
)

// NormalizeAccessLevel lowercases and trims a caller-supplied access level.
// The second return is false when the result is not a recognized level.
func NormalizeAccessLevel(s string) (string, bool) {
	level := strings.ToLower(strings.TrimSpace(s))
	return level, level == AccessViewer || level == AccessEditor
}

// grantsEdit reports whether a stored access level permits edit operations.
// Anything other than the exact editor value is treated as viewer, so an
// unrecognized stored level fails closed.
func grantsEdit(stored string) bool {
	return stored == AccessEditor
}
