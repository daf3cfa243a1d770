package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAccessLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"viewer", "viewer", true},
		{"editor", "editor", true},
		{"Viewer", "viewer", true},
		{"  EDITOR ", "editor", true},
		{"", "", false},
		{"owner", "owner", false},
		{"superuser", "superuser", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeAccessLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestGrantsEdit(t *testing.T) {
	assert.True(t, grantsEdit("editor"))
	assert.False(t, grantsEdit("viewer"))
	assert.False(t, grantsEdit(""))
	// A stored level the application never wrote behaves as viewer.
	assert.False(t, grantsEdit("admin"))
	assert.False(t, grantsEdit("Editor"))
}
