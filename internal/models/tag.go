// Package models provides data model definitions for the C0lorNote core.
package models

import (
	"strings"
	"time"
)

// Tag represents a user-defined label, many-to-many with notes. Tags are
// owned independently of the notes that reference them.
type Tag struct {
	ID        UUID      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NameEquals reports whether the tag's name matches, folding case.
// Tag names are unique case-insensitively; the first-seen spelling wins.
func (t *Tag) NameEquals(name string) bool {
	return strings.EqualFold(t.Name, name)
}
