// Package models provides data model definitions for the C0lorNote core.
package models

import (
	"strings"
	"time"
)

// UncategorizedKey is the aggregate-count key for notes with no category.
// It can never collide with a category ID, which is always a UUID.
const UncategorizedKey = "uncategorized"

// Category represents a single-valued grouping of notes, one-to-many.
// Deleting a category deletes its owned notes.
type Category struct {
	ID        UUID      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NameEquals reports whether the category's name matches, folding case.
func (c *Category) NameEquals(name string) bool {
	return strings.EqualFold(c.Name, name)
}
