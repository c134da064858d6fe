// Package models provides data model definitions for the C0lorNote core.
package models

import (
	"database/sql/driver"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = ""
	case string:
		*u = UUID(v)
	case []byte:
		*u = UUID(v)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Note represents a single user-authored note, either rich text or code.
type Note struct {
	ID           UUID      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	PlainContent string    `json:"plain_content,omitempty"`
	IsCode       bool      `json:"is_code"`
	Color        string    `json:"color,omitempty"`
	Pinned       bool      `json:"pinned"`
	CategoryID   UUID      `json:"category_id,omitempty"`
	TagIDs       []UUID    `json:"tag_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// DisplayTitle returns the title shown in list views. Empty titles render as
// "Untitled"; the stored title is never rewritten.
func (n *Note) DisplayTitle() string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}

// Touch updates the ModifiedAt timestamp.
func (n *Note) Touch() {
	n.ModifiedAt = time.Now().UTC()
}

// HasTag reports whether the note references the given tag.
func (n *Note) HasTag(tagID UUID) bool {
	for _, id := range n.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	if n.TagIDs != nil {
		c.TagIDs = make([]UUID, len(n.TagIDs))
		copy(c.TagIDs, n.TagIDs)
	}
	return &c
}
