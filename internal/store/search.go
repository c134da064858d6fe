package store

import (
	"strings"

	"github.com/c0lornote/c0lornote/internal/models"
)

// SearchOptions contains the optional filters applied on top of the text
// match. The zero value applies no filters.
type SearchOptions struct {
	// CategoryID restricts results to one category.
	CategoryID models.UUID

	// TagIDs restricts results to notes carrying every listed tag.
	TagIDs []models.UUID

	// PinnedOnly restricts results to pinned notes.
	PinnedOnly bool

	// CodeOnly restricts results to code-mode notes (the "code snippets"
	// smart view).
	CodeOnly bool
}

// Search returns the notes matching the query text and filters, in the same
// pinned-first, modified-descending order as GetAll.
//
// The text match is a case-insensitive substring test against the title and
// the plain-text content: when the query has several words, every word must
// match somewhere (AND across words, OR across the two fields per word).
// Empty text with no filters returns the same result as GetAll. Search never
// fails; no match is an empty result.
func (s *Store) Search(text string, opts SearchOptions) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := strings.Fields(strings.ToLower(text))

	var matched []*models.Note
	for _, note := range s.notes {
		if !matchesWords(note, words) {
			continue
		}
		if opts.CategoryID != "" && note.CategoryID != opts.CategoryID {
			continue
		}
		if opts.PinnedOnly && !note.Pinned {
			continue
		}
		if opts.CodeOnly && !note.IsCode {
			continue
		}
		if !hasAllTags(note, opts.TagIDs) {
			continue
		}
		matched = append(matched, note.Clone())
	}
	return sortCanonical(matched)
}

func matchesWords(note *models.Note, words []string) bool {
	if len(words) == 0 {
		return true
	}
	title := strings.ToLower(note.Title)
	content := strings.ToLower(note.PlainContent)
	for _, word := range words {
		if !strings.Contains(title, word) && !strings.Contains(content, word) {
			return false
		}
	}
	return true
}

func hasAllTags(note *models.Note, tagIDs []models.UUID) bool {
	for _, id := range tagIDs {
		if !note.HasTag(id) {
			return false
		}
	}
	return true
}
