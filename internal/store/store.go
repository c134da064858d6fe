// Package store holds the canonical in-memory collections of notes, tags and
// categories and answers filtered, sorted queries.
//
// The store owns its collections for the lifetime of the session; the
// persistence adapters only transcode snapshots of it on demand. All state is
// guarded by one mutex so the autosave tick can never observe a half-applied
// edit.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/plaintext"
	"github.com/c0lornote/c0lornote/internal/uuid"
)

// Store is the canonical note store.
type Store struct {
	mu         sync.Mutex
	notes      []*models.Note
	tags       []*models.Tag
	categories []*models.Category
	dirty      bool

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateNoteParams are the inputs to CreateNote.
type CreateNoteParams struct {
	Title      string
	Content    string
	IsCode     bool
	Color      string
	TagNames   []string
	CategoryID models.UUID
}

// CreateNote constructs a note with current timestamps and appends it to the
// collection. Tags are resolved get-or-create by name; an unknown category is
// rejected. No duplicate detection is performed and an empty title is stored
// as-is.
func (s *Store) CreateNote(params CreateNoteParams) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.CategoryID != "" && s.findCategory(params.CategoryID) == nil {
		return nil, errors.Newf(errors.ErrCategoryNotFound, "category not found: %s", params.CategoryID)
	}

	now := s.now()
	note := &models.Note{
		ID:         models.UUID(uuid.New()),
		Title:      params.Title,
		Content:    params.Content,
		IsCode:     params.IsCode,
		Color:      params.Color,
		CategoryID: params.CategoryID,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	note.PlainContent = derivePlainContent(params.Content, params.IsCode)
	note.TagIDs = s.resolveTagNames(params.TagNames)

	s.notes = append(s.notes, note)
	s.dirty = true
	return note.Clone(), nil
}

// NotePatch is a sparse update: nil fields leave the prior value unchanged.
type NotePatch struct {
	Title      *string
	Content    *string
	IsCode     *bool
	Color      *string
	Pinned     *bool
	CategoryID *models.UUID // set to the empty UUID to clear the category
	TagNames   *[]string    // full replacement of the tag set
}

// UpdateNote applies only the fields present in the patch and bumps the
// modified timestamp on success.
func (s *Store) UpdateNote(id models.UUID, patch NotePatch) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.findNote(id)
	if note == nil {
		return nil, errors.Newf(errors.ErrNoteNotFound, "note not found: %s", id)
	}
	if patch.CategoryID != nil && *patch.CategoryID != "" && s.findCategory(*patch.CategoryID) == nil {
		return nil, errors.Newf(errors.ErrCategoryNotFound, "category not found: %s", *patch.CategoryID)
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.IsCode != nil {
		note.IsCode = *patch.IsCode
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Content != nil || patch.IsCode != nil {
		note.PlainContent = derivePlainContent(note.Content, note.IsCode)
	}
	if patch.Color != nil {
		note.Color = *patch.Color
	}
	if patch.Pinned != nil {
		note.Pinned = *patch.Pinned
	}
	if patch.CategoryID != nil {
		note.CategoryID = *patch.CategoryID
	}
	if patch.TagNames != nil {
		note.TagIDs = s.resolveTagNames(*patch.TagNames)
	}

	note.ModifiedAt = s.now()
	s.dirty = true
	return note.Clone(), nil
}

// DeleteNote removes the note and its tag associations. It reports whether a
// note was actually removed; deleting an unknown id is a no-op, not an error.
// The tags themselves are independently owned and survive.
func (s *Store) DeleteNote(id models.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteNote(id)
}

func (s *Store) deleteNote(id models.UUID) bool {
	for i, note := range s.notes {
		if note.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.dirty = true
			return true
		}
	}
	return false
}

// TogglePin flips the pinned flag and returns the new value.
func (s *Store) TogglePin(id models.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.findNote(id)
	if note == nil {
		return false, errors.Newf(errors.ErrNoteNotFound, "note not found: %s", id)
	}
	note.Pinned = !note.Pinned
	note.ModifiedAt = s.now()
	s.dirty = true
	return note.Pinned, nil
}

// GetNote returns a copy of the note with the given id.
func (s *Store) GetNote(id models.UUID) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.findNote(id)
	if note == nil {
		return nil, errors.Newf(errors.ErrNoteNotFound, "note not found: %s", id)
	}
	return note.Clone(), nil
}

// GetAll returns all notes ordered pinned-first, then most recently modified.
// Pinned notes always float to the top regardless of recency.
func (s *Store) GetAll() []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortCanonical(cloneNotes(s.notes))
}

// GetRecent returns up to limit notes ordered by modified timestamp only; the
// pinned flag is ignored for this view.
func (s *Store) GetRecent(limit int) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := cloneNotes(s.notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].ModifiedAt.After(notes[j].ModifiedAt)
	})
	if limit >= 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes
}

// GetByCategory returns the category's notes in canonical order.
func (s *Store) GetByCategory(categoryID models.UUID) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Note
	for _, note := range s.notes {
		if note.CategoryID == categoryID {
			matched = append(matched, note.Clone())
		}
	}
	return sortCanonical(matched)
}

// GetByTag returns the notes referencing the tag, in canonical order.
func (s *Store) GetByTag(tagID models.UUID) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Note
	for _, note := range s.notes {
		if note.HasTag(tagID) {
			matched = append(matched, note.Clone())
		}
	}
	return sortCanonical(matched)
}

// CountByCategory returns note counts per category id. Notes without a
// category are grouped under models.UncategorizedKey.
func (s *Store) CountByCategory() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, note := range s.notes {
		key := models.UncategorizedKey
		if note.CategoryID != "" {
			key = note.CategoryID.String()
		}
		counts[key]++
	}
	return counts
}

// CountByTag returns note counts per tag id.
func (s *Store) CountByTag() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, note := range s.notes {
		for _, tagID := range note.TagIDs {
			counts[tagID.String()]++
		}
	}
	return counts
}

// Dirty reports whether the store has unsaved mutations.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkClean clears the dirty flag after a successful save.
func (s *Store) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// MarkDirty forces a save on the next autosave tick, for state changes made
// outside the store's own mutators (imports, restores that must persist).
func (s *Store) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

func (s *Store) findNote(id models.UUID) *models.Note {
	for _, note := range s.notes {
		if note.ID == id {
			return note
		}
	}
	return nil
}

func (s *Store) findCategory(id models.UUID) *models.Category {
	for _, category := range s.categories {
		if category.ID == id {
			return category
		}
	}
	return nil
}

// resolveTagNames maps names to tag ids with get-or-create semantics,
// de-duplicating case-insensitively. Caller holds the lock.
func (s *Store) resolveTagNames(names []string) []models.UUID {
	var ids []models.UUID
	for _, name := range names {
		tag := s.getOrCreateTag(name, "")
		if tag == nil {
			continue // blank name
		}
		duplicate := false
		for _, id := range ids {
			if id == tag.ID {
				duplicate = true
				break
			}
		}
		if !duplicate {
			ids = append(ids, tag.ID)
		}
	}
	return ids
}

func derivePlainContent(content string, isCode bool) string {
	if isCode {
		return content
	}
	return plaintext.FromMarkdown(content)
}

func cloneNotes(notes []*models.Note) []*models.Note {
	cloned := make([]*models.Note, len(notes))
	for i, note := range notes {
		cloned[i] = note.Clone()
	}
	return cloned
}

// sortCanonical orders notes pinned descending, then modified descending.
// The sort is stable so equal keys keep insertion order.
func sortCanonical(notes []*models.Note) []*models.Note {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Pinned != notes[j].Pinned {
			return notes[i].Pinned
		}
		return notes[i].ModifiedAt.After(notes[j].ModifiedAt)
	})
	return notes
}
