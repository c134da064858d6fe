package store

import (
	"sort"
	"strings"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/uuid"
)

// GetOrCreateTag returns the existing tag with the given name or creates one.
// Name matching folds case; the first-seen spelling is kept. Blank names are
// rejected.
func (s *Store) GetOrCreateTag(name, color string) (*models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return nil, errors.New(errors.ErrValidation, "tag name must not be blank")
	}
	tag := s.getOrCreateTag(name, color)
	return cloneTag(tag), nil
}

// getOrCreateTag is the lock-held implementation. Returns nil for blank names.
func (s *Store) getOrCreateTag(name, color string) *models.Tag {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, tag := range s.tags {
		if tag.NameEquals(name) {
			return tag
		}
	}
	tag := &models.Tag{
		ID:        models.UUID(uuid.New()),
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}
	s.tags = append(s.tags, tag)
	s.dirty = true
	return tag
}

// Tags returns all tags sorted by name.
func (s *Store) Tags() []*models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]*models.Tag, len(s.tags))
	for i, tag := range s.tags {
		tags[i] = cloneTag(tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags
}

// FindTag returns the tag with the given name, folding case.
func (s *Store) FindTag(name string) (*models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range s.tags {
		if tag.NameEquals(name) {
			return cloneTag(tag), nil
		}
	}
	return nil, errors.Newf(errors.ErrTagNotFound, "tag not found: %s", name)
}

// DeleteTag removes the tag and its associations with notes. The notes
// themselves are untouched. Reports whether a tag was removed.
func (s *Store) DeleteTag(id models.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tag := range s.tags {
		if tag.ID != id {
			continue
		}
		s.tags = append(s.tags[:i], s.tags[i+1:]...)
		for _, note := range s.notes {
			note.TagIDs = removeID(note.TagIDs, id)
		}
		s.dirty = true
		return true
	}
	return false
}

// AddTag associates the named tag (get-or-create) with the note. Adding a tag
// the note already carries is a no-op.
func (s *Store) AddTag(noteID models.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.findNote(noteID)
	if note == nil {
		return errors.Newf(errors.ErrNoteNotFound, "note not found: %s", noteID)
	}
	tag := s.getOrCreateTag(name, "")
	if tag == nil {
		return errors.New(errors.ErrValidation, "tag name must not be blank")
	}
	if note.HasTag(tag.ID) {
		return nil
	}
	note.TagIDs = append(note.TagIDs, tag.ID)
	note.ModifiedAt = s.now()
	s.dirty = true
	return nil
}

// RemoveTag removes the named tag from the note. The tag entity survives.
func (s *Store) RemoveTag(noteID models.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.findNote(noteID)
	if note == nil {
		return errors.Newf(errors.ErrNoteNotFound, "note not found: %s", noteID)
	}
	for _, tag := range s.tags {
		if tag.NameEquals(name) && note.HasTag(tag.ID) {
			note.TagIDs = removeID(note.TagIDs, tag.ID)
			note.ModifiedAt = s.now()
			s.dirty = true
			return nil
		}
	}
	return errors.Newf(errors.ErrTagNotFound, "note %s has no tag %q", noteID, name)
}

func removeID(ids []models.UUID, id models.UUID) []models.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneTag(tag *models.Tag) *models.Tag {
	c := *tag
	return &c
}
