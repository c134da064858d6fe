package store

import "github.com/c0lornote/c0lornote/internal/models"

// Snapshot is a deep copy of the store's full state, the unit the
// persistence adapters load and save.
type Snapshot struct {
	Notes      []*models.Note     `json:"notes"`
	Categories []*models.Category `json:"categories"`
	Tags       []*models.Tag      `json:"tags"`
}

// Snapshot exports a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		Notes:      cloneNotes(s.notes),
		Categories: make([]*models.Category, len(s.categories)),
		Tags:       make([]*models.Tag, len(s.tags)),
	}
	for i, category := range s.categories {
		snap.Categories[i] = cloneCategory(category)
	}
	for i, tag := range s.tags {
		snap.Tags[i] = cloneTag(tag)
	}
	return snap
}

// Restore replaces the store's state with a deep copy of the snapshot and
// clears the dirty flag. Used on load; the loaded state is by definition in
// sync with durable storage.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = cloneNotes(snap.Notes)
	s.categories = make([]*models.Category, len(snap.Categories))
	for i, category := range snap.Categories {
		s.categories[i] = cloneCategory(category)
	}
	s.tags = make([]*models.Tag, len(snap.Tags))
	for i, tag := range snap.Tags {
		s.tags[i] = cloneTag(tag)
	}
	s.dirty = false
}
