package store

import (
	"sort"
	"strings"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/uuid"
)

// CreateCategory creates a category with a unique (case-insensitive) name.
func (s *Store) CreateCategory(name, color string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrValidation, "category name must not be blank")
	}
	for _, category := range s.categories {
		if category.NameEquals(name) {
			return nil, errors.Newf(errors.ErrDuplicate, "category already exists: %s", category.Name)
		}
	}

	category := &models.Category{
		ID:        models.UUID(uuid.New()),
		Name:      name,
		Color:     color,
		CreatedAt: s.now(),
	}
	s.categories = append(s.categories, category)
	s.dirty = true
	return cloneCategory(category), nil
}

// RenameCategory changes a category's name, keeping names unique.
func (s *Store) RenameCategory(id models.UUID, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrValidation, "category name must not be blank")
	}
	target := s.findCategory(id)
	if target == nil {
		return nil, errors.Newf(errors.ErrCategoryNotFound, "category not found: %s", id)
	}
	for _, category := range s.categories {
		if category.ID != id && category.NameEquals(name) {
			return nil, errors.Newf(errors.ErrDuplicate, "category already exists: %s", category.Name)
		}
	}
	target.Name = name
	s.dirty = true
	return cloneCategory(target), nil
}

// DeleteCategory removes the category and deletes its owned notes. This is
// the explicit cascade policy: category deletion is note deletion, not a mere
// unset. Reports whether a category was removed.
func (s *Store) DeleteCategory(id models.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, category := range s.categories {
		if category.ID != id {
			continue
		}
		s.categories = append(s.categories[:i], s.categories[i+1:]...)

		kept := s.notes[:0]
		for _, note := range s.notes {
			if note.CategoryID != id {
				kept = append(kept, note)
			}
		}
		s.notes = kept
		s.dirty = true
		return true
	}
	return false
}

// Categories returns all categories sorted by name.
func (s *Store) Categories() []*models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]*models.Category, len(s.categories))
	for i, category := range s.categories {
		categories[i] = cloneCategory(category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories
}

// FindCategory returns the category with the given name, folding case.
func (s *Store) FindCategory(name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, category := range s.categories {
		if category.NameEquals(name) {
			return cloneCategory(category), nil
		}
	}
	return nil, errors.Newf(errors.ErrCategoryNotFound, "category not found: %s", name)
}

func cloneCategory(category *models.Category) *models.Category {
	c := *category
	return &c
}
