package persist

import (
	"time"

	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/plaintext"
	"github.com/c0lornote/c0lornote/internal/store"
	"github.com/c0lornote/c0lornote/internal/uuid"
)

const welcomeContent = `# Welcome to C0lorNote

This is a modern note-taking application with support for rich text and code
snippets.

Features include:

- Rich text editing
- Code editing with syntax highlighting
- Multiple themes (try Matrix, Dreamcore, or Minimalist)
- Organization with tags and categories
- Smart views for recent notes and code snippets

Get started by creating a new note!`

const helloWorldContent = `# A simple Python hello world example

def greet(name):
    """Return a greeting message"""
    return f"Hello, {name}!"

# Test the function
if __name__ == "__main__":
    print(greet("World"))`

// Seed returns the built-in first-run content: one welcome rich-text note and
// one example code note, plus their categories and tags. Load returns this
// instead of an empty snapshot when no durable state exists yet.
func Seed() *store.Snapshot {
	now := time.Now().UTC()

	categories := make(map[string]*models.Category)
	for _, name := range []string{"Getting Started", "Code Snippets", "Personal", "Work"} {
		categories[name] = &models.Category{
			ID:        models.UUID(uuid.New()),
			Name:      name,
			CreatedAt: now,
		}
	}

	tags := make(map[string]*models.Tag)
	for _, name := range []string{"welcome", "tutorial", "python", "example", "important"} {
		tags[name] = &models.Tag{
			ID:        models.UUID(uuid.New()),
			Name:      name,
			CreatedAt: now,
		}
	}

	welcome := &models.Note{
		ID:           models.UUID(uuid.New()),
		Title:        "Welcome to C0lorNote!",
		Content:      welcomeContent,
		PlainContent: plaintext.FromMarkdown(welcomeContent),
		CategoryID:   categories["Getting Started"].ID,
		TagIDs:       []models.UUID{tags["welcome"].ID, tags["tutorial"].ID},
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	hello := &models.Note{
		ID:           models.UUID(uuid.New()),
		Title:        "Python Hello World Example",
		Content:      helloWorldContent,
		PlainContent: helloWorldContent,
		IsCode:       true,
		CategoryID:   categories["Code Snippets"].ID,
		TagIDs:       []models.UUID{tags["python"].ID, tags["example"].ID},
		CreatedAt:    now,
		ModifiedAt:   now,
	}

	snap := &store.Snapshot{Notes: []*models.Note{welcome, hello}}
	for _, name := range []string{"Getting Started", "Code Snippets", "Personal", "Work"} {
		snap.Categories = append(snap.Categories, categories[name])
	}
	for _, name := range []string{"welcome", "tutorial", "python", "example", "important"} {
		snap.Tags = append(snap.Tags, tags[name])
	}
	return snap
}
