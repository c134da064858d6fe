// Package store provides unit tests for the note store.
package store

import (
	"testing"
	"time"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/models"
)

// fakeClock advances one second per call so every mutation in a test gets a
// distinct, ordered timestamp.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New()
	s.now = clock.Now
	return s, clock
}

func mustCreate(t *testing.T, s *Store, params CreateNoteParams) *models.Note {
	t.Helper()
	note, err := s.CreateNote(params)
	if err != nil {
		t.Fatalf("CreateNote(%+v) failed: %v", params, err)
	}
	return note
}

func TestCreateNoteTimestamps(t *testing.T) {
	s, _ := newTestStore(t)

	note := mustCreate(t, s, CreateNoteParams{Title: "first", Content: "body"})

	if note.ID == "" {
		t.Error("CreateNote did not assign an id")
	}
	if !note.CreatedAt.Equal(note.ModifiedAt) {
		t.Errorf("created %v != modified %v on a fresh note", note.CreatedAt, note.ModifiedAt)
	}
	if note.ModifiedAt.Before(note.CreatedAt) {
		t.Error("ModifiedAt must never precede CreatedAt")
	}
}

func TestCreateNoteUnknownCategory(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateNote(CreateNoteParams{Title: "x", CategoryID: "nope"})
	if !errors.Is(err, errors.ErrCategoryNotFound) {
		t.Errorf("CreateNote with unknown category = %v, want CATEGORY_NOT_FOUND", err)
	}
}

func TestCreateNoteDerivesPlainContent(t *testing.T) {
	s, _ := newTestStore(t)

	rich := mustCreate(t, s, CreateNoteParams{Content: "# Heading\n\nSome **bold** text"})
	if rich.PlainContent == rich.Content {
		t.Error("rich-text plain content should have markdown stripped")
	}

	code := mustCreate(t, s, CreateNoteParams{Content: "def f():\n    pass", IsCode: true})
	if code.PlainContent != code.Content {
		t.Error("code note plain content must be the content verbatim")
	}
}

func TestGetAllOrdering(t *testing.T) {
	s, _ := newTestStore(t)

	a := mustCreate(t, s, CreateNoteParams{Title: "a"})
	b := mustCreate(t, s, CreateNoteParams{Title: "b"})
	c := mustCreate(t, s, CreateNoteParams{Title: "c"})

	// Pin the oldest note. It must sort before everything else even though
	// both b and c were modified later.
	if _, err := s.TogglePin(a.ID); err != nil {
		t.Fatalf("TogglePin failed: %v", err)
	}

	got := s.GetAll()
	wantOrder := []models.UUID{a.ID, c.ID, b.ID}
	if len(got) != len(wantOrder) {
		t.Fatalf("GetAll returned %d notes, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("GetAll()[%d] = %s, want %s", i, got[i].Title, id)
		}
	}

	// Invariant over the whole sequence: pinned block first, modified
	// non-increasing within each block.
	sawUnpinned := false
	for i, note := range got {
		if !note.Pinned {
			sawUnpinned = true
		} else if sawUnpinned {
			t.Errorf("pinned note at index %d after unpinned notes", i)
		}
		if i > 0 && got[i-1].Pinned == note.Pinned && note.ModifiedAt.After(got[i-1].ModifiedAt) {
			t.Errorf("modified timestamps not non-increasing at index %d", i)
		}
	}
	_ = b
}

func TestPinnedBeatsRecency(t *testing.T) {
	s, _ := newTestStore(t)

	// B is pinned but older; A is unpinned and more recently modified.
	b := mustCreate(t, s, CreateNoteParams{Title: "B"})
	pinned := true
	if _, err := s.UpdateNote(b.ID, NotePatch{Pinned: &pinned}); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}
	a := mustCreate(t, s, CreateNoteParams{Title: "A"})

	got := s.GetAll()
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("GetAll order = [%s, %s], want [B, A]", got[0].Title, got[1].Title)
	}
}

func TestGetRecentIgnoresPin(t *testing.T) {
	s, _ := newTestStore(t)

	a := mustCreate(t, s, CreateNoteParams{Title: "a"})
	if _, err := s.TogglePin(a.ID); err != nil {
		t.Fatalf("TogglePin failed: %v", err)
	}
	b := mustCreate(t, s, CreateNoteParams{Title: "b"})

	got := s.GetRecent(10)
	if got[0].ID != b.ID {
		t.Errorf("GetRecent()[0] = %s, want the most recently modified note", got[0].Title)
	}

	if n := len(s.GetRecent(1)); n != 1 {
		t.Errorf("GetRecent(1) returned %d notes", n)
	}
}

func TestUpdateNoteSparsePatch(t *testing.T) {
	s, _ := newTestStore(t)

	note := mustCreate(t, s, CreateNoteParams{
		Title:    "before",
		Content:  "unchanged content",
		Color:    "#FFDA79",
		TagNames: []string{"keep"},
	})
	previousModified := note.ModifiedAt

	title := "X"
	updated, err := s.UpdateNote(note.ID, NotePatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}

	if updated.Title != "X" {
		t.Errorf("Title = %q, want X", updated.Title)
	}
	if updated.Content != "unchanged content" {
		t.Errorf("Content changed by a title-only patch: %q", updated.Content)
	}
	if updated.Color != "#FFDA79" {
		t.Errorf("Color changed by a title-only patch: %q", updated.Color)
	}
	if updated.Pinned != note.Pinned {
		t.Error("Pinned changed by a title-only patch")
	}
	if len(updated.TagIDs) != 1 || updated.TagIDs[0] != note.TagIDs[0] {
		t.Errorf("tags changed by a title-only patch: %v", updated.TagIDs)
	}
	if !updated.ModifiedAt.After(previousModified) {
		t.Error("a successful patch must bump the modified timestamp")
	}
	if updated.CreatedAt != note.CreatedAt {
		t.Error("CreatedAt must not change on update")
	}
}

func TestUpdateNoteClearCategory(t *testing.T) {
	s, _ := newTestStore(t)

	category, err := s.CreateCategory("Work", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	note := mustCreate(t, s, CreateNoteParams{Title: "n", CategoryID: category.ID})

	var none models.UUID
	updated, err := s.UpdateNote(note.ID, NotePatch{CategoryID: &none})
	if err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}
	if updated.CategoryID != "" {
		t.Errorf("CategoryID = %q, want cleared", updated.CategoryID)
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	title := "x"
	_, err := s.UpdateNote("missing", NotePatch{Title: &title})
	if !errors.Is(err, errors.ErrNoteNotFound) {
		t.Errorf("UpdateNote unknown id = %v, want NOTE_NOT_FOUND", err)
	}
}

func TestDeleteNoteIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	note := mustCreate(t, s, CreateNoteParams{Title: "bye", TagNames: []string{"t"}})

	if !s.DeleteNote(note.ID) {
		t.Error("first DeleteNote = false, want true")
	}
	if s.DeleteNote(note.ID) {
		t.Error("second DeleteNote = true, want false")
	}

	// The tag entity is independently owned and must survive.
	if len(s.Tags()) != 1 {
		t.Errorf("tag count after note delete = %d, want 1", len(s.Tags()))
	}
}

func TestTogglePin(t *testing.T) {
	s, _ := newTestStore(t)
	note := mustCreate(t, s, CreateNoteParams{Title: "p"})

	pinned, err := s.TogglePin(note.ID)
	if err != nil || !pinned {
		t.Fatalf("TogglePin = (%v, %v), want (true, nil)", pinned, err)
	}
	pinned, err = s.TogglePin(note.ID)
	if err != nil || pinned {
		t.Fatalf("second TogglePin = (%v, %v), want (false, nil)", pinned, err)
	}

	if _, err := s.TogglePin("missing"); !errors.Is(err, errors.ErrNoteNotFound) {
		t.Errorf("TogglePin unknown id = %v, want NOTE_NOT_FOUND", err)
	}
}

func TestTagDeduplicationOnCreate(t *testing.T) {
	s, _ := newTestStore(t)

	note := mustCreate(t, s, CreateNoteParams{
		Title:    "tagged",
		TagNames: []string{"Python", "python", "PYTHON", "other"},
	})

	if len(note.TagIDs) != 2 {
		t.Errorf("tag ids = %v, want 2 entries after case-insensitive dedupe", note.TagIDs)
	}
	if len(s.Tags()) != 2 {
		t.Errorf("tag entities = %d, want 2", len(s.Tags()))
	}
	// First-seen spelling wins.
	tag, err := s.FindTag("python")
	if err != nil {
		t.Fatalf("FindTag failed: %v", err)
	}
	if tag.Name != "Python" {
		t.Errorf("stored spelling = %q, want first-seen %q", tag.Name, "Python")
	}
}

func TestAddRemoveTag(t *testing.T) {
	s, _ := newTestStore(t)
	note := mustCreate(t, s, CreateNoteParams{Title: "n"})

	if err := s.AddTag(note.ID, "urgent"); err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	// Same name, different case: no-op.
	if err := s.AddTag(note.ID, "Urgent"); err != nil {
		t.Fatalf("AddTag (dup) failed: %v", err)
	}
	got, _ := s.GetNote(note.ID)
	if len(got.TagIDs) != 1 {
		t.Errorf("tag ids after duplicate add = %v, want 1", got.TagIDs)
	}

	if err := s.RemoveTag(note.ID, "URGENT"); err != nil {
		t.Fatalf("RemoveTag failed: %v", err)
	}
	got, _ = s.GetNote(note.ID)
	if len(got.TagIDs) != 0 {
		t.Errorf("tag ids after remove = %v, want none", got.TagIDs)
	}
	if err := s.RemoveTag(note.ID, "urgent"); !errors.Is(err, errors.ErrTagNotFound) {
		t.Errorf("RemoveTag absent tag = %v, want TAG_NOT_FOUND", err)
	}

	// The tag entity is never implicitly deleted.
	if len(s.Tags()) != 1 {
		t.Errorf("tag entities = %d, want 1", len(s.Tags()))
	}
}

func TestDeleteTagRemovesAssociations(t *testing.T) {
	s, _ := newTestStore(t)
	note := mustCreate(t, s, CreateNoteParams{Title: "n", TagNames: []string{"a", "b"}})

	tag, err := s.FindTag("a")
	if err != nil {
		t.Fatalf("FindTag failed: %v", err)
	}
	if !s.DeleteTag(tag.ID) {
		t.Fatal("DeleteTag = false, want true")
	}

	got, _ := s.GetNote(note.ID)
	if len(got.TagIDs) != 1 {
		t.Errorf("note tag ids after tag delete = %v, want 1", got.TagIDs)
	}
	if s.DeleteTag(tag.ID) {
		t.Error("second DeleteTag = true, want false")
	}
}

func TestCategoryUniqueAndRename(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CreateCategory("Work", ""); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := s.CreateCategory("work", ""); !errors.Is(err, errors.ErrDuplicate) {
		t.Errorf("duplicate category = %v, want DUPLICATE", err)
	}

	personal, err := s.CreateCategory("Personal", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := s.RenameCategory(personal.ID, "WORK"); !errors.Is(err, errors.ErrDuplicate) {
		t.Errorf("rename onto existing name = %v, want DUPLICATE", err)
	}
	renamed, err := s.RenameCategory(personal.ID, "Home")
	if err != nil {
		t.Fatalf("RenameCategory failed: %v", err)
	}
	if renamed.Name != "Home" {
		t.Errorf("renamed category = %q, want Home", renamed.Name)
	}
}

func TestDeleteCategoryCascadesNotes(t *testing.T) {
	s, _ := newTestStore(t)

	category, err := s.CreateCategory("Doomed", "")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	owned := mustCreate(t, s, CreateNoteParams{Title: "owned", CategoryID: category.ID})
	free := mustCreate(t, s, CreateNoteParams{Title: "free"})

	if !s.DeleteCategory(category.ID) {
		t.Fatal("DeleteCategory = false, want true")
	}

	if _, err := s.GetNote(owned.ID); !errors.Is(err, errors.ErrNoteNotFound) {
		t.Error("category deletion must cascade to its owned notes")
	}
	if _, err := s.GetNote(free.ID); err != nil {
		t.Errorf("uncategorized note was deleted by an unrelated cascade: %v", err)
	}
	if s.DeleteCategory(category.ID) {
		t.Error("second DeleteCategory = true, want false")
	}
}

func TestCounts(t *testing.T) {
	s, _ := newTestStore(t)

	work, _ := s.CreateCategory("Work", "")
	mustCreate(t, s, CreateNoteParams{Title: "w1", CategoryID: work.ID, TagNames: []string{"x"}})
	mustCreate(t, s, CreateNoteParams{Title: "w2", CategoryID: work.ID, TagNames: []string{"x", "y"}})
	mustCreate(t, s, CreateNoteParams{Title: "loose"})

	byCategory := s.CountByCategory()
	if byCategory[work.ID.String()] != 2 {
		t.Errorf("count for Work = %d, want 2", byCategory[work.ID.String()])
	}
	if byCategory[models.UncategorizedKey] != 1 {
		t.Errorf("uncategorized count = %d, want 1", byCategory[models.UncategorizedKey])
	}

	x, _ := s.FindTag("x")
	y, _ := s.FindTag("y")
	byTag := s.CountByTag()
	if byTag[x.ID.String()] != 2 || byTag[y.ID.String()] != 1 {
		t.Errorf("tag counts = %v", byTag)
	}
}

func TestDirtyTracking(t *testing.T) {
	s, _ := newTestStore(t)

	if s.Dirty() {
		t.Error("fresh store must be clean")
	}
	note := mustCreate(t, s, CreateNoteParams{Title: "d"})
	if !s.Dirty() {
		t.Error("store must be dirty after a mutation")
	}
	s.MarkClean()
	if s.Dirty() {
		t.Error("MarkClean did not clear the dirty flag")
	}
	if _, err := s.TogglePin(note.ID); err != nil {
		t.Fatalf("TogglePin failed: %v", err)
	}
	if !s.Dirty() {
		t.Error("store must be dirty again after TogglePin")
	}

	// Reads never dirty the store.
	s.MarkClean()
	s.GetAll()
	s.Search("x", SearchOptions{})
	s.CountByTag()
	if s.Dirty() {
		t.Error("read-only queries must not set the dirty flag")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	category, _ := s.CreateCategory("Cat", "#eee")
	mustCreate(t, s, CreateNoteParams{
		Title:      "note",
		Content:    "body",
		TagNames:   []string{"t1", "t2"},
		CategoryID: category.ID,
	})

	snap := s.Snapshot()

	restored := New()
	restored.Restore(snap)

	if restored.Dirty() {
		t.Error("restored store must start clean")
	}
	gotNotes := restored.GetAll()
	if len(gotNotes) != 1 || gotNotes[0].Title != "note" || len(gotNotes[0].TagIDs) != 2 {
		t.Errorf("restored notes = %+v", gotNotes)
	}
	if len(restored.Tags()) != 2 || len(restored.Categories()) != 1 {
		t.Error("restored tags/categories incomplete")
	}

	// The snapshot is a deep copy: mutating it must not touch the store.
	snap.Notes[0].Title = "tampered"
	original, _ := s.GetNote(gotNotes[0].ID)
	if original.Title != "note" {
		t.Error("snapshot aliases live store state")
	}
}

func TestReturnedNotesAreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	note := mustCreate(t, s, CreateNoteParams{Title: "safe"})

	got := s.GetAll()
	got[0].Title = "mangled"

	reread, _ := s.GetNote(note.ID)
	if reread.Title != "safe" {
		t.Error("GetAll returns aliases into store state")
	}
}
