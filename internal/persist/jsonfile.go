package persist

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/logging"
	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/store"
	"github.com/c0lornote/c0lornote/internal/uuid"
)

// NotesFileName is the flat-file document name inside the data directory.
const NotesFileName = "notes.json"

// JSONAdapter persists the store as a single JSON document with three
// arrays: notes, categories, tags.
type JSONAdapter struct {
	path   string
	backup BackupOptions
}

// NewJSONAdapter creates an adapter writing to <dataDir>/notes.json.
func NewJSONAdapter(dataDir string, backup BackupOptions) *JSONAdapter {
	return &JSONAdapter{
		path:   filepath.Join(dataDir, NotesFileName),
		backup: backup,
	}
}

// Path returns the durable file path.
func (a *JSONAdapter) Path() string {
	return a.path
}

// document is the wire form. Timestamps are strings in TimeLayout so the
// encoding is unambiguous, sortable and locale-independent.
type document struct {
	Notes      []noteRecord     `json:"notes"`
	Categories []categoryRecord `json:"categories"`
	Tags       []tagRecord      `json:"tags"`
}

type noteRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	PlainContent string   `json:"plain_content,omitempty"`
	IsCode       bool     `json:"is_code"`
	Color        string   `json:"color,omitempty"`
	Pinned       bool     `json:"pinned"`
	CategoryID   string   `json:"category_id,omitempty"`
	TagIDs       []string `json:"tag_ids,omitempty"`
	CreatedAt    string   `json:"created_date"`
	ModifiedAt   string   `json:"modified_date"`
}

type categoryRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"created_date"`
}

type tagRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"created_date"`
}

// Load reads the document. A missing file yields the seed set; an unreadable
// or malformed file yields a CORRUPT_STORE error for the caller to handle.
func (a *JSONAdapter) Load() (*store.Snapshot, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Info("no notes file yet, starting from seed content",
				map[string]interface{}{"path": a.path})
			return Seed(), nil
		}
		return nil, errors.Wrap(errors.ErrPersistence, "cannot read notes file", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptStore, "malformed notes file", err)
	}
	return decodeDocument(&doc)
}

// Save writes the full state atomically: the document goes to a temp file in
// the same directory, then renames over the previous copy, so a crash
// mid-write never corrupts the last good state.
func (a *JSONAdapter) Save(snap *store.Snapshot) error {
	doc := encodeDocument(snap)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot encode notes", err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot create data directory", err)
	}

	if a.backup.Enabled {
		if err := BackupFile(a.path, a.backup.Dir, a.backup.Max); err != nil {
			// A failed backup must not block the save itself.
			logging.Warn("backup before save failed", map[string]interface{}{"error": err.Error()})
		}
	}

	tmp, err := os.CreateTemp(dir, "notes-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot create temp file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrPersistence, "cannot write notes file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrPersistence, "cannot write notes file", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrPersistence, "cannot replace notes file", err)
	}
	return nil
}

// Close is a no-op for the flat-file adapter.
func (a *JSONAdapter) Close() error {
	return nil
}

// EncodeSnapshot renders a snapshot as the JSON document format, for exports
// that must stay loadable by the JSON backend.
func EncodeSnapshot(snap *store.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(encodeDocument(snap), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot encode notes", err)
	}
	return data, nil
}

// DecodeSnapshot parses a JSON document produced by EncodeSnapshot or the
// JSON backend.
func DecodeSnapshot(data []byte) (*store.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptStore, "malformed notes document", err)
	}
	return decodeDocument(&doc)
}

func encodeDocument(snap *store.Snapshot) *document {
	doc := &document{
		Notes:      make([]noteRecord, 0, len(snap.Notes)),
		Categories: make([]categoryRecord, 0, len(snap.Categories)),
		Tags:       make([]tagRecord, 0, len(snap.Tags)),
	}
	for _, note := range snap.Notes {
		rec := noteRecord{
			ID:           note.ID.String(),
			Title:        note.Title,
			Content:      note.Content,
			PlainContent: note.PlainContent,
			IsCode:       note.IsCode,
			Color:        note.Color,
			Pinned:       note.Pinned,
			CategoryID:   note.CategoryID.String(),
			CreatedAt:    formatTime(note.CreatedAt),
			ModifiedAt:   formatTime(note.ModifiedAt),
		}
		for _, id := range note.TagIDs {
			rec.TagIDs = append(rec.TagIDs, id.String())
		}
		doc.Notes = append(doc.Notes, rec)
	}
	for _, category := range snap.Categories {
		doc.Categories = append(doc.Categories, categoryRecord{
			ID:        category.ID.String(),
			Name:      category.Name,
			Color:     category.Color,
			CreatedAt: formatTime(category.CreatedAt),
		})
	}
	for _, tag := range snap.Tags {
		doc.Tags = append(doc.Tags, tagRecord{
			ID:        tag.ID.String(),
			Name:      tag.Name,
			Color:     tag.Color,
			CreatedAt: formatTime(tag.CreatedAt),
		})
	}
	return doc
}

func decodeDocument(doc *document) (*store.Snapshot, error) {
	snap := &store.Snapshot{}
	for _, rec := range doc.Notes {
		if err := uuid.Validate(rec.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "bad note id", err)
		}
		created, err := parseTime(rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		modified, err := parseTime(rec.ModifiedAt)
		if err != nil {
			return nil, err
		}
		note := &models.Note{
			ID:           models.UUID(rec.ID),
			Title:        rec.Title,
			Content:      rec.Content,
			PlainContent: rec.PlainContent,
			IsCode:       rec.IsCode,
			Color:        rec.Color,
			Pinned:       rec.Pinned,
			CategoryID:   models.UUID(rec.CategoryID),
			CreatedAt:    created,
			ModifiedAt:   modified,
		}
		for _, id := range rec.TagIDs {
			note.TagIDs = append(note.TagIDs, models.UUID(id))
		}
		snap.Notes = append(snap.Notes, note)
	}
	for _, rec := range doc.Categories {
		if err := uuid.Validate(rec.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "bad category id", err)
		}
		created, err := parseTime(rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		snap.Categories = append(snap.Categories, &models.Category{
			ID:        models.UUID(rec.ID),
			Name:      rec.Name,
			Color:     rec.Color,
			CreatedAt: created,
		})
	}
	for _, rec := range doc.Tags {
		if err := uuid.Validate(rec.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "bad tag id", err)
		}
		created, err := parseTime(rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		snap.Tags = append(snap.Tags, &models.Tag{
			ID:        models.UUID(rec.ID),
			Name:      rec.Name,
			Color:     rec.Color,
			CreatedAt: created,
		})
	}
	return snap, nil
}
