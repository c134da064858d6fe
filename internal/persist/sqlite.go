package persist

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/logging"
	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/store"
)

// DBFileName is the embedded database file name inside the data directory.
const DBFileName = "notes.db"

// SQLiteAdapter persists the store in an embedded SQLite database.
type SQLiteAdapter struct {
	db     *sql.DB
	path   string
	backup BackupOptions

	mu       sync.Mutex
	firstRun bool
}

// OpenSQLite opens (creating if needed) the database at <dataDir>/notes.db
// and applies pending schema migrations. The database is opened with WAL
// journaling and foreign key constraints enabled.
func OpenSQLite(dataDir string, backup BackupOptions) (*SQLiteAdapter, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot create data directory", err)
	}
	path := filepath.Join(dataDir, DBFileName)

	// The seed set applies only when the database does not exist yet. An
	// existing database with no rows is a store the user emptied, not a
	// first run.
	_, statErr := os.Stat(path)
	firstRun := os.IsNotExist(statErr)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot open database", err)
	}

	// SQLite supports a single writer; the event model is single-threaded
	// anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrPersistence, "cannot enable WAL mode", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrPersistence, "cannot enable foreign keys", err)
	}

	migrator := NewMigrator(db)
	if err := migrator.Up(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteAdapter{db: db, path: path, backup: backup, firstRun: firstRun}, nil
}

// Path returns the durable database file path.
func (a *SQLiteAdapter) Path() string {
	return a.path
}

// Close closes the database connection.
func (a *SQLiteAdapter) Close() error {
	return a.db.Close()
}

// Load reads the full state. A freshly created database yields the seed set;
// a pre-existing database loads exactly what was saved, even when that is
// nothing.
func (a *SQLiteAdapter) Load() (*store.Snapshot, error) {
	snap := &store.Snapshot{}

	categories, err := a.loadCategories()
	if err != nil {
		return nil, err
	}
	snap.Categories = categories

	tags, err := a.loadTags()
	if err != nil {
		return nil, err
	}
	snap.Tags = tags

	notes, err := a.loadNotes()
	if err != nil {
		return nil, err
	}
	snap.Notes = notes

	a.mu.Lock()
	firstRun := a.firstRun
	a.mu.Unlock()
	if firstRun {
		logging.Info("new database, starting from seed content",
			map[string]interface{}{"path": a.path})
		return Seed(), nil
	}
	return snap, nil
}

func (a *SQLiteAdapter) loadCategories() ([]*models.Category, error) {
	rows, err := a.db.Query(`SELECT id, name, color, created_at FROM categories`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot read categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		var color sql.NullString
		var created string
		if err := rows.Scan(&category.ID, &category.Name, &color, &created); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "cannot scan category", err)
		}
		if color.Valid {
			category.Color = color.String
		}
		if category.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

func (a *SQLiteAdapter) loadTags() ([]*models.Tag, error) {
	rows, err := a.db.Query(`SELECT id, name, color, created_at FROM tags`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot read tags", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var tag models.Tag
		var color sql.NullString
		var created string
		if err := rows.Scan(&tag.ID, &tag.Name, &color, &created); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "cannot scan tag", err)
		}
		if color.Valid {
			tag.Color = color.String
		}
		if tag.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

func (a *SQLiteAdapter) loadNotes() ([]*models.Note, error) {
	rows, err := a.db.Query(`
	SELECT id, title, content, plain_content, is_code, color, pinned,
	       category_id, created_at, modified_at
	FROM notes`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot read notes", err)
	}
	defer rows.Close()

	var notes []*models.Note
	byID := make(map[models.UUID]*models.Note)
	for rows.Next() {
		var note models.Note
		var color, categoryID sql.NullString
		var created, modified string
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.PlainContent,
			&note.IsCode, &color, &note.Pinned, &categoryID, &created, &modified); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "cannot scan note", err)
		}
		if color.Valid {
			note.Color = color.String
		}
		if categoryID.Valid {
			note.CategoryID = models.UUID(categoryID.String)
		}
		if note.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if note.ModifiedAt, err = parseTime(modified); err != nil {
			return nil, err
		}
		notes = append(notes, &note)
		byID[note.ID] = &note
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot read notes", err)
	}

	// Reconstruct the many-to-many note-tag associations.
	assocRows, err := a.db.Query(`SELECT note_id, tag_id FROM note_tags`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrPersistence, "cannot read note tags", err)
	}
	defer assocRows.Close()

	for assocRows.Next() {
		var noteID, tagID models.UUID
		if err := assocRows.Scan(&noteID, &tagID); err != nil {
			return nil, errors.Wrap(errors.ErrCorruptStore, "cannot scan note tag", err)
		}
		if note, ok := byID[noteID]; ok {
			note.TagIDs = append(note.TagIDs, tagID)
		}
	}
	return notes, assocRows.Err()
}

// Save replaces the full durable state in one transaction.
func (a *SQLiteAdapter) Save(snap *store.Snapshot) error {
	if a.backup.Enabled {
		if err := BackupFile(a.path, a.backup.Dir, a.backup.Max); err != nil {
			logging.Warn("backup before save failed", map[string]interface{}{"error": err.Error()})
		}
	}

	tx, err := a.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot begin transaction", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"note_tags", "notes", "tags", "categories"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return errors.Wrap(errors.ErrPersistence, "cannot clear "+table, err)
		}
	}

	for _, category := range snap.Categories {
		if _, err := tx.Exec(
			`INSERT INTO categories (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
			category.ID, category.Name, nullable(category.Color), formatTime(category.CreatedAt),
		); err != nil {
			return errors.Wrap(errors.ErrPersistence, "cannot write category", err)
		}
	}
	for _, tag := range snap.Tags {
		if _, err := tx.Exec(
			`INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
			tag.ID, tag.Name, nullable(tag.Color), formatTime(tag.CreatedAt),
		); err != nil {
			return errors.Wrap(errors.ErrPersistence, "cannot write tag", err)
		}
	}
	for _, note := range snap.Notes {
		if _, err := tx.Exec(`
		INSERT INTO notes (id, title, content, plain_content, is_code, color,
			pinned, category_id, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			note.ID, note.Title, note.Content, note.PlainContent, note.IsCode,
			nullable(note.Color), note.Pinned, nullable(note.CategoryID.String()),
			formatTime(note.CreatedAt), formatTime(note.ModifiedAt),
		); err != nil {
			return errors.Wrap(errors.ErrPersistence, "cannot write note", err)
		}
		for _, tagID := range note.TagIDs {
			if _, err := tx.Exec(
				`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`,
				note.ID, tagID,
			); err != nil {
				return errors.Wrap(errors.ErrPersistence, "cannot write note tag", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot commit save", err)
	}

	// Once a save lands the database is authoritative; a later Load must
	// return exactly this state, not the seed.
	a.mu.Lock()
	a.firstRun = false
	a.mu.Unlock()
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
