package persist

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/c0lornote/c0lornote/internal/errors"
)

// migrationStep is one versioned, append-only schema change. Steps are
// compiled in so a data directory never needs migration files beside it.
type migrationStep struct {
	Version     int
	Description string
	SQL         string
}

var migrationSteps = []migrationStep{
	{
		Version:     1,
		Description: "initial_schema",
		SQL: `
		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			color TEXT,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			plain_content TEXT NOT NULL,
			is_code INTEGER NOT NULL DEFAULT 0,
			color TEXT,
			pinned INTEGER NOT NULL DEFAULT 0,
			category_id TEXT REFERENCES categories(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL,
			modified_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS note_tags (
			note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (note_id, tag_id)
		);
		CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category_id);
		CREATE INDEX IF NOT EXISTS idx_notes_modified ON notes(modified_at);
		`,
	},
}

// AppliedMigration records one migration row from schema_migrations.
type AppliedMigration struct {
	Version     int
	AppliedAt   time.Time
	Description string
	Checksum    string
}

// Migrator applies the embedded migration steps in order.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) initialize() error {
	query := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY CHECK(version > 0),
		applied_at INTEGER NOT NULL CHECK(applied_at > 0),
		description TEXT NOT NULL CHECK(length(description) > 0),
		checksum TEXT NOT NULL CHECK(length(checksum) = 64)
	);`
	_, err := m.db.Exec(query)
	return err
}

// CurrentVersion returns the highest applied schema version, 0 for a fresh
// database.
func (m *Migrator) CurrentVersion() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

// Applied returns all applied migrations in version order.
func (m *Migrator) Applied() ([]AppliedMigration, error) {
	rows, err := m.db.Query(
		"SELECT version, applied_at, description, checksum FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var mig AppliedMigration
		var appliedAt int64
		if err := rows.Scan(&mig.Version, &appliedAt, &mig.Description, &mig.Checksum); err != nil {
			return nil, err
		}
		mig.AppliedAt = time.Unix(appliedAt, 0)
		applied = append(applied, mig)
	}
	return applied, rows.Err()
}

// Up applies all pending steps. A step whose recorded checksum no longer
// matches its compiled-in SQL indicates a tampered or mismatched database.
func (m *Migrator) Up() error {
	if err := m.initialize(); err != nil {
		return errors.Wrap(errors.ErrMigration, "cannot create migration table", err)
	}

	applied, err := m.Applied()
	if err != nil {
		return errors.Wrap(errors.ErrMigration, "cannot read applied migrations", err)
	}
	byVersion := make(map[int]AppliedMigration, len(applied))
	for _, mig := range applied {
		byVersion[mig.Version] = mig
	}

	for _, step := range migrationSteps {
		if prev, ok := byVersion[step.Version]; ok {
			if prev.Checksum != checksum(step.SQL) {
				return errors.Newf(errors.ErrMigration,
					"migration %d checksum mismatch", step.Version)
			}
			continue
		}
		if err := m.apply(step); err != nil {
			return errors.Wrap(errors.ErrMigration,
				fmt.Sprintf("cannot apply migration %d", step.Version), err)
		}
	}
	return nil
}

func (m *Migrator) apply(step migrationStep) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(step.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, applied_at, description, checksum)
		 VALUES (?, ?, ?, ?)`,
		step.Version, time.Now().Unix(), step.Description, checksum(step.SQL),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func checksum(sqlText string) string {
	sum := sha256.Sum256([]byte(sqlText))
	return hex.EncodeToString(sum[:])
}
