package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/store"
)

func openTestDB(t *testing.T, dir string) *SQLiteAdapter {
	t.Helper()
	adapter, err := OpenSQLite(dir, BackupOptions{})
	if err != nil {
		t.Fatalf("OpenSQLite(): %v", err)
	}
	t.Cleanup(func() { adapter.Close() })
	return adapter
}

func TestSQLiteLoadEmptySeeds(t *testing.T) {
	adapter := openTestDB(t, t.TempDir())

	snap, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if len(snap.Notes) != 2 {
		t.Fatalf("seed has %d notes, want 2", len(snap.Notes))
	}
	if len(snap.Categories) != 4 || len(snap.Tags) != 5 {
		t.Errorf("seed has %d categories and %d tags, want 4 and 5",
			len(snap.Categories), len(snap.Tags))
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	adapter := openTestDB(t, dir)
	want := sampleSnapshot(t)

	if err := adapter.Save(want); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	adapter.Close()

	// Reopen from disk so nothing survives in memory.
	reopened := openTestDB(t, dir)
	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	checkSnapshotsEqual(t, got, want)
}

func TestSQLiteEmptyStateSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	adapter := openTestDB(t, dir)

	// A user who deletes everything must get the empty store back, not the
	// seed content.
	if err := adapter.Save(&store.Snapshot{}); err != nil {
		t.Fatalf("Save() of empty state: %v", err)
	}

	got, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if len(got.Notes) != 0 || len(got.Categories) != 0 || len(got.Tags) != 0 {
		t.Fatalf("same-session reload of empty state returned %d notes, %d categories, %d tags",
			len(got.Notes), len(got.Categories), len(got.Tags))
	}
	adapter.Close()

	reopened := openTestDB(t, dir)
	got, err = reopened.Load()
	if err != nil {
		t.Fatalf("Load() after reopen: %v", err)
	}
	if len(got.Notes) != 0 || len(got.Categories) != 0 || len(got.Tags) != 0 {
		t.Fatalf("reopened empty database returned %d notes, %d categories, %d tags",
			len(got.Notes), len(got.Categories), len(got.Tags))
	}
}

func TestSQLiteSaveReplacesState(t *testing.T) {
	adapter := openTestDB(t, t.TempDir())

	first := sampleSnapshot(t)
	if err := adapter.Save(first); err != nil {
		t.Fatalf("Save(): %v", err)
	}

	second := sampleSnapshot(t)
	second.Notes = second.Notes[:1]
	second.Tags = nil
	second.Notes[0].TagIDs = nil
	if err := adapter.Save(second); err != nil {
		t.Fatalf("second Save(): %v", err)
	}

	got, err := adapter.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if len(got.Notes) != 1 {
		t.Errorf("got %d notes after replacing save, want 1", len(got.Notes))
	}
	if len(got.Tags) != 0 {
		t.Errorf("got %d tags after replacing save, want 0", len(got.Tags))
	}
	for _, n := range got.Notes {
		if len(n.TagIDs) != 0 {
			t.Errorf("note %s kept stale tag associations: %v", n.ID, n.TagIDs)
		}
	}
}

func TestSQLiteAssociationsSurviveReload(t *testing.T) {
	dir := t.TempDir()
	adapter := openTestDB(t, dir)
	snap := sampleSnapshot(t)

	if err := adapter.Save(snap); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	adapter.Close()

	got, err := openTestDB(t, dir).Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	var tagged *models.Note
	for _, n := range got.Notes {
		if len(n.TagIDs) > 0 {
			tagged = n
		}
	}
	if tagged == nil {
		t.Fatal("no note kept its tag associations across reload")
	}
	if tagged.CategoryID != snap.Categories[0].ID {
		t.Errorf("tagged note category = %q, want %q", tagged.CategoryID, snap.Categories[0].ID)
	}
	if tagged.TagIDs[0] != snap.Tags[0].ID {
		t.Errorf("tagged note tag = %q, want %q", tagged.TagIDs[0], snap.Tags[0].ID)
	}
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	openTestDB(t, dir).Close()

	// Opening again must apply nothing and fail nothing.
	adapter := openTestDB(t, dir)

	migrator := NewMigrator(adapter.db)
	version, err := migrator.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion(): %v", err)
	}
	if want := migrationSteps[len(migrationSteps)-1].Version; version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}

	applied, err := migrator.Applied()
	if err != nil {
		t.Fatalf("Applied(): %v", err)
	}
	if len(applied) != len(migrationSteps) {
		t.Fatalf("got %d applied migrations, want %d", len(applied), len(migrationSteps))
	}
	for i, mig := range applied {
		if mig.Checksum != checksum(migrationSteps[i].SQL) {
			t.Errorf("migration %d checksum does not match its source", mig.Version)
		}
	}
}

func TestSQLiteCreatesDBFile(t *testing.T) {
	dir := t.TempDir()
	adapter := openTestDB(t, dir)

	if err := adapter.Save(sampleSnapshot(t)); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DBFileName)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}
