package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupMissingSourceIsNoOp(t *testing.T) {
	dir := t.TempDir()
	if err := BackupFile(filepath.Join(dir, "absent.json"), filepath.Join(dir, "backups"), 3); err != nil {
		t.Fatalf("BackupFile() for missing source: %v", err)
	}
}

func TestBackupCopiesContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.json")
	if err := os.WriteFile(src, []byte(`{"notes":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	backupDir := filepath.Join(dir, "backups")

	if err := BackupFile(src, backupDir, 0); err != nil {
		t.Fatalf("BackupFile(): %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(backupDir, "notes.json.*.bak"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("got backups %v (err %v), want exactly one", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"notes":[]}` {
		t.Errorf("backup content = %q, want original content", data)
	}
}

func TestBackupPrunesOldest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.json")
	if err := os.WriteFile(src, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Pre-seed five old backups with ascending modification times.
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("notes.json.2025010%d_120000.bak", i+1)
		path := filepath.Join(backupDir, name)
		if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
		stamp := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}

	if err := BackupFile(src, backupDir, 3); err != nil {
		t.Fatalf("BackupFile(): %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(backupDir, "notes.json.*.bak"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d backups after pruning, want 3: %v", len(matches), matches)
	}

	// The two oldest pre-seeded backups must be the ones gone.
	for _, gone := range []string{"notes.json.20250101_120000.bak", "notes.json.20250102_120000.bak"} {
		if _, err := os.Stat(filepath.Join(backupDir, gone)); !os.IsNotExist(err) {
			t.Errorf("oldest backup %s still present", gone)
		}
	}
}

func TestBackupUnlimitedRetention(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.json")
	if err := os.WriteFile(src, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("notes.json.2025020%d_080000.bak", i+1)
		if err := os.WriteFile(filepath.Join(backupDir, name), []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := BackupFile(src, backupDir, 0); err != nil {
		t.Fatalf("BackupFile(): %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(backupDir, "notes.json.*.bak"))
	if len(matches) != 5 {
		t.Errorf("got %d backups with max=0, want all 5 kept", len(matches))
	}
}
