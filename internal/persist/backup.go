package persist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/logging"
)

const backupTimeFormat = "20060102_150405"

// BackupFile copies the durable file at path into dir as
// <base>.<timestamp>.bak and prunes the oldest backups beyond max. A missing
// source file is a no-op: there is nothing to protect yet.
func BackupFile(path, dir string, max int) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrPersistence, "cannot stat durable file", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot create backup directory", err)
	}

	base := filepath.Base(path)
	name := fmt.Sprintf("%s.%s.bak", base, time.Now().Format(backupTimeFormat))
	target := filepath.Join(dir, name)

	if err := copyFile(path, target); err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot copy backup", err)
	}
	logging.Debug("backup written", map[string]interface{}{"path": target})

	if max > 0 {
		if err := pruneBackups(dir, base, max); err != nil {
			return err
		}
	}
	return nil
}

// pruneBackups keeps the max most recent backups of base in dir, deleting
// the oldest first by file modification time.
func pruneBackups(dir, base string, max int) error {
	matches, err := filepath.Glob(filepath.Join(dir, base+".*.bak"))
	if err != nil {
		return errors.Wrap(errors.ErrPersistence, "cannot list backups", err)
	}
	if len(matches) <= max {
		return nil
	}

	type backup struct {
		path    string
		modTime time.Time
	}
	backups := make([]backup, 0, len(matches))
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: m, modTime: fi.ModTime()})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.Before(backups[j].modTime)
	})

	for _, b := range backups[:len(backups)-max] {
		if err := os.Remove(b.path); err != nil {
			logging.Warn("cannot remove old backup", map[string]interface{}{
				"path":  b.path,
				"error": err.Error(),
			})
			continue
		}
		logging.Debug("old backup removed", map[string]interface{}{"path": b.path})
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
