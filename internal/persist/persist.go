// Package persist translates the note store's state to and from durable
// storage. Two adapters exist: a flat JSON document and an embedded SQLite
// database. Neither retains state of its own; they transcode snapshots on
// demand.
package persist

import (
	"time"

	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/store"
)

// TimeLayout is the on-disk timestamp encoding: RFC 3339 UTC with fixed-width
// nanoseconds, so encoded values sort lexically and parse back to the
// identical instant.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Adapter loads and saves full store snapshots.
type Adapter interface {
	// Load reads the durable state. A store that does not exist yet yields
	// the built-in seed set, not an empty snapshot. A corrupt store yields
	// an error carrying ErrCorruptStore; the caller falls back to the seed.
	Load() (*store.Snapshot, error)

	// Save writes the full state. Failures are reported, never fatal; the
	// in-memory store stays authoritative.
	Save(*store.Snapshot) error

	// Close releases any underlying resources.
	Close() error
}

// BackupOptions configures pre-save backups of the durable file.
type BackupOptions struct {
	Enabled bool
	Dir     string
	Max     int // backups retained; oldest pruned first
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCorruptStore, "unparseable timestamp", err)
	}
	return t.UTC(), nil
}
