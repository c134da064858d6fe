// Package autosave runs the background save loop. The saver ticks at the
// configured interval, writes the store through the persistence adapter
// whenever unsaved changes exist, and performs one final save on shutdown.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/c0lornote/c0lornote/internal/logging"
	"github.com/c0lornote/c0lornote/internal/persist"
	"github.com/c0lornote/c0lornote/internal/store"
)

// DefaultInterval is used when the configured interval is zero or negative.
const DefaultInterval = 5 * time.Minute

// Saver periodically flushes a dirty store through an adapter.
type Saver struct {
	store    *store.Store
	adapter  persist.Adapter
	interval time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
	lastSave  time.Time
	saveCount int
}

// New creates a Saver. Start must be called before any saving happens.
func New(s *store.Store, adapter persist.Adapter, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Saver{
		store:    s,
		adapter:  adapter,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background loop. Calling Start twice is a no-op.
func (s *Saver) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	logging.Info("autosave started",
		map[string]interface{}{"interval_seconds": s.interval.Seconds()})
}

// Stop halts the loop and performs one final save if unsaved changes remain.
// It blocks until the loop has exited.
func (s *Saver) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	s.SaveIfDirty()
	logging.Info("autosave stopped", nil)
}

func (s *Saver) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.SaveIfDirty()
		}
	}
}

// SaveIfDirty writes the store if it holds unsaved changes. Save failures
// are logged and reported but never stop the loop; the in-memory state stays
// intact for the next attempt.
func (s *Saver) SaveIfDirty() error {
	if !s.store.Dirty() {
		return nil
	}

	snap := s.store.Snapshot()
	if err := s.adapter.Save(snap); err != nil {
		logging.Error("autosave failed", err, nil)
		return err
	}
	s.store.MarkClean()

	s.mu.Lock()
	s.lastSave = time.Now()
	s.saveCount++
	s.mu.Unlock()

	logging.Debug("autosave completed",
		map[string]interface{}{"notes": len(snap.Notes)})
	return nil
}

// LastSave returns the time of the most recent successful save, zero if none.
func (s *Saver) LastSave() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}

// SaveCount returns how many saves have completed since Start.
func (s *Saver) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCount
}

// IsRunning reports whether the loop is active.
func (s *Saver) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
