// Package store owns the canonical in-memory state and its durable
// snapshot. All reads and writes go through one mutex, so the server
// behaves as a single-writer system no matter how many connections the
// HTTP layer accepts: a mutation validates, applies, and persists before
// the next one starts.
package store

import (
	"fmt"
	"sync"
	"time"

	"huddle/pkg/logger"
	"huddle/pkg/models"
)

// Store is the single source of truth for users, channels, DMs and
// messages. The in-memory state and the on-disk snapshot never diverge
// for longer than one operation: every successful Update rewrites the
// snapshot before releasing the lock.
type Store struct {
	mu    sync.Mutex
	db    snapshotDB
	state *models.State

	// warnBytes, when non-zero, triggers a warning log whenever a saved
	// snapshot exceeds the threshold.
	warnBytes uint64
}

// Open opens (or creates) the pebble database at path and loads the
// latest snapshot into memory. A missing snapshot yields empty state.
func Open(path string) (*Store, error) {
	db, err := openPebble(path)
	if err != nil {
		return nil, err
	}
	st, err := db.loadSnapshot()
	if err != nil {
		_ = db.close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if st == nil {
		st = models.NewState()
	}
	logger.Info("store_opened", "path", path, "users", len(st.Users), "channels", len(st.Channels), "dms", len(st.DMs), "messages", len(st.Messages))
	return &Store{db: db, state: st}, nil
}

// Close flushes nothing extra (saves are synchronous) and closes the DB.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.close()
	s.db = nil
	logger.Info("store_closed")
	return err
}

// Ready reports whether the store is open.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db != nil
}

// SetSnapshotWarnBytes sets the snapshot-size warning threshold.
func (s *Store) SetSnapshotWarnBytes(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnBytes = n
}

// Update runs fn against the state under the store lock and, when fn
// succeeds, persists the whole snapshot. fn must do all its validation
// before touching the state: an error return skips the save and the
// caller relies on the state being untouched.
func (s *Store) Update(fn func(*models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("store not open")
	}
	if err := fn(s.state); err != nil {
		return err
	}
	return s.save()
}

// View runs fn read-only against the state under the store lock. fn
// must not retain or mutate anything it is handed.
func (s *Store) View(fn func(*models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return fmt.Errorf("store not open")
	}
	return fn(s.state)
}

// Clear resets every collection and the id counters, then persists the
// empty snapshot. Used by the administrative clear operation and tests.
func (s *Store) Clear() error {
	return s.Update(func(st *models.State) error {
		st.Reset()
		return nil
	})
}

// save is called with the lock held.
func (s *Store) save() error {
	start := time.Now()
	n, err := s.db.saveSnapshot(s.state)
	if err != nil {
		saveFailures.Inc()
		logger.Error("snapshot_save_failed", "error", err)
		return err
	}
	saveTotal.Inc()
	saveSeconds.Observe(time.Since(start).Seconds())
	snapshotBytes.Set(float64(n))
	if s.warnBytes > 0 && uint64(n) > s.warnBytes {
		logger.Warn("snapshot_size_exceeds_threshold", "bytes", n, "threshold", s.warnBytes)
	}
	return nil
}
