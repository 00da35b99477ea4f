package store

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"huddle/pkg/logger"
	"huddle/pkg/models"
)

// snapshotKey is the single record the whole aggregate serializes under:
// one JSON document with top-level users, channels, dms and messages.
const snapshotKey = "state:snapshot"

// snapshotDB is the narrow persistence seam the store needs. Pebble is
// the production implementation; tests may substitute an in-memory one.
type snapshotDB interface {
	loadSnapshot() (*models.State, error)
	saveSnapshot(st *models.State) (int, error)
	close() error
}

type pebbleDB struct {
	db   *pebble.DB
	path string
}

func openPebble(path string) (*pebbleDB, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	return &pebbleDB{db: db, path: path}, nil
}

func (p *pebbleDB) close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func (p *pebbleDB) loadSnapshot() (*models.State, error) {
	val, closer, err := p.db.Get([]byte(snapshotKey))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	st := models.NewState()
	if err := json.Unmarshal(val, st); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	if st.Messages == nil {
		st.Messages = make(map[int64]*models.Message)
	}
	return st, nil
}

// saveSnapshot writes the serialized state with a synchronous WAL flush
// so a crash after a reported success never loses the mutation. Returns
// the encoded size in bytes.
func (p *pebbleDB) saveSnapshot(st *models.State) (int, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := p.db.Set([]byte(snapshotKey), data, pebble.Sync); err != nil {
		return 0, err
	}
	return len(data), nil
}
