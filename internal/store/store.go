// Package store implements the record store: named collections persisted
// as JSON array payloads in a single embedded SQLite table, plus scalar
// markers (the current session) in the same table.
//
// Every read hits the substrate; no state is cached between calls. Writes
// replace the whole collection payload. Read-modify-write sequences are
// serialized per collection and guarded by an optimistic revision check,
// so two concurrent updates cannot silently overwrite each other.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

// Well-known collection and marker names.
const (
	CollectionUsers         = "users"
	CollectionPatients      = "patients"
	CollectionPrescriptions = "prescriptions"
	KeyCurrentUser          = "currentUser"
)

// ErrRevisionConflict is returned when a write loses the revision race
// more times than the retry budget allows.
var ErrRevisionConflict = errors.New("store: revision conflict")

const maxWriteRetries = 5

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	revision   INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP NOT NULL
)`

// Store is a handle to the persistent substrate.
type Store struct {
	db      *sqlx.DB
	metrics *metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics attaches operation metrics to the store.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open opens (creating if needed) the substrate at path.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection: sqlite allows one writer at a time and the
	// driver surfaces contention as SQLITE_BUSY otherwise.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create collections table: %w", err)
	}

	s := &Store{db: db, locks: make(map[string]*sync.Mutex)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether the named collection or marker has ever been
// written. An empty persisted collection still exists; an absent one
// does not.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM collections WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("check collection %q: %w", name, err)
	}
	return n > 0, nil
}

// Delete removes the named collection or marker entirely. Deleting an
// absent name is a no-op.
func (s *Store) Delete(ctx context.Context, name string) error {
	lock := s.lock(name)
	lock.Lock()
	defer lock.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

func (s *Store) observe(name, op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.StoreOperations.WithLabelValues(name, op, status).Inc()
	s.metrics.StoreLatency.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
}

// readRaw returns the current payload and revision for name. An absent
// row is not an error: it yields a nil payload at revision zero.
func (s *Store) readRaw(ctx context.Context, name string) ([]byte, int64, error) {
	var row struct {
		Payload  []byte `db:"payload"`
		Revision int64  `db:"revision"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT payload, revision FROM collections WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read %q: %w", name, err)
	}
	return row.Payload, row.Revision, nil
}

// writeRaw persists payload for name, but only if the stored revision
// still matches expected. A mismatch returns ErrRevisionConflict.
func (s *Store) writeRaw(ctx context.Context, name string, payload []byte, expected int64) error {
	now := time.Now().UTC()
	if expected == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO collections (name, payload, revision, updated_at)
			 VALUES (?, ?, 1, ?)
			 ON CONFLICT(name) DO UPDATE SET
				payload = excluded.payload,
				revision = collections.revision + 1,
				updated_at = excluded.updated_at
			 WHERE collections.revision = 0`,
			name, payload, now)
		if err != nil {
			return fmt.Errorf("write %q: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRevisionConflict
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE collections
		 SET payload = ?, revision = revision + 1, updated_at = ?
		 WHERE name = ? AND revision = ?`,
		payload, now, name, expected)
	if err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRevisionConflict
	}
	return nil
}

// Load reads the named collection. Absence is not an error: it returns
// an empty slice. Records are decoded fresh on each call, so the caller
// always owns its copy.
func Load[T any](ctx context.Context, s *Store, name string) ([]T, error) {
	start := time.Now()
	payload, _, err := s.readRaw(ctx, name)
	s.observe(name, "load", start, err)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the named collection with records. The caller is
// expected to have read-modify-written the full set it intends to
// persist; prefer Update for that sequence.
func Save[T any](ctx context.Context, s *Store, name string, records []T) error {
	return Update(ctx, s, name, func([]T) ([]T, error) {
		return records, nil
	})
}

// Update runs a serialized read-modify-write against the named
// collection: fn receives the current records and returns the full set
// to persist. The write carries an optimistic revision check; on a
// conflict (another writer, possibly another process) the sequence is
// retried from a fresh read. An error from fn aborts without writing
// and is returned unchanged.
func Update[T any](ctx context.Context, s *Store, name string, fn func([]T) ([]T, error)) error {
	lock := s.lock(name)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	var err error
	defer func() { s.observe(name, "update", start, err) }()

	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		var payload []byte
		var revision int64
		payload, revision, err = s.readRaw(ctx, name)
		if err != nil {
			return err
		}

		var records []T
		if payload != nil {
			if err = json.Unmarshal(payload, &records); err != nil {
				err = fmt.Errorf("decode %q: %w", name, err)
				return err
			}
		}

		var next []T
		next, err = fn(records)
		if err != nil {
			return err
		}
		if next == nil {
			next = []T{}
		}

		var encoded []byte
		encoded, err = json.Marshal(next)
		if err != nil {
			err = fmt.Errorf("encode %q: %w", name, err)
			return err
		}

		err = s.writeRaw(ctx, name, encoded, revision)
		if err == nil {
			if s.metrics != nil {
				s.metrics.CollectionSizes.WithLabelValues(name).Set(float64(len(next)))
			}
			return nil
		}
		if !errors.Is(err, ErrRevisionConflict) {
			return err
		}
		if s.metrics != nil {
			s.metrics.StoreWriteConflicts.Inc()
		}
	}
	err = fmt.Errorf("update %q: %w", name, ErrRevisionConflict)
	return err
}

// LoadValue reads a scalar marker. Returns nil when absent.
func LoadValue[T any](ctx context.Context, s *Store, key string) (*T, error) {
	start := time.Now()
	payload, _, err := s.readRaw(ctx, key)
	s.observe(key, "load", start, err)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return &value, nil
}

// SaveValue writes a scalar marker, overwriting any previous value.
func SaveValue[T any](ctx context.Context, s *Store, key string, value T) error {
	lock := s.lock(key)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	var err error
	defer func() { s.observe(key, "save", start, err) }()

	encoded, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("encode %q: %w", key, err)
		return err
	}

	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		var revision int64
		_, revision, err = s.readRaw(ctx, key)
		if err != nil {
			return err
		}
		err = s.writeRaw(ctx, key, encoded, revision)
		if err == nil || !errors.Is(err, ErrRevisionConflict) {
			return err
		}
	}
	err = fmt.Errorf("save %q: %w", key, ErrRevisionConflict)
	return err
}
