package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var _ ports.CacheStore = (*SQLiteStore)(nil)

const schema = `CREATE TABLE IF NOT EXISTS view_cache (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    BLOB    NOT NULL,
	updated_at TEXT    NOT NULL
)`

// SQLiteStore keeps the encoded view cache in a single-row sqlite table. The database is opened
// on first use, so an unusable cache path surfaces as a read or write failure.
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore returns a store backed by the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: filepath.Clean(path)}
}

// conn opens and migrates the database once. A failed attempt is retried on the next call.
func (s *SQLiteStore) conn(ctx context.Context, kind error) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, kind.Error()), "path", s.path)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, kind.Error()), "path", s.path)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, kind.Error()), "path", s.path)
	}
	s.db = db
	return db, nil
}

// Location implements ports.CacheStore.
func (s *SQLiteStore) Location() string {
	return s.path
}

// Read implements ports.CacheStore.
func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	db, err := s.conn(ctx, domain.ErrCacheReadFailed)
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM view_cache WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.path)
	}
	return payload, nil
}

// Write implements ports.CacheStore.
func (s *SQLiteStore) Write(ctx context.Context, data []byte) error {
	db, err := s.conn(ctx, domain.ErrCacheCreateFailed)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO view_cache (id, payload, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// Clear implements ports.CacheStore.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	db, err := s.conn(ctx, domain.ErrCacheCreateFailed)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM view_cache`); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clear sqlite cache"), "path", s.path)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
