// Package sqlite persists the roster snapshot as a JSON payload in an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"roster/internal/infra/snapshot/codec"
	"roster/pkg/domain"
)

const (
	// DriverName identifies the sqlite gateway.
	DriverName = "sqlite"
	// DefaultPath is used when no database path is configured.
	DefaultPath = "roster.db"

	bucket = "people"
)

// Store implements domain.SnapshotGateway over a single-row state table.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ domain.SnapshotGateway = (*Store)(nil)

// NewStore opens (creating if needed) the database at path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Driver implements domain.SnapshotGateway.
func (s *Store) Driver() string { return DriverName }

// Save upserts the snapshot row inside a transaction.
func (s *Store) Save(ctx context.Context, people []domain.Person) (retErr error) {
	data, err := codec.Encode(codec.FormatJSON, people)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: fmt.Errorf("upsert %s: %w", bucket, err)}
	}
	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Load returns the stored roster, or an empty one when nothing was saved.
func (s *Store) Load(ctx context.Context) ([]domain.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, found, err := s.payload(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: DriverName, Err: err}
	}
	if !found {
		return []domain.Person{}, nil
	}
	people, err := codec.Decode(codec.FormatJSON, payload)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: DriverName, Err: err}
	}
	return people, nil
}

// Exists reports whether a snapshot row has been written.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found, err := s.payload(ctx)
	if err != nil {
		return false, &domain.PersistenceError{Op: "exists", Driver: DriverName, Err: err}
	}
	return found, nil
}

func (s *Store) payload(ctx context.Context) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, bucket).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("select state: %w", err)
	}
	return payload, true, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
