// Package postgres persists the roster snapshot as a JSONB payload in a
// PostgreSQL state table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"roster/internal/infra/snapshot/codec"
	"roster/pkg/domain"
)

const (
	// DriverName identifies the postgres gateway.
	DriverName = "postgres"

	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/roster?sslmode=disable"
	bucket        = "people"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store implements domain.SnapshotGateway on Postgres.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ domain.SnapshotGateway = (*Store)(nil)

// NewStore connects using dsn (falling back to a local default) and ensures
// the state table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

// Driver implements domain.SnapshotGateway.
func (s *Store) Driver() string { return DriverName }

// Save upserts the snapshot row inside a transaction.
func (s *Store) Save(ctx context.Context, people []domain.Person) error {
	data, err := codec.Encode(codec.FormatJSON, people)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, data); err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: err}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, data []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, data); err != nil {
		return fmt.Errorf("upsert %s: %w", bucket, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
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
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, bucket).Scan(&payload)
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

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
