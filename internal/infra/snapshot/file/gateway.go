// Package file stores the roster snapshot in a local file, replaced
// atomically on every save.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"roster/internal/infra/snapshot/codec"
	"roster/pkg/domain"
)

// DriverName identifies the file gateway in errors and logs.
const DriverName = "file"

// DefaultPath is the snapshot location used when none is configured.
const DefaultPath = "people.json"

// Gateway implements domain.SnapshotGateway over a single file.
type Gateway struct {
	mu     sync.Mutex
	path   string
	format codec.Format
}

var _ domain.SnapshotGateway = (*Gateway)(nil)

// New returns a gateway for path. The encoding follows the file extension.
func New(path string) *Gateway {
	if path == "" {
		path = DefaultPath
	}
	return &Gateway{path: path, format: codec.FormatForPath(path)}
}

// Path returns the snapshot file location.
func (g *Gateway) Path() string { return g.path }

// Driver implements domain.SnapshotGateway.
func (g *Gateway) Driver() string { return DriverName }

// Save replaces the snapshot file with people. The new content is written to
// a temporary file in the same directory, synced, then renamed over the old
// one.
func (g *Gateway) Save(_ context.Context, people []domain.Person) error {
	data, err := codec.Encode(g.format, people)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := writeAtomic(g.path, data); err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: err}
	}
	return nil
}

// Load reads the snapshot. A missing file is an empty roster.
func (g *Gateway) Load(_ context.Context) ([]domain.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Person{}, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: DriverName, Err: err}
	}
	people, err := codec.Decode(g.format, data)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: DriverName, Err: fmt.Errorf("%s: %w", g.path, err)}
	}
	return people, nil
}

// Exists reports whether the snapshot file has been written.
func (g *Gateway) Exists(_ context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := os.Stat(g.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &domain.PersistenceError{Op: "exists", Driver: DriverName, Err: err}
	}
}

// Close implements io.Closer; the file gateway holds no handles.
func (g *Gateway) Close() error { return nil }

func writeAtomic(path string, data []byte) (retErr error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
