// Package blob stores the roster snapshot as a single object in a blob
// store such as S3 or MinIO.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"roster/internal/blob/core"
	"roster/internal/infra/snapshot/codec"
	"roster/pkg/domain"
)

// DefaultKey is the object key used when none is configured.
const DefaultKey = "people.json"

// Gateway implements domain.SnapshotGateway over a core.Store.
type Gateway struct {
	mu     sync.Mutex
	store  core.Store
	key    string
	format codec.Format
}

var _ domain.SnapshotGateway = (*Gateway)(nil)

// New returns a gateway writing key in store. The encoding follows the key's
// extension.
func New(store core.Store, key string) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	return &Gateway{store: store, key: key, format: codec.FormatForPath(key)}
}

// Driver implements domain.SnapshotGateway, e.g. "blob:s3".
func (g *Gateway) Driver() string { return "blob:" + string(g.store.Driver()) }

// Key returns the object key.
func (g *Gateway) Key() string { return g.key }

// Save uploads the snapshot, replacing the previous object.
func (g *Gateway) Save(ctx context.Context, people []domain.Person) error {
	data, err := codec.Encode(g.format, people)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Driver: g.Driver(), Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	opts := core.PutOptions{ContentType: g.format.ContentType(), Metadata: map[string]string{"records": fmt.Sprint(len(people))}}
	if _, err := g.store.Put(ctx, g.key, bytes.NewReader(data), opts); err != nil {
		return &domain.PersistenceError{Op: "save", Driver: g.Driver(), Err: err}
	}
	return nil
}

// Load downloads and decodes the snapshot. A missing object is an empty roster.
func (g *Gateway) Load(ctx context.Context) ([]domain.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, rc, err := g.store.Get(ctx, g.key)
	if errors.Is(err, core.ErrNotFound) {
		return []domain.Person{}, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: g.Driver(), Err: err}
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: g.Driver(), Err: fmt.Errorf("read %s: %w", g.key, err)}
	}
	people, err := codec.Decode(g.format, data)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: g.Driver(), Err: err}
	}
	return people, nil
}

// Exists reports whether the snapshot object is present.
func (g *Gateway) Exists(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := g.store.Head(ctx, g.key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, core.ErrNotFound):
		return false, nil
	default:
		return false, &domain.PersistenceError{Op: "exists", Driver: g.Driver(), Err: err}
	}
}

// Close implements io.Closer.
func (g *Gateway) Close() error { return nil }
