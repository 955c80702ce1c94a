// Package memory keeps the roster snapshot in process memory. It encodes
// through the same codec as the durable drivers so round trips behave alike.
package memory

import (
	"context"
	"sync"

	"roster/internal/infra/snapshot/codec"
	"roster/pkg/domain"
)

// DriverName identifies the memory gateway.
const DriverName = "memory"

// Gateway implements domain.SnapshotGateway without touching disk.
type Gateway struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

var _ domain.SnapshotGateway = (*Gateway)(nil)

// New returns an empty gateway that reports no snapshot.
func New() *Gateway { return &Gateway{} }

// Driver implements domain.SnapshotGateway.
func (g *Gateway) Driver() string { return DriverName }

// Save replaces the stored snapshot.
func (g *Gateway) Save(_ context.Context, people []domain.Person) error {
	data, err := codec.Encode(codec.FormatJSON, people)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Driver: DriverName, Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payload = data
	g.saves++
	return nil
}

// Load decodes the stored snapshot, or returns an empty roster.
func (g *Gateway) Load(_ context.Context) ([]domain.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	people, err := codec.Decode(codec.FormatJSON, g.payload)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load", Driver: DriverName, Err: err}
	}
	return people, nil
}

// Exists reports whether Save has been called.
func (g *Gateway) Exists(context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.payload != nil, nil
}

// Saves returns how many snapshots have been written.
func (g *Gateway) Saves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}

// Close implements io.Closer.
func (g *Gateway) Close() error { return nil }
