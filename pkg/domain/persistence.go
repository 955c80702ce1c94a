package domain

import "context"

// SnapshotGateway stores and retrieves the full roster as one snapshot.
// Implementations serialize access with an exclusive scope so a save never
// interleaves with a load.
type SnapshotGateway interface {
	// Save overwrites the snapshot with people.
	Save(ctx context.Context, people []Person) error
	// Load returns the stored people, or an empty slice when no snapshot
	// exists. Undecodable or invalid content yields an error wrapping
	// ErrCorruptSnapshot.
	Load(ctx context.Context) ([]Person, error)
	// Exists reports whether a snapshot has ever been written.
	Exists(ctx context.Context) (bool, error)
	// Driver names the backend, e.g. "file" or "sqlite".
	Driver() string
}
