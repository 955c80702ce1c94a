// Package snapshot selects and opens the persistence gateway the roster
// writes its snapshot through.
package snapshot

import (
	"context"
	"fmt"
	"io"

	blobmem "roster/internal/infra/blob/memory"
	"roster/internal/infra/blob/s3"
	blobgw "roster/internal/infra/snapshot/blob"
	"roster/internal/infra/snapshot/file"
	"roster/internal/infra/snapshot/memory"
	"roster/internal/infra/snapshot/postgres"
	"roster/internal/infra/snapshot/sqlite"
	"roster/pkg/domain"
)

// Driver identifies a concrete snapshot gateway.
type Driver string

const (
	DriverFile       Driver = "file"        // local JSON or YAML file (default)
	DriverMemory     Driver = "memory"      // process memory only
	DriverSQLite     Driver = "sqlite"      // embedded sqlite file
	DriverPostgres   Driver = "postgres"    // PostgreSQL server
	DriverS3         Driver = "s3"          // S3 / MinIO object
	DriverBlobMemory Driver = "blob-memory" // object in an in-process blob store
)

// Drivers lists every supported driver in documentation order.
var Drivers = []Driver{DriverFile, DriverMemory, DriverSQLite, DriverPostgres, DriverS3, DriverBlobMemory}

// Gateway is a snapshot gateway that may hold resources.
type Gateway interface {
	domain.SnapshotGateway
	io.Closer
}

// Options carries the settings every driver may need.
type Options struct {
	Driver      Driver
	Path        string
	SQLitePath  string
	PostgresDSN string
	S3          s3.Config
	Key         string
}

// Open builds the gateway named by opts.Driver, defaulting to the file driver.
func Open(ctx context.Context, opts Options) (Gateway, error) {
	switch opts.Driver {
	case DriverFile, "":
		return file.New(opts.Path), nil
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		store, err := sqlite.NewStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverPostgres:
		store, err := postgres.NewStore(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverS3:
		store, err := s3.New(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		return blobgw.New(store, opts.Key), nil
	case DriverBlobMemory:
		return blobgw.New(blobmem.New(), opts.Key), nil
	default:
		return nil, fmt.Errorf("unknown snapshot driver %s", opts.Driver)
	}
}

