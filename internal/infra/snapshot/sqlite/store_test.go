package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"roster/pkg/domain"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), path)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "roster.db")
	store := openStore(t, path)

	if ok, err := store.Exists(ctx); err != nil || ok {
		t.Fatalf("expected empty database, got %v %v", ok, err)
	}
	if people, err := store.Load(ctx); err != nil || len(people) != 0 {
		t.Fatalf("expected empty load, got %+v %v", people, err)
	}

	want := []domain.Person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 25}}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, want[1:]); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file missing: %v", err)
	}

	reloaded := openStore(t, path)
	got, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want[1:]) {
		t.Fatalf("got %+v want %+v", got, want[1:])
	}
	if ok, _ := reloaded.Exists(ctx); !ok {
		t.Fatalf("expected snapshot row")
	}
	if reloaded.Path() != path || reloaded.DB() == nil || reloaded.Driver() != DriverName {
		t.Fatalf("unexpected accessors")
	}
}

func TestSQLiteStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "roster.db"))
	if _, err := store.DB().ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?)`, bucket, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := store.Load(ctx)
	if !errors.Is(err, domain.ErrCorruptSnapshot) || !domain.IsPersistence(err) {
		t.Fatalf("expected corrupt snapshot wrapped in PersistenceError, got %v", err)
	}
}

func TestSQLiteStoreClosedDB(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_ = store.Close()
	var perr *domain.PersistenceError
	if err := store.Save(ctx, nil); !errors.As(err, &perr) || perr.Op != "save" {
		t.Fatalf("expected save PersistenceError, got %v", err)
	}
	if _, err := store.Load(ctx); !errors.As(err, &perr) || perr.Op != "load" {
		t.Fatalf("expected load PersistenceError, got %v", err)
	}
	if _, err := store.Exists(ctx); !errors.As(err, &perr) || perr.Op != "exists" {
		t.Fatalf("expected exists PersistenceError, got %v", err)
	}
}
