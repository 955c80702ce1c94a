package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"roster/internal/blob/core"
	"roster/internal/infra/blob/memory"
	"roster/internal/infra/blob/s3"
	"roster/pkg/domain"
)

var sample = []domain.Person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 25}}

func TestGatewayRoundTripAcrossStores(t *testing.T) {
	stores := map[string]core.Store{
		"memory": memory.New(),
		"s3":     s3.NewMockForTests(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g := New(store, "")
			if g.Key() != DefaultKey || g.Driver() != "blob:"+name {
				t.Fatalf("unexpected gateway: %s %s", g.Key(), g.Driver())
			}
			if ok, err := g.Exists(ctx); err != nil || ok {
				t.Fatalf("expected no object, got %v %v", ok, err)
			}
			if got, err := g.Load(ctx); err != nil || len(got) != 0 {
				t.Fatalf("expected empty load, got %+v %v", got, err)
			}
			if err := g.Save(ctx, sample[:1]); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := g.Save(ctx, sample); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := g.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !reflect.DeepEqual(got, sample) {
				t.Fatalf("got %+v want %+v", got, sample)
			}
			if ok, _ := g.Exists(ctx); !ok {
				t.Fatalf("expected object after save")
			}
		})
	}
}

func TestGatewayYAMLKey(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	g := New(store, "rosters/people.yaml")
	if err := g.Save(ctx, sample); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, rc, err := store.Get(ctx, "rosters/people.yaml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if info.ContentType != "application/yaml" || info.Metadata["records"] != "2" || !bytes.Contains(body, []byte("name: Alice")) {
		t.Fatalf("unexpected object: %+v\n%s", info, body)
	}
}

func TestGatewayCorruptObject(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if _, err := store.Put(ctx, DefaultKey, bytes.NewReader([]byte("not json")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := New(store, "").Load(ctx); !errors.Is(err, domain.ErrCorruptSnapshot) {
		t.Fatalf("expected corrupt snapshot, got %v", err)
	}
}

type brokenStore struct{ core.Store }

func (brokenStore) Put(context.Context, string, io.Reader, core.PutOptions) (core.Info, error) {
	return core.Info{}, errors.New("put down")
}

func (brokenStore) Get(context.Context, string) (core.Info, io.ReadCloser, error) {
	return core.Info{}, nil, errors.New("get down")
}

func (brokenStore) Head(context.Context, string) (core.Info, error) {
	return core.Info{}, errors.New("head down")
}

func (brokenStore) Driver() core.Driver { return "broken" }

func TestGatewayStoreFailures(t *testing.T) {
	ctx := context.Background()
	g := New(brokenStore{}, "")
	var perr *domain.PersistenceError
	if err := g.Save(ctx, sample); !errors.As(err, &perr) || perr.Op != "save" || perr.Driver != "blob:broken" {
		t.Fatalf("expected save PersistenceError, got %v", err)
	}
	if _, err := g.Load(ctx); !errors.As(err, &perr) || perr.Op != "load" {
		t.Fatalf("expected load PersistenceError, got %v", err)
	}
	if _, err := g.Exists(ctx); !errors.As(err, &perr) || perr.Op != "exists" {
		t.Fatalf("expected exists PersistenceError, got %v", err)
	}
	if g.Close() != nil {
		t.Fatalf("close must be a no-op")
	}
}
