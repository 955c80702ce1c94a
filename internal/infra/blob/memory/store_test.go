package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"roster/internal/blob/core"
)

func TestStoreMissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from head, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found from get, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false, got %v %v", ok, err)
	}
}

func TestStorePutOverwrites(t *testing.T) {
	store := New()
	ctx := context.Background()
	meta := map[string]string{"a": "1"}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v1")), core.PutOptions{ContentType: "text/plain", Metadata: meta}); err != nil {
		t.Fatalf("put: %v", err)
	}
	meta["a"] = "mutated"
	info, err := store.Put(ctx, "k", bytes.NewReader([]byte("v22")), core.PutOptions{ContentType: "text/plain", Metadata: map[string]string{"a": "2"}})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if info.Size != 3 {
		t.Fatalf("expected size 3, got %d", info.Size)
	}
	got, rc, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, _ := io.ReadAll(rc)
	if string(body) != "v22" || got.Metadata["a"] != "2" || got.ContentType != "text/plain" {
		t.Fatalf("unexpected blob: %q %+v", body, got)
	}
	head, err := store.Head(ctx, "k")
	if err != nil || head.Size != 3 {
		t.Fatalf("head: %+v %v", head, err)
	}
	if ok, err := store.Delete(ctx, "k"); err != nil || !ok {
		t.Fatalf("expected delete true, got %v %v", ok, err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStorePutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := store.Head(context.Background(), "bad"); err == nil {
		t.Fatalf("failed put must not store anything")
	}
}
