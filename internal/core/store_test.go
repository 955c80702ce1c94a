package core

import (
	"context"
	"errors"
	"testing"

	"roster/pkg/domain"
)

func TestAddAppendsLastAndRaisesOneEvent(t *testing.T) {
	store, log := newStoreWithLog()
	mustAdd(store, "Alice", "30")

	p, err := store.Add(context.Background(), " Bob ", "25")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 people, got %d", store.Len())
	}
	last, _ := store.At(1)
	if last != p || p.Name != "Bob" || p.Age != 25 {
		t.Fatalf("expected Bob last, got %+v", last)
	}
	if len(log.changes) != 2 {
		t.Fatalf("expected one event per add, got %d", len(log.changes))
	}
	if c := log.changes[1]; c.Action != domain.ActionCreate || c.Person != p || c.Index != 1 {
		t.Fatalf("unexpected change: %+v", c)
	}
}

func TestInvalidInputLeavesStoreUnchanged(t *testing.T) {
	cases := []struct {
		name, age string
		want      error
	}{
		{"", "30", domain.ErrEmptyName},
		{"   ", "30", domain.ErrEmptyName},
		{"Carol", "abc", domain.ErrAgeNotNumeric},
		{"Carol", "0", domain.ErrAgeNotPositive},
		{"Carol", "-1", domain.ErrAgeNotPositive},
	}
	for _, tc := range cases {
		t.Run(tc.name+"/"+tc.age, func(t *testing.T) {
			store, log := newStoreWithLog()
			alice := mustAdd(store, "Alice", "30")
			events := len(log.changes)

			if p, err := store.Add(context.Background(), tc.name, tc.age); !errors.Is(err, tc.want) || p != nil {
				t.Fatalf("add: expected %v and nil person, got %v %v", tc.want, p, err)
			}
			if err := store.Update(context.Background(), alice, tc.name, tc.age); !errors.Is(err, tc.want) {
				t.Fatalf("update: expected %v, got %v", tc.want, err)
			}
			if store.Len() != 1 || alice.Name != "Alice" || alice.Age != 30 {
				t.Fatalf("store mutated: %+v", store.Snapshot())
			}
			if len(log.changes) != events {
				t.Fatalf("rejected input raised events")
			}
		})
	}
}

func TestDeleteMemberAndNonMember(t *testing.T) {
	store, log := newStoreWithLog()
	alice := mustAdd(store, "Alice", "30")
	twin := mustAdd(store, "Alice", "30")
	bob := mustAdd(store, "Bob", "25")

	if err := store.Delete(context.Background(), alice); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 2 || store.Contains(alice) || !store.Contains(twin) || !store.Contains(bob) {
		t.Fatalf("expected only the first Alice removed, got %+v", store.Snapshot())
	}
	if first, _ := store.At(0); first != twin {
		t.Fatalf("expected order preserved")
	}
	last := log.changes[len(log.changes)-1]
	if last.Action != domain.ActionDelete || last.Person != alice || last.Index != 0 {
		t.Fatalf("unexpected delete change: %+v", last)
	}

	events := len(log.changes)
	stranger := &domain.Person{Name: "Alice", Age: 30}
	if err := store.Delete(context.Background(), stranger); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(context.Background(), alice); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}
	if store.Len() != 2 || len(log.changes) != events {
		t.Fatalf("non-member delete must be a no-op")
	}
}

func TestUpdateMutatesInPlace(t *testing.T) {
	store, log := newStoreWithLog()
	alice := mustAdd(store, "Alice", "30")
	mustAdd(store, "Bob", "25")

	if err := store.Update(context.Background(), alice, "Alicia", "31"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if first, _ := store.At(0); first != alice || alice.Name != "Alicia" || alice.Age != 31 {
		t.Fatalf("expected identity preserved and fields changed, got %+v", first)
	}
	last := log.changes[len(log.changes)-1]
	if last.Action != domain.ActionUpdate || last.Before != (domain.Person{Name: "Alice", Age: 30}) {
		t.Fatalf("unexpected update change: %+v", last)
	}
	if err := store.Update(context.Background(), &domain.Person{Name: "x", Age: 1}, "y", "2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadReplacesCollection(t *testing.T) {
	store, log := newStoreWithLog()
	mustAdd(store, "Old", "99")

	err := store.Load(context.Background(), []domain.Person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 25}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := store.Snapshot()
	if len(got) != 2 || got[0].Name != "Alice" || got[1].Name != "Bob" {
		t.Fatalf("unexpected contents: %+v", got)
	}
	if last := log.changes[len(log.changes)-1]; last.Action != domain.ActionReset || last.Person != nil {
		t.Fatalf("expected reset change, got %+v", last)
	}

	events := len(log.changes)
	if err := store.Load(context.Background(), []domain.Person{{Name: "", Age: 3}}); !errors.Is(err, domain.ErrEmptyName) {
		t.Fatalf("expected invalid load rejected, got %v", err)
	}
	if store.Len() != 2 || len(log.changes) != events {
		t.Fatalf("rejected load must not mutate")
	}
}

func TestSubscriberFailureKeepsMutation(t *testing.T) {
	store, log := newStoreWithLog()
	log.err = errBoom

	p, err := store.Add(context.Background(), "Alice", "30")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected subscriber error, got %v", err)
	}
	if p == nil || store.Len() != 1 {
		t.Fatalf("mutation must stay applied")
	}
}

func TestPeopleReturnsCopy(t *testing.T) {
	store, _ := newStoreWithLog()
	mustAdd(store, "Alice", "30")
	people := store.People()
	people[0] = nil
	if first, ok := store.At(0); !ok || first == nil {
		t.Fatalf("caller must not be able to replace store slots")
	}
	if _, ok := store.At(5); ok {
		t.Fatalf("expected out of range")
	}
	if store.IndexOf(nil) != -1 {
		t.Fatalf("nil is never a member")
	}
}
