package core

import (
	"context"
	"fmt"

	"roster/pkg/domain"
)

// RecordStore is the authoritative ordered collection of people. It is the
// only component that mutates records, and every successful mutation raises
// exactly one change event on its bus before returning.
//
// RecordStore is single-threaded: callers serialize access the way a UI
// event loop does.
type RecordStore struct {
	people []*domain.Person
	bus    *domain.Bus
}

var _ domain.View = (*RecordStore)(nil)

// NewRecordStore constructs an empty store publishing to bus.
func NewRecordStore(bus *domain.Bus) *RecordStore {
	if bus == nil {
		bus = domain.NewBus()
	}
	return &RecordStore{bus: bus}
}

// Bus returns the notification bus the store publishes to.
func (s *RecordStore) Bus() *domain.Bus { return s.bus }

// People returns the records in insertion order. The slice is a copy; the
// pointers are the live records.
func (s *RecordStore) People() []*domain.Person {
	out := make([]*domain.Person, len(s.people))
	copy(out, s.people)
	return out
}

// Len returns the number of records.
func (s *RecordStore) Len() int { return len(s.people) }

// At returns the record at position i.
func (s *RecordStore) At(i int) (*domain.Person, bool) {
	if i < 0 || i >= len(s.people) {
		return nil, false
	}
	return s.people[i], true
}

// IndexOf returns the position of p by identity, or -1.
func (s *RecordStore) IndexOf(p *domain.Person) int {
	if p == nil {
		return -1
	}
	for i, candidate := range s.people {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Contains reports whether p is a member of the store.
func (s *RecordStore) Contains(p *domain.Person) bool { return s.IndexOf(p) >= 0 }

// Snapshot returns detached value copies of every record.
func (s *RecordStore) Snapshot() []domain.Person {
	return snapshotOf(s.people)
}

func snapshotOf(people []*domain.Person) []domain.Person {
	out := make([]domain.Person, len(people))
	for i, p := range people {
		out[i] = *p
	}
	return out
}

// Add validates the input and appends a new person. The returned person is
// non-nil whenever the mutation was applied, even if a subscriber failed.
func (s *RecordStore) Add(ctx context.Context, name, ageText string) (*domain.Person, error) {
	parsed, err := domain.ParseInput(name, ageText)
	if err != nil {
		return nil, err
	}
	p := &parsed
	s.people = append(s.people, p)
	if err := s.notify(ctx, domain.Change{Action: domain.ActionCreate, Person: p, Index: len(s.people) - 1}); err != nil {
		return p, err
	}
	return p, nil
}

// Delete removes p. A person that is not in the store yields ErrNotFound and
// raises no event.
func (s *RecordStore) Delete(ctx context.Context, p *domain.Person) error {
	idx := s.IndexOf(p)
	if idx < 0 {
		return domain.ErrNotFound
	}
	copy(s.people[idx:], s.people[idx+1:])
	s.people[len(s.people)-1] = nil
	s.people = s.people[:len(s.people)-1]
	return s.notify(ctx, domain.Change{Action: domain.ActionDelete, Person: p, Index: idx})
}

// Update validates the input and edits p in place, preserving its identity.
func (s *RecordStore) Update(ctx context.Context, p *domain.Person, name, ageText string) error {
	parsed, err := domain.ParseInput(name, ageText)
	if err != nil {
		return err
	}
	idx := s.IndexOf(p)
	if idx < 0 {
		return domain.ErrNotFound
	}
	before := *p
	p.Name = parsed.Name
	p.Age = parsed.Age
	return s.notify(ctx, domain.Change{Action: domain.ActionUpdate, Person: p, Index: idx, Before: before})
}

// Load replaces the whole collection. Every record must satisfy the Person
// constraints; otherwise nothing is replaced.
func (s *RecordStore) Load(ctx context.Context, people []domain.Person) error {
	next := make([]*domain.Person, 0, len(people))
	for i := range people {
		if err := people[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		p := people[i]
		next = append(next, &p)
	}
	s.people = next
	return s.notify(ctx, domain.Change{Action: domain.ActionReset, Index: -1})
}

func (s *RecordStore) notify(ctx context.Context, change domain.Change) error {
	if err := s.bus.Notify(ctx, s, change); err != nil {
		return fmt.Errorf("notify %s: %w", change.Action, err)
	}
	return nil
}
