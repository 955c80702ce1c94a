package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roster/pkg/domain"
)

// Operation names reported to metrics, traces, and audit entries.
const (
	OpAddPerson    = "add_person"
	OpDeletePerson = "delete_person"
	OpUpdatePerson = "update_person"
	OpCommitEdit   = "commit_edit"
)

// Service wires the record store to its derived views and the snapshot
// gateway, and exposes the commands the presentation layer issues.
//
// Subscribers run in this order on every change: statistics, filter,
// selection, persistence, then any presentation subscribers.
type Service struct {
	store     *RecordStore
	stats     *Aggregator
	filter    *FilterView
	selection *Selection
	persist   *persister
	gateway   domain.SnapshotGateway

	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
}

// Open builds a service over gateway and loads the existing snapshot. A
// corrupt snapshot is returned as an error wrapping domain.ErrCorruptSnapshot.
// When the gateway has never been written and a seed is configured, the seed
// is loaded and saved once.
func Open(ctx context.Context, gateway domain.SnapshotGateway, opts ...ServiceOption) (*Service, error) {
	if gateway == nil {
		return nil, errors.New("snapshot gateway is required")
	}
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bus := domain.NewBus()
	store := NewRecordStore(bus)
	svc := &Service{
		store:     store,
		stats:     NewAggregator(),
		filter:    NewFilterView(store),
		selection: NewSelection(store),
		persist:   newPersister(gateway),
		gateway:   gateway,
		clock:     o.clock,
		logger:    o.logger,
		metrics:   o.metrics,
		tracer:    o.tracer,
		audit:     o.audit,
	}
	bus.Subscribe(svc.stats)
	bus.Subscribe(svc.filter)
	bus.Subscribe(svc.selection)
	bus.Subscribe(svc.persist)
	for _, sub := range o.subscribers {
		bus.Subscribe(sub)
	}

	people, err := gateway.Load(ctx)
	if err != nil {
		return nil, asPersistenceError("load", gateway.Driver(), err)
	}
	seeded := false
	if len(people) == 0 && len(o.seed) > 0 {
		exists, err := gateway.Exists(ctx)
		if err != nil {
			return nil, asPersistenceError("load", gateway.Driver(), err)
		}
		if !exists {
			people = o.seed
			seeded = true
		}
	}
	if err := store.Load(ctx, people); err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if seeded {
		if err := gateway.Save(ctx, store.Snapshot()); err != nil {
			svc.logger.Warn("seed snapshot not written", "driver", gateway.Driver(), "error", err)
		}
	}
	svc.logger.Info("roster loaded", "driver", gateway.Driver(), "people", store.Len(), "seeded", seeded)
	return svc, nil
}

// Store returns the record store.
func (s *Service) Store() *RecordStore { return s.store }

// Gateway returns the snapshot gateway.
func (s *Service) Gateway() domain.SnapshotGateway { return s.gateway }

// Selection returns the edit workflow.
func (s *Service) Selection() *Selection { return s.selection }

// Filter returns the filter view.
func (s *Service) Filter() *FilterView { return s.filter }

// Subscribe registers a presentation subscriber after the built-in ones.
func (s *Service) Subscribe(sub domain.Subscriber) { s.store.Bus().Subscribe(sub) }

// People returns every record in store order.
func (s *Service) People() []*domain.Person { return s.store.People() }

// Statistics returns the current summary.
func (s *Service) Statistics() Statistics { return s.stats.Current() }

// SetQuery updates the filter query.
func (s *Service) SetQuery(q string) { s.filter.SetQuery(q) }

// Visible returns the people matching the current query.
func (s *Service) Visible() []*domain.Person { return s.filter.Visible() }

// CanAdd is the predicate paired with Add.
func (s *Service) CanAdd(name, ageText string) bool { return domain.CanSubmit(name, ageText) }

// CanUpdate is the predicate paired with Update.
func (s *Service) CanUpdate(p *domain.Person, name, ageText string) bool {
	return s.store.Contains(p) && domain.CanSubmit(name, ageText)
}

// CanDelete is the predicate paired with Delete.
func (s *Service) CanDelete(p *domain.Person) bool { return s.store.Contains(p) }

// Add appends a person. A persistence failure is returned as a
// *domain.PersistenceError while the person stays in memory.
func (s *Service) Add(ctx context.Context, name, ageText string) (*domain.Person, error) {
	var added *domain.Person
	err := s.run(ctx, OpAddPerson, domain.ActionCreate, func(ctx context.Context) (auditTarget, error) {
		var err error
		added, err = s.store.Add(ctx, name, ageText)
		return targetOf(s.store, added), err
	})
	return added, err
}

// Delete removes p unconditionally; confirmation belongs to the caller.
// Deleting a non-member returns domain.ErrNotFound and changes nothing.
func (s *Service) Delete(ctx context.Context, p *domain.Person) error {
	return s.run(ctx, OpDeletePerson, domain.ActionDelete, func(ctx context.Context) (auditTarget, error) {
		target := targetOf(s.store, p)
		return target, s.store.Delete(ctx, p)
	})
}

// Update edits p in place.
func (s *Service) Update(ctx context.Context, p *domain.Person, name, ageText string) error {
	return s.run(ctx, OpUpdatePerson, domain.ActionUpdate, func(ctx context.Context) (auditTarget, error) {
		err := s.store.Update(ctx, p, name, ageText)
		return targetOf(s.store, p), err
	})
}

// CommitEdit applies the selection's staging buffer.
func (s *Service) CommitEdit(ctx context.Context) error {
	return s.run(ctx, OpCommitEdit, domain.ActionUpdate, func(ctx context.Context) (auditTarget, error) {
		p := s.selection.Selected()
		err := s.selection.CommitUpdate(ctx)
		return targetOf(s.store, p), err
	})
}

type auditTarget struct {
	index  int
	person domain.Person
}

func targetOf(store *RecordStore, p *domain.Person) auditTarget {
	if p == nil {
		return auditTarget{index: -1}
	}
	return auditTarget{index: store.IndexOf(p), person: *p}
}

func (s *Service) run(ctx context.Context, op string, action domain.Action, fn func(context.Context) (auditTarget, error)) error {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	target, err := fn(ctx)
	duration := time.Since(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)

	entry := AuditEntry{
		ID:        uuid.NewString(),
		Operation: op,
		Action:    action,
		Index:     target.index,
		Person:    target.person,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
	s.logOutcome(op, target, err)
	return err
}

func (s *Service) logOutcome(op string, target auditTarget, err error) {
	args := []any{"operation", op, "index", target.index}
	switch {
	case err == nil:
		s.logger.Debug("roster changed", append(args, "people", s.store.Len())...)
	case domain.IsValidation(err):
		s.logger.Info("input rejected", append(args, "error", err)...)
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Debug("target not in roster", args...)
	case domain.IsPersistence(err):
		s.logger.Warn("snapshot write failed; in-memory roster kept", append(args, "error", err)...)
	default:
		s.logger.Error("roster operation failed", append(args, "error", err)...)
	}
}
