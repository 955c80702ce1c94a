package core

import (
	"context"
	"errors"

	"roster/pkg/domain"
)

// persister writes a fresh snapshot after every create, update, or delete.
// Reset events are skipped: the collection they install came from the
// gateway in the first place.
type persister struct {
	gateway domain.SnapshotGateway
}

func newPersister(gateway domain.SnapshotGateway) *persister {
	return &persister{gateway: gateway}
}

func (p *persister) Name() string { return "persistence" }

func (p *persister) OnChange(ctx context.Context, view domain.View, change domain.Change) error {
	if change.Action == domain.ActionReset {
		return nil
	}
	return p.save(ctx, snapshotOf(view.People()))
}

func (p *persister) save(ctx context.Context, people []domain.Person) error {
	if err := p.gateway.Save(ctx, people); err != nil {
		return asPersistenceError("save", p.gateway.Driver(), err)
	}
	return nil
}

func asPersistenceError(op, driver string, err error) error {
	var perr *domain.PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return &domain.PersistenceError{Op: op, Driver: driver, Err: err}
}
