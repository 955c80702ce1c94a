package core

import (
	"context"
	"errors"
	"sync"

	"roster/pkg/domain"
)

// fakeGateway is an in-package SnapshotGateway double counting calls.
type fakeGateway struct {
	mu       sync.Mutex
	stored   []domain.Person
	written  bool
	saves    int
	loads    int
	saveErr  error
	loadErr  error
	existErr error
}

func newFakeGateway(initial ...domain.Person) *fakeGateway {
	g := &fakeGateway{}
	if len(initial) > 0 {
		g.stored = append([]domain.Person(nil), initial...)
		g.written = true
	}
	return g
}

func (g *fakeGateway) Save(_ context.Context, people []domain.Person) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saves++
	if g.saveErr != nil {
		return g.saveErr
	}
	g.stored = append([]domain.Person(nil), people...)
	g.written = true
	return nil
}

func (g *fakeGateway) Load(context.Context) ([]domain.Person, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads++
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	return append([]domain.Person{}, g.stored...), nil
}

func (g *fakeGateway) Exists(context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.written, g.existErr
}

func (g *fakeGateway) Driver() string { return "fake" }

func (g *fakeGateway) snapshot() []domain.Person {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Person(nil), g.stored...)
}

func (g *fakeGateway) saveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}

// eventLog records every change delivered on a bus.
type eventLog struct {
	changes []domain.Change
	err     error
}

func (l *eventLog) Name() string { return "event-log" }

func (l *eventLog) OnChange(_ context.Context, _ domain.View, change domain.Change) error {
	l.changes = append(l.changes, change)
	return l.err
}

func newStoreWithLog() (*RecordStore, *eventLog) {
	bus := domain.NewBus()
	log := &eventLog{}
	bus.Subscribe(log)
	return NewRecordStore(bus), log
}

func mustAdd(s *RecordStore, name, age string) *domain.Person {
	p, err := s.Add(context.Background(), name, age)
	if err != nil {
		panic(err)
	}
	return p
}

var errBoom = errors.New("boom")

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}
