package domain

import "context"

// Subscriber observes store changes. OnChange runs after the mutation is
// applied and before the mutating call returns.
type Subscriber interface {
	Name() string
	OnChange(ctx context.Context, view View, change Change) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc struct {
	Label string
	Fn    func(ctx context.Context, view View, change Change) error
}

// Name implements Subscriber.
func (f SubscriberFunc) Name() string { return f.Label }

// OnChange implements Subscriber.
func (f SubscriberFunc) OnChange(ctx context.Context, view View, change Change) error {
	return f.Fn(ctx, view, change)
}

// Bus delivers change events to subscribers synchronously, in subscription
// order, on the caller's goroutine. It is not safe for concurrent use.
type Bus struct {
	subscribers []Subscriber
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe appends a subscriber.
func (b *Bus) Subscribe(sub Subscriber) {
	b.subscribers = append(b.subscribers, sub)
}

// Subscribers returns the registered subscriber names in delivery order.
func (b *Bus) Subscribers() []string {
	names := make([]string, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		names = append(names, sub.Name())
	}
	return names
}

// Notify delivers change to every subscriber. The first failure stops
// delivery and is returned wrapped in a SubscriberError.
func (b *Bus) Notify(ctx context.Context, view View, change Change) error {
	for _, sub := range b.subscribers {
		if err := sub.OnChange(ctx, view, change); err != nil {
			return &SubscriberError{Subscriber: sub.Name(), Err: err}
		}
	}
	return nil
}
