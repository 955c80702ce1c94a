package domain

// Action indicates the type of modification that raised a change event.
type Action string

// Change actions raised by the record store.
const (
	// ActionCreate indicates a person was appended.
	ActionCreate Action = "create"
	// ActionUpdate indicates a person was edited in place.
	ActionUpdate Action = "update"
	// ActionDelete indicates a person was removed.
	ActionDelete Action = "delete"
	// ActionReset indicates the whole collection was replaced by Load.
	ActionReset Action = "reset"
)

// Change describes one applied mutation. Person is the affected record
// (nil for ActionReset); Index is its position before a delete and after a
// create or update. Before holds the previous field values for updates.
type Change struct {
	Action Action
	Person *Person
	Index  int
	Before Person
}

// View is the read-only store surface handed to subscribers. Subscribers
// must not mutate the returned people.
type View interface {
	People() []*Person
	Len() int
}
