package domain

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError.
const (
	FieldName = "name"
	FieldAge  = "age"
)

var (
	// ErrEmptyName is wrapped by ValidationError when the name is blank.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrAgeNotNumeric is wrapped by ValidationError when the age text is not an integer.
	ErrAgeNotNumeric = errors.New("age must be a whole number")
	// ErrAgeNotPositive is wrapped by ValidationError when the age is zero or negative.
	ErrAgeNotPositive = errors.New("age must be greater than zero")

	// ErrNotFound is returned when a delete or update target is not in the store.
	ErrNotFound = errors.New("person not found")

	// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded
	// or contains records that violate the Person constraints.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// ValidationError reports rejected input at the mutation boundary. No
// mutation is performed when it is returned.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError wraps snapshot I/O failures. After startup these are
// reported but never roll back the in-memory state.
type PersistenceError struct {
	Op     string // "save" or "load"
	Driver string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s (%s): %v", e.Op, e.Driver, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SubscriberError identifies the subscriber that aborted a notification.
type SubscriberError struct {
	Subscriber string
	Err        error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %s: %v", e.Subscriber, e.Err)
}

func (e *SubscriberError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
