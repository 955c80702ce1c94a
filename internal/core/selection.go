package core

import (
	"context"
	"errors"
	"strconv"

	"roster/pkg/domain"
)

// SelectionState is the edit workflow state.
type SelectionState int

const (
	// SelectionIdle means nothing is selected and the staging buffer is empty.
	SelectionIdle SelectionState = iota
	// SelectionEditing means a person is selected and staged for edit.
	SelectionEditing
)

func (s SelectionState) String() string {
	switch s {
	case SelectionIdle:
		return "idle"
	case SelectionEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// ErrNoSelection is returned by CommitUpdate when nothing is selected.
var ErrNoSelection = errors.New("no person selected")

// Selection tracks the person being edited and the staging buffer holding
// the pending name and age text.
type Selection struct {
	store    *RecordStore
	state    SelectionState
	selected *domain.Person
	name     string
	ageText  string
}

var _ domain.Subscriber = (*Selection)(nil)

// NewSelection returns an idle selection bound to store.
func NewSelection(store *RecordStore) *Selection {
	return &Selection{store: store}
}

// Name implements domain.Subscriber.
func (s *Selection) Name() string { return "selection" }

// State returns the workflow state.
func (s *Selection) State() SelectionState { return s.state }

// Selected returns the person being edited, or nil.
func (s *Selection) Selected() *domain.Person { return s.selected }

// Staged returns the staging buffer.
func (s *Selection) Staged() (name, ageText string) { return s.name, s.ageText }

// Select moves to Editing and overwrites the staging buffer with p's current
// values.
func (s *Selection) Select(p *domain.Person) error {
	if !s.store.Contains(p) {
		return domain.ErrNotFound
	}
	s.state = SelectionEditing
	s.selected = p
	s.name = p.Name
	s.ageText = strconv.Itoa(p.Age)
	return nil
}

// Stage replaces the staging buffer contents.
func (s *Selection) Stage(name, ageText string) {
	s.name = name
	s.ageText = ageText
}

// Clear returns to Idle and empties the staging buffer.
func (s *Selection) Clear() {
	s.state = SelectionIdle
	s.selected = nil
	s.name = ""
	s.ageText = ""
}

// CanCommit mirrors the update command's validation.
func (s *Selection) CanCommit() bool {
	return s.state == SelectionEditing && domain.CanSubmit(s.name, s.ageText)
}

// CommitUpdate applies the staging buffer to the selected person. Validation
// failures keep the selection in Editing; any other outcome returns to Idle.
func (s *Selection) CommitUpdate(ctx context.Context) error {
	if s.state != SelectionEditing {
		return ErrNoSelection
	}
	err := s.store.Update(ctx, s.selected, s.name, s.ageText)
	if err != nil && domain.IsValidation(err) {
		return err
	}
	s.Clear()
	return err
}

// OnChange implements domain.Subscriber. Removing the selected person,
// directly or by replacing the collection, clears the selection.
func (s *Selection) OnChange(_ context.Context, view domain.View, change domain.Change) error {
	if s.state != SelectionEditing {
		return nil
	}
	switch change.Action {
	case domain.ActionDelete:
		if change.Person == s.selected {
			s.Clear()
		}
	case domain.ActionReset:
		if !containsPerson(view, s.selected) {
			s.Clear()
		}
	}
	return nil
}

func containsPerson(view domain.View, p *domain.Person) bool {
	for _, candidate := range view.People() {
		if candidate == p {
			return true
		}
	}
	return false
}
