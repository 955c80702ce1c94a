package domain

import (
	"strconv"
	"strings"
)

// ParseInput validates raw form input and returns the Person it describes.
// The name is trimmed; the age text must be a base-10 integer greater than
// zero once surrounding whitespace is removed.
func ParseInput(name, ageText string) (Person, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Person{}, &ValidationError{Field: FieldName, Value: name, Err: ErrEmptyName}
	}
	rawAge := strings.TrimSpace(ageText)
	age, err := strconv.Atoi(rawAge)
	if err != nil {
		return Person{}, &ValidationError{Field: FieldAge, Value: ageText, Err: ErrAgeNotNumeric}
	}
	if age <= 0 {
		return Person{}, &ValidationError{Field: FieldAge, Value: ageText, Err: ErrAgeNotPositive}
	}
	return Person{Name: trimmed, Age: age}, nil
}

// CanSubmit is the "can execute" predicate paired with the add and update
// commands.
func CanSubmit(name, ageText string) bool {
	_, err := ParseInput(name, ageText)
	return err == nil
}
