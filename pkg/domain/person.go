// Package domain defines the roster's value types, error taxonomy, and the
// synchronous change notification bus shared by the core and its adapters.
package domain

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Person is a single roster record. Identity is the pointer held by the
// record store; two people may share the same name and age.
type Person struct {
	Name string `json:"name" yaml:"name" validate:"notblank"`
	Age  int    `json:"age" yaml:"age" validate:"gt=0"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator with the roster's custom
// tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Validate reports whether p satisfies the record constraints. It covers data
// that did not pass through ParseInput, such as decoded snapshots.
func (p Person) Validate() error {
	err := Validator().Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Name":
			return &ValidationError{Field: FieldName, Value: p.Name, Err: ErrEmptyName}
		case "Age":
			return &ValidationError{Field: FieldAge, Value: strconv.Itoa(p.Age), Err: ErrAgeNotPositive}
		}
	}
	return err
}
