// Package apperror defines the error taxonomy shared by the feature
// service: validation failures, lookup misses, authorization failures and
// storage faults. Controllers never build these; services return them and
// the server error handler translates them to HTTP statuses.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel classes, matched with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrAuthorization = errors.New("authorization failed")
	ErrStore         = errors.New("store failure")
)

// MissingRequiredFieldError reports a mandatory attribute that is still
// absent after defaulting.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrValidation
}

func MissingRequiredField(field string) error {
	return &MissingRequiredFieldError{Field: field}
}

// InvalidEnumValueError reports a value outside the configured enumeration
// for a taxonomy field.
type InvalidEnumValueError struct {
	Field string
	Value string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

func (e *InvalidEnumValueError) Is(target error) bool {
	return target == ErrValidation
}

func InvalidEnumValue(field, value string) error {
	return &InvalidEnumValueError{Field: field, Value: value}
}

// NotFoundError reports a lookup that matched nothing, for operations that
// require an existing record.
type NotFoundError struct {
	Criterion string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("feature not found: %s", e.Criterion)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(criterion string) error {
	return &NotFoundError{Criterion: criterion}
}

// StoreError wraps an underlying persistence failure unmodified.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func Store(err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Err: err}
}
