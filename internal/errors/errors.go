// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDataNotFound    = errors.New("data not found")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrInvalidInterval = errors.New("invalid time interval")
)

// RecordError represents a record that failed numeric or date coercion.
// Malformed records are dropped and never raised to the caller; this type
// exists for logging at the import boundary.
type RecordError struct {
	RecordID string
	Field    string
	Value    interface{}
	Err      error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record [%s] field %s (%v): %v", e.RecordID, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed record [%s] field %s (%v)", e.RecordID, e.Field, e.Value)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError creates a new RecordError.
func NewRecordError(recordID, field string, value interface{}, err error) *RecordError {
	return &RecordError{
		RecordID: recordID,
		Field:    field,
		Value:    value,
		Err:      err,
	}
}

// StoreError represents an error from the persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers only import this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
