package services

import (
	"errors"
	"fmt"
)

var (
	ErrTableNotFound = errors.New("estimate table not found")
	ErrRowNotFound   = errors.New("row not found")
	ErrNotEditable   = errors.New("cell is not editable")
	ErrInvalidOrder  = errors.New("new order must contain every row exactly once")
)

// ValidationError is a rejected user input. The requested change was not
// applied.
type ValidationError struct {
	Field string
	Err   error
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistError reports that a change was applied in memory but could not be
// written to the table store.
type PersistError struct {
	TableID string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save estimate table %s: %v", e.TableID, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
