package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a resource that does not exist and one that
	// exists outside the caller's tenant/branch scope; the two are
	// indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	ErrInvalidID = errors.New("invalid identifier format")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

// DuplicateError reports a unique-key collision, keyed by the field that
// collided. ID generation collisions surface here too instead of
// overwriting the existing document.
type DuplicateError struct {
	Field string
	Value string
}

func (err *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q is already in use", err.Field, err.Value)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	var sd *shutdown
	return errors.As(err, &sd)
}
