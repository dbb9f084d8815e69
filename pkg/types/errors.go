package types

import (
	"errors"
	"fmt"
)

// Field access errors. Every error returned by the access layer wraps one of
// these; none of them is transient.
var (
	ErrNullArgument         = errors.New("required argument is missing")
	ErrUnknownField         = errors.New("unknown field")
	ErrUnknownWritingSystem = errors.New("unknown writing system")
	ErrDuplicateAlternative = errors.New("two tags name the same writing system")
	ErrWrongObjectClass     = errors.New("object class does not own field")
	ErrInvalidListItem      = errors.New("item is not in the field's possibility list")
	ErrReadOnlyProject      = errors.New("project is open read-only")
	ErrCategoryMismatch     = errors.New("operation does not match field category")
)

// Schema and session errors.
var (
	ErrObjectNotFound   = errors.New("object not found")
	ErrNoWritingSystems = errors.New("writing system list is empty")
	ErrDuplicateField   = errors.New("duplicate field")
	ErrUnknownClass     = errors.New("unknown class")
	ErrUnknownList      = errors.New("unknown possibility list")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidPrecision = errors.New("invalid date precision")
	ErrInvalidProject   = errors.New("invalid project definition")
	ErrSessionDetached  = errors.New("session is detached")
	ErrAlreadyAttached  = errors.New("session is already attached")
)

// FieldError records a failed field operation and the field it targeted.
type FieldError struct {
	Op    string // Operation name, e.g. "write text".
	Field string // Qualified field name or numeric id.
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
