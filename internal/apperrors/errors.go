package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError reports malformed template metadata. Path points at the
// offending section/column (e.g. "sections[1].columns[0].options").
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "invalid schema: " + e.Reason
	}
	return fmt.Sprintf("invalid schema at %s: %s", e.Path, e.Reason)
}

func NewSchemaError(path, reason string) *SchemaError {
	return &SchemaError{Path: path, Reason: reason}
}

// FieldError is one failed check for one flattened field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every field failure for a submitted row.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// InvalidTransitionError names the current and the attempted workflow state,
// or the role that was not allowed to make the move.
type InvalidTransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot move submission from %q to %q: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot move submission from %q to %q", e.From, e.To)
}

// ConflictError blocks a structural change (template edit/delete, re-import)
// because submissions already reference the target.
type ConflictError struct {
	Resource string
	Blocking int64
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.Blocking > 0 {
		return fmt.Sprintf("%s: %s (%d blocking submissions)", e.Resource, e.Reason, e.Blocking)
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

// ForbiddenError is a role or ownership denial, distinct from bad input.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return "forbidden: " + e.Reason
}

// NotFoundError is a 404-equivalent for a missing record.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// TransitionFailure wraps whatever broke a year-end transition run. The
// original error stays reachable through Unwrap for the task wrapper.
type TransitionFailure struct {
	TransitionID uint
	Err          error
}

func (e *TransitionFailure) Error() string {
	return fmt.Sprintf("academic year transition %d failed: %v", e.TransitionID, e.Err)
}

func (e *TransitionFailure) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	var se *SchemaError
	return errors.As(err, &ve) || errors.As(err, &se)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
