package board

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input: an empty required field or a
// reference that cannot be honoured. The board is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation that targets a missing task or column.
type NotFoundError struct {
	Kind string // "task" or "column"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func invalid(field, format string, a ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

func taskNotFound(id string) error   { return &NotFoundError{Kind: "task", ID: id} }
func columnNotFound(id string) error { return &NotFoundError{Kind: "column", ID: id} }
