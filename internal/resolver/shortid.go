package resolver

import (
	"fmt"
	"strings"

	"github.com/dyluth/kanban/pkg/board"
)

// MinShortIDLength is the minimum required length for task id prefixes.
const MinShortIDLength = 4

// ResolveTaskID resolves a task reference to a full task id.
//
// The reference is tried in order:
//  1. An exact task id
//  2. A prefix of at least MinShortIDLength characters matching one task
func ResolveTaskID(b board.Board, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("task id cannot be empty")
	}
	if b.HasTask(ref) {
		return ref, nil
	}

	if len(ref) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(ref))
	}

	var matches []string
	for _, t := range b.Tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	return pick("task", ref, matches)
}

// ResolveColumnID resolves a column reference to a column id. Columns are
// few and named by people, so it accepts an exact id, a case-insensitive
// title, or an unambiguous id prefix of any length.
func ResolveColumnID(b board.Board, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("column id cannot be empty")
	}
	if b.HasColumn(ref) {
		return ref, nil
	}

	var byTitle []string
	for _, c := range b.Columns {
		if strings.EqualFold(c.Title, ref) {
			byTitle = append(byTitle, c.ID)
		}
	}
	if len(byTitle) > 0 {
		return pick("column", ref, byTitle)
	}

	var matches []string
	for _, c := range b.Columns {
		if strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c.ID)
		}
	}
	return pick("column", ref, matches)
}

func pick(kind, ref string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, ShortID: ref}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Kind: kind, ShortID: ref, Matches: matches}
	}
}

// NotFoundError indicates nothing matched the reference.
type NotFoundError struct {
	Kind    string
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %ss found matching '%s'", e.Kind, e.ShortID)
}

// AmbiguousError indicates several ids matched the reference.
type AmbiguousError struct {
	Kind    string
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous %s reference '%s' matches %d %ss", e.Kind, e.ShortID, len(e.Matches), e.Kind)
}

// FormatAmbiguousError creates a user-friendly error message for ambiguous references.
// Lists all matching ids (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous %s reference '%s' matches %d %ss:\n", err.Kind, err.ShortID, len(err.Matches), err.Kind)

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}

	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += fmt.Sprintf("\nUse a longer prefix to uniquely identify the %s.", err.Kind)
	return msg
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
