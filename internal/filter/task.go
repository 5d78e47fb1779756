package filter

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dyluth/kanban/pkg/board"
)

// Criteria defines filtering criteria for tasks.
// All filters are ANDed together - a task must match ALL criteria to pass.
type Criteria struct {
	Since     time.Time // Created at or after, zero = no filter
	Until     time.Time // Created at or before, zero = no filter
	TitleGlob string    // Glob pattern for the title, empty = no filter
	ColumnID  string    // Exact column, empty = no filter
	Text      string    // Case-insensitive substring of title or description, empty = no filter
}

// Matches returns true if the task matches all filter criteria.
// Empty/zero criteria values are treated as "match all" for that criterion.
func (c *Criteria) Matches(t *board.Task) bool {
	if !c.Since.IsZero() && t.CreatedAt.Before(c.Since) {
		return false
	}
	if !c.Until.IsZero() && t.CreatedAt.After(c.Until) {
		return false
	}

	if c.TitleGlob != "" {
		matched, err := filepath.Match(c.TitleGlob, t.Title)
		if err != nil || !matched {
			return false
		}
	}

	if c.ColumnID != "" && t.ColumnID != c.ColumnID {
		return false
	}

	if c.Text != "" {
		needle := strings.ToLower(c.Text)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}

	return true
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return !c.Since.IsZero() ||
		!c.Until.IsZero() ||
		c.TitleGlob != "" ||
		c.ColumnID != "" ||
		c.Text != ""
}

// Tasks returns the tasks of b that match, in board order: columns left to
// right, each column top to bottom.
func (c *Criteria) Tasks(b board.Board) []board.Task {
	var out []board.Task
	for _, col := range b.Columns {
		for _, t := range b.TasksByColumn(col.ID) {
			if c.Matches(&t) {
				out = append(out, t)
			}
		}
	}
	return out
}
