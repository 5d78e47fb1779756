package board

import "strings"

// IsValidTask reports whether t is structurally well formed: non-nil, with
// an id, a title that is not blank, and an owning column id.
func IsValidTask(t *Task) bool {
	if t == nil {
		return false
	}
	return t.ID != "" && strings.TrimSpace(t.Title) != "" && t.ColumnID != ""
}

// IsValidColumn reports whether c is non-nil with an id and a title that is
// not blank.
func IsValidColumn(c *Column) bool {
	if c == nil {
		return false
	}
	return c.ID != "" && strings.TrimSpace(c.Title) != ""
}

// Validate checks every record and the task/column consistency rules.
// It returns the first violation found as a *ValidationError.
//
// Rules:
//   - every task and column passes IsValidTask / IsValidColumn
//   - task ids and column ids are unique
//   - a column lists each task id at most once
//   - every listed id names a task that points back at that column
//   - every task is listed by the column it names
func (b Board) Validate() error {
	columns := make(map[string]*Column, len(b.Columns))
	for i := range b.Columns {
		c := &b.Columns[i]
		if !IsValidColumn(c) {
			return invalid("column", "column at index %d is malformed", i)
		}
		if _, dup := columns[c.ID]; dup {
			return invalid("column", "duplicate column id %q", c.ID)
		}
		columns[c.ID] = c
	}

	tasks := make(map[string]*Task, len(b.Tasks))
	for i := range b.Tasks {
		t := &b.Tasks[i]
		if !IsValidTask(t) {
			return invalid("task", "task at index %d is malformed", i)
		}
		if _, dup := tasks[t.ID]; dup {
			return invalid("task", "duplicate task id %q", t.ID)
		}
		tasks[t.ID] = t
	}

	listedBy := make(map[string]string, len(b.Tasks))
	for _, c := range b.Columns {
		for _, id := range c.TaskIDs {
			if owner, seen := listedBy[id]; seen {
				if owner == c.ID {
					return invalid("taskIds", "column %q lists task %q more than once", c.ID, id)
				}
				return invalid("taskIds", "task %q listed by both %q and %q", id, owner, c.ID)
			}
			listedBy[id] = c.ID
			t, ok := tasks[id]
			if !ok {
				return invalid("taskIds", "column %q lists unknown task %q", c.ID, id)
			}
			if t.ColumnID != c.ID {
				return invalid("taskIds", "column %q lists task %q owned by %q", c.ID, id, t.ColumnID)
			}
		}
	}

	for _, t := range b.Tasks {
		if _, ok := columns[t.ColumnID]; !ok {
			return invalid("columnId", "task %q references unknown column %q", t.ID, t.ColumnID)
		}
		if listedBy[t.ID] != t.ColumnID {
			return invalid("columnId", "task %q is not listed by its column %q", t.ID, t.ColumnID)
		}
	}

	return nil
}
