package board

import "strings"

// AddTask returns a board with t appended to the tasks and its id appended
// to the end of its column. The title must not be blank, the column must
// exist and the id must be new, checked in that order.
func (b Board) AddTask(t Task) (Board, error) {
	if strings.TrimSpace(t.Title) == "" {
		return b, invalid("title", "must not be empty")
	}
	ci := b.columnIndex(t.ColumnID)
	if ci < 0 {
		return b, invalid("columnId", "column %q does not exist", t.ColumnID)
	}
	if t.ID == "" {
		return b, invalid("id", "must not be empty")
	}
	if b.HasTask(t.ID) {
		return b, invalid("id", "duplicate task id %q", t.ID)
	}

	out := b.Clone()
	out.Tasks = append(out.Tasks, t)
	out.Columns[ci].TaskIDs = append(out.Columns[ci].TaskIDs, t.ID)
	return out, nil
}

// UpdateTask merges patch into the task with the given id and returns the
// new board together with the merged task. The id is immutable and the
// column may not change here; moves go through MoveTask so both sides of
// the task/column link are updated together.
func (b Board) UpdateTask(id string, patch TaskPatch) (Board, Task, error) {
	i := b.taskIndex(id)
	if i < 0 {
		return b, Task{}, taskNotFound(id)
	}

	t := b.Tasks[i]
	if patch.ColumnID != nil && *patch.ColumnID != t.ColumnID {
		return b, Task{}, invalid("columnId", "cannot change column of task %q through an update; move it instead", id)
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return b, Task{}, invalid("title", "must not be empty")
		}
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}

	out := b.Clone()
	out.Tasks[i] = t
	return out, t, nil
}

// DeleteTask removes the task and its id from its column. The second result
// is false, and the board is returned as is, when no such task exists.
func (b Board) DeleteTask(id string) (Board, bool) {
	i := b.taskIndex(id)
	if i < 0 {
		return b, false
	}
	owner := b.Tasks[i].ColumnID

	out := b.Clone()
	out.Tasks = append(out.Tasks[:i], out.Tasks[i+1:]...)
	if ci := out.columnIndex(owner); ci >= 0 {
		out.Columns[ci].TaskIDs = without(out.Columns[ci].TaskIDs, id)
	}
	return out, true
}

// MoveTask takes the task out of the source column and inserts it into the
// destination column at destinationIndex, clamped to [0, len] of the
// destination as it stands after the removal. When source and destination
// are the same column this is a reorder: moving the first of [1 2 3] to
// index 2 yields [2 3 1].
//
// The second result is the index the task was actually placed at.
func (b Board) MoveTask(taskID, sourceColumnID, destinationColumnID string, destinationIndex int) (Board, int, error) {
	ti := b.taskIndex(taskID)
	if ti < 0 {
		return b, 0, taskNotFound(taskID)
	}
	si := b.columnIndex(sourceColumnID)
	if si < 0 {
		return b, 0, columnNotFound(sourceColumnID)
	}
	di := b.columnIndex(destinationColumnID)
	if di < 0 {
		return b, 0, columnNotFound(destinationColumnID)
	}
	if owner := b.Tasks[ti].ColumnID; owner != sourceColumnID {
		return b, 0, invalid("sourceColumnId", "task %q is in column %q, not %q", taskID, owner, sourceColumnID)
	}
	pos := IndexOf(b.Columns[si].TaskIDs, taskID)
	if pos < 0 {
		return b, 0, invalid("sourceColumnId", "column %q does not list task %q", sourceColumnID, taskID)
	}

	out := b.Clone()
	src := out.Columns[si].TaskIDs
	out.Columns[si].TaskIDs = append(src[:pos], src[pos+1:]...)

	dst := out.Columns[di].TaskIDs
	idx := clamp(destinationIndex, 0, len(dst))
	out.Columns[di].TaskIDs = insertAt(dst, idx, taskID)
	out.Tasks[ti].ColumnID = destinationColumnID
	return out, idx, nil
}

// AddColumn appends c to the end of the column sequence. The column starts
// empty regardless of c.TaskIDs; a blank colour becomes DefaultColumnColor.
func (b Board) AddColumn(c Column) (Board, error) {
	if strings.TrimSpace(c.Title) == "" {
		return b, invalid("title", "must not be empty")
	}
	if c.ID == "" {
		return b, invalid("id", "must not be empty")
	}
	if b.HasColumn(c.ID) {
		return b, invalid("id", "duplicate column id %q", c.ID)
	}
	if c.Color == "" {
		c.Color = DefaultColumnColor
	}
	c.TaskIDs = []string{}

	out := b.Clone()
	out.Columns = append(out.Columns, c)
	return out, nil
}

// UpdateColumn overwrites the title and colour of a column. The task order
// is not patchable here.
func (b Board) UpdateColumn(id string, patch ColumnPatch) (Board, Column, error) {
	i := b.columnIndex(id)
	if i < 0 {
		return b, Column{}, columnNotFound(id)
	}

	out := b.Clone()
	c := &out.Columns[i]
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return b, Column{}, invalid("title", "must not be empty")
		}
		c.Title = *patch.Title
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	return out, c.clone(), nil
}

// DeleteColumn removes the column and every task that belongs to it. It
// returns the ids of the cascaded tasks. The third result is false, and the
// board is returned as is, when no such column exists.
func (b Board) DeleteColumn(id string) (Board, []string, bool) {
	i := b.columnIndex(id)
	if i < 0 {
		return b, nil, false
	}

	out := Board{
		Tasks:   make([]Task, 0, len(b.Tasks)),
		Columns: make([]Column, 0, len(b.Columns)-1),
	}
	removed := []string{}
	for _, t := range b.Tasks {
		if t.ColumnID == id {
			removed = append(removed, t.ID)
			continue
		}
		out.Tasks = append(out.Tasks, t)
	}
	for j, c := range b.Columns {
		if j != i {
			out.Columns = append(out.Columns, c.clone())
		}
	}
	return out, removed, true
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func insertAt(ids []string, idx int, id string) []string {
	ids = append(ids, "")
	copy(ids[idx+1:], ids[idx:])
	ids[idx] = id
	return ids
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
