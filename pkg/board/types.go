package board

import "time"

// Task is a single card on the board.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ColumnID    string    `json:"columnId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Column is an ordered lane of tasks. TaskIDs is the display order.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Color   string   `json:"color"`
	TaskIDs []string `json:"taskIds"`
}

// Board is the complete persisted state. Tasks is a set keyed by ID (the
// slice keeps insertion order for stable output); Columns are ordered left
// to right.
type Board struct {
	Tasks   []Task   `json:"tasks"`
	Columns []Column `json:"columns"`
}

// TaskPatch carries the fields an update may overwrite. Nil fields are left
// unchanged. ColumnID may only repeat the task's current column.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ColumnID    *string `json:"columnId,omitempty"`
}

// ColumnPatch carries the fields a column update may overwrite.
type ColumnPatch struct {
	Title *string `json:"title,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Colour tokens used by the default board.
const (
	ColorBlue   = "bg-accent-blue"
	ColorPurple = "bg-accent-purple"
	ColorOrange = "bg-accent-orange"
	ColorGreen  = "bg-accent-green"

	// DefaultColumnColor is applied when a column is added without a colour.
	DefaultColumnColor = ColorBlue
)

// Default returns the board used when nothing has been persisted yet:
// four empty columns and no tasks.
func Default() Board {
	return Board{
		Tasks: []Task{},
		Columns: []Column{
			{ID: "todo", Title: "To Do", Color: ColorBlue, TaskIDs: []string{}},
			{ID: "inprogress", Title: "In Progress", Color: ColorPurple, TaskIDs: []string{}},
			{ID: "review", Title: "Review", Color: ColorOrange, TaskIDs: []string{}},
			{ID: "done", Title: "Done", Color: ColorGreen, TaskIDs: []string{}},
		},
	}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := Board{
		Tasks:   make([]Task, len(b.Tasks)),
		Columns: make([]Column, len(b.Columns)),
	}
	copy(out.Tasks, b.Tasks)
	for i, c := range b.Columns {
		out.Columns[i] = c.clone()
	}
	return out
}

func (c Column) clone() Column {
	ids := make([]string, len(c.TaskIDs))
	copy(ids, c.TaskIDs)
	c.TaskIDs = ids
	return c
}

// Task returns the task with the given id.
func (b Board) Task(id string) (Task, bool) {
	if i := b.taskIndex(id); i >= 0 {
		return b.Tasks[i], true
	}
	return Task{}, false
}

// Column returns the column with the given id.
func (b Board) Column(id string) (Column, bool) {
	if i := b.columnIndex(id); i >= 0 {
		return b.Columns[i].clone(), true
	}
	return Column{}, false
}

// HasTask reports whether a task with the given id exists.
func (b Board) HasTask(id string) bool { return b.taskIndex(id) >= 0 }

// HasColumn reports whether a column with the given id exists.
func (b Board) HasColumn(id string) bool { return b.columnIndex(id) >= 0 }

// TasksByColumn returns the tasks of a column in display order. Ids without
// a matching task are skipped. An unknown column yields nil.
func (b Board) TasksByColumn(columnID string) []Task {
	i := b.columnIndex(columnID)
	if i < 0 {
		return nil
	}
	tasks := make([]Task, 0, len(b.Columns[i].TaskIDs))
	for _, id := range b.Columns[i].TaskIDs {
		if t, ok := b.Task(id); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func (b Board) taskIndex(id string) int {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (b Board) columnIndex(id string) int {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of id in ids, or -1.
func IndexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
