package board

// Notification topics published after each successful transition.
const (
	TopicTaskCreated   = "task-created"
	TopicTaskUpdated   = "task-updated"
	TopicTaskMoved     = "task-moved"
	TopicTaskDeleted   = "task-deleted"
	TopicColumnCreated = "column-created"
	TopicColumnUpdated = "column-updated"
	TopicColumnDeleted = "column-deleted"
)

// Topics lists every notification topic.
func Topics() []string {
	return []string{
		TopicTaskCreated, TopicTaskUpdated, TopicTaskMoved, TopicTaskDeleted,
		TopicColumnCreated, TopicColumnUpdated, TopicColumnDeleted,
	}
}

// TaskMoved is the payload of TopicTaskMoved. Index is the index requested
// by the caller; AppliedIndex is where the task actually landed after
// clamping.
type TaskMoved struct {
	ID                  string `json:"id"`
	SourceColumnID      string `json:"sourceColumnId"`
	DestinationColumnID string `json:"destinationColumnId"`
	DestinationIndex    int    `json:"destinationIndex"`
	AppliedIndex        int    `json:"appliedIndex"`
}

// TaskDeleted is the payload of TopicTaskDeleted.
type TaskDeleted struct {
	ID string `json:"id"`
}

// ColumnDeleted is the payload of TopicColumnDeleted. TaskIDs lists the
// tasks removed by the cascade.
type ColumnDeleted struct {
	ID      string   `json:"id"`
	TaskIDs []string `json:"taskIds"`
}
