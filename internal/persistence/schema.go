package persistence

import "fmt"

// Redis key pattern helpers.
//
// Key pattern: kanban:{instance_name}:{entity}
// Channel pattern: kanban:{instance_name}:{event_type}_events

// BoardKey returns the key the board snapshot is stored under.
// Pattern: kanban:{instance_name}:board
func BoardKey(instanceName string) string {
	return fmt.Sprintf("kanban:%s:board", instanceName)
}

// BoardEventsChannel returns the Pub/Sub channel board notifications are
// mirrored to.
// Pattern: kanban:{instance_name}:board_events
func BoardEventsChannel(instanceName string) string {
	return fmt.Sprintf("kanban:%s:board_events", instanceName)
}
