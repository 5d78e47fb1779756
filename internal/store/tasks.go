package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/pkg/board"
)

// AddTask creates a task at the end of the given column.
// Returns a *board.ValidationError when the title is blank or the column
// does not exist. Rejected adds do not consume an id.
func (s *Store) AddTask(ctx context.Context, title, description, columnID string) (board.Task, error) {
	var task board.Task
	err := s.transition(ctx, "add-task", func(b board.Board) (board.Board, bool, error) {
		task = board.Task{
			Title:       title,
			Description: description,
			ColumnID:    columnID,
			CreatedAt:   s.now().UTC(),
		}
		if strings.TrimSpace(title) != "" && b.HasColumn(columnID) {
			task.ID = s.ids.NewID()
		}
		next, err := b.AddTask(task)
		return next, err == nil, err
	}, func() {
		s.logger.WithFields(logrus.Fields{"task": task.ID, "column": columnID}).Info("task created")
		s.publish(board.TopicTaskCreated, task)
	})
	if err != nil {
		return board.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	return task, nil
}

// UpdateTask merges patch into an existing task. Changing the column is
// rejected; use MoveTask.
func (s *Store) UpdateTask(ctx context.Context, taskID string, patch board.TaskPatch) (board.Task, error) {
	var updated board.Task
	err := s.transition(ctx, "update-task", func(b board.Board) (board.Board, bool, error) {
		next, t, err := b.UpdateTask(taskID, patch)
		updated = t
		return next, err == nil, err
	}, func() {
		s.logger.WithField("task", taskID).Info("task updated")
		s.publish(board.TopicTaskUpdated, updated)
	})
	if err != nil {
		return board.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// DeleteTask removes a task. Deleting an unknown id is a no-op.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	err := s.transition(ctx, "delete-task", func(b board.Board) (board.Board, bool, error) {
		next, ok := b.DeleteTask(taskID)
		return next, ok, nil
	}, func() {
		s.logger.WithField("task", taskID).Info("task deleted")
		s.publish(board.TopicTaskDeleted, board.TaskDeleted{ID: taskID})
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// MoveTask moves a task to destinationIndex of the destination column.
// The index is clamped and, for a move within one column, counts positions
// after the task has been taken out.
func (s *Store) MoveTask(ctx context.Context, taskID, sourceColumnID, destinationColumnID string, destinationIndex int) error {
	var applied int
	err := s.transition(ctx, "move-task", func(b board.Board) (board.Board, bool, error) {
		next, idx, err := b.MoveTask(taskID, sourceColumnID, destinationColumnID, destinationIndex)
		applied = idx
		return next, err == nil, err
	}, func() {
		s.logger.WithFields(logrus.Fields{
			"task": taskID,
			"from": sourceColumnID,
			"to":   destinationColumnID,
			"at":   applied,
		}).Info("task moved")
		s.publish(board.TopicTaskMoved, board.TaskMoved{
			ID:                  taskID,
			SourceColumnID:      sourceColumnID,
			DestinationColumnID: destinationColumnID,
			DestinationIndex:    destinationIndex,
			AppliedIndex:        applied,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}
	return nil
}
