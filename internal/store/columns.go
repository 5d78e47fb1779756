package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/pkg/board"
)

// AddColumn appends an empty column. A blank colour falls back to
// board.DefaultColumnColor. Rejected adds do not consume an id.
func (s *Store) AddColumn(ctx context.Context, title, color string) (board.Column, error) {
	if color == "" {
		color = board.DefaultColumnColor
	}

	var column board.Column
	err := s.transition(ctx, "add-column", func(b board.Board) (board.Board, bool, error) {
		column = board.Column{Title: title, Color: color, TaskIDs: []string{}}
		if strings.TrimSpace(title) != "" {
			column.ID = s.ids.NewID()
		}
		next, err := b.AddColumn(column)
		return next, err == nil, err
	}, func() {
		s.logger.WithField("column", column.ID).Info("column created")
		s.publish(board.TopicColumnCreated, column)
	})
	if err != nil {
		return board.Column{}, fmt.Errorf("failed to add column: %w", err)
	}
	return column, nil
}

// UpdateColumn overwrites the title and/or colour of a column.
func (s *Store) UpdateColumn(ctx context.Context, columnID string, patch board.ColumnPatch) (board.Column, error) {
	var updated board.Column
	err := s.transition(ctx, "update-column", func(b board.Board) (board.Board, bool, error) {
		next, c, err := b.UpdateColumn(columnID, patch)
		updated = c
		return next, err == nil, err
	}, func() {
		s.logger.WithField("column", columnID).Info("column updated")
		s.publish(board.TopicColumnUpdated, updated)
	})
	if err != nil {
		return board.Column{}, fmt.Errorf("failed to update column: %w", err)
	}
	return updated, nil
}

// DeleteColumn removes a column and every task in it. Deleting an unknown
// id is a no-op.
func (s *Store) DeleteColumn(ctx context.Context, columnID string) error {
	var removed []string
	err := s.transition(ctx, "delete-column", func(b board.Board) (board.Board, bool, error) {
		next, ids, ok := b.DeleteColumn(columnID)
		removed = ids
		return next, ok, nil
	}, func() {
		s.logger.WithFields(logrus.Fields{"column": columnID, "tasks": len(removed)}).Info("column deleted")
		s.publish(board.TopicColumnDeleted, board.ColumnDeleted{ID: columnID, TaskIDs: removed})
	})
	if err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	return nil
}
