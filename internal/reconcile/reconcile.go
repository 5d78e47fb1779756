// Package reconcile turns drag-and-drop signals into board moves.
//
// A drag is a sequence of discrete events: one DragStart, any number of
// DragOver while the pointer moves, and one DragEnd. Each carries the id
// being dragged (ActiveID) and the id under the pointer (OverID), which may
// name a task, a column, or nothing.
package reconcile

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dyluth/kanban/pkg/board"
)

// DragEvent is one signal from the drag source.
type DragEvent struct {
	ActiveID string
	OverID   string // empty when the pointer is over nothing droppable
}

// Move is a concrete instruction for the board store.
type Move struct {
	TaskID              string
	SourceColumnID      string
	DestinationColumnID string
	DestinationIndex    int
}

// SameColumn reports whether the move reorders within a single column.
func (m Move) SameColumn() bool {
	return m.SourceColumnID == m.DestinationColumnID
}

// Mover is the part of the board store the reconciler drives.
type Mover interface {
	Snapshot() board.Board
	MoveTask(ctx context.Context, taskID, sourceColumnID, destinationColumnID string, destinationIndex int) error
}

// target is the resolved drop location for an over id.
type target struct {
	column   board.Column
	overTask bool // over names a task rather than the column itself
	index    int  // candidate insertion index
}

// Resolve interprets ev against b. It returns the move the pointer position
// implies and false when the active id is not a task, the over id is empty
// or unknown, or either column cannot be found.
//
// Hovering a task proposes that task's position in its column; hovering a
// column proposes its end.
func Resolve(b board.Board, ev DragEvent) (Move, bool) {
	if ev.OverID == "" {
		return Move{}, false
	}
	active, ok := b.Task(ev.ActiveID)
	if !ok {
		return Move{}, false
	}
	source, ok := b.Column(active.ColumnID)
	if !ok {
		return Move{}, false
	}
	dest, ok := resolveTarget(b, ev.OverID)
	if !ok {
		return Move{}, false
	}
	return Move{
		TaskID:              active.ID,
		SourceColumnID:      source.ID,
		DestinationColumnID: dest.column.ID,
		DestinationIndex:    dest.index,
	}, true
}

func resolveTarget(b board.Board, overID string) (target, bool) {
	if over, ok := b.Task(overID); ok {
		col, ok := b.Column(over.ColumnID)
		if !ok {
			return target{}, false
		}
		return target{column: col, overTask: true, index: board.IndexOf(col.TaskIDs, overID)}, true
	}
	if col, ok := b.Column(overID); ok {
		return target{column: col, index: len(col.TaskIDs)}, true
	}
	return target{}, false
}

// Reconciler applies drag events to a Mover. It keeps the id of the card
// currently being dragged between DragStart and DragEnd.
type Reconciler struct {
	mover  Mover
	logger logrus.FieldLogger

	mu     sync.Mutex
	active string
}

// New creates a Reconciler. A nil logger discards output.
func New(mover Mover, logger logrus.FieldLogger) *Reconciler {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Reconciler{mover: mover, logger: logger}
}

// Active returns the id being dragged, or "" outside a drag.
func (r *Reconciler) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// DragStart begins a drag of ev.ActiveID.
func (r *Reconciler) DragStart(ev DragEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = ev.ActiveID
}

// DragOver handles a hover update. When the pointer is over a different
// column than the card's current one, the card is moved there immediately
// so the board reflects the drag while it is in progress. Hovering within
// the card's own column changes nothing until the drop.
//
// It returns the move applied, if any.
func (r *Reconciler) DragOver(ctx context.Context, ev DragEvent) (Move, bool) {
	m, ok := Resolve(r.mover.Snapshot(), ev)
	if !ok {
		r.noise("drag over", ev)
		return Move{}, false
	}
	if m.SameColumn() {
		return Move{}, false
	}
	return r.apply(ctx, m)
}

// DragEnd handles the drop and ends the drag.
//
// With no over target the drag is abandoned. A drop on another column
// moves the card there. A drop on a different card of the same column
// reorders: the card lands at the position the target card held, so
// dragging the first of [1 2 3] onto 3 gives [2 3 1] and dragging 3 onto 1
// gives [3 1 2]. Dropping a card on itself, or on the empty area of its own
// column, changes nothing.
func (r *Reconciler) DragEnd(ctx context.Context, ev DragEvent) (Move, bool) {
	defer func() {
		r.mu.Lock()
		r.active = ""
		r.mu.Unlock()
	}()

	b := r.mover.Snapshot()
	m, ok := Resolve(b, ev)
	if !ok {
		r.noise("drag end", ev)
		return Move{}, false
	}
	if !m.SameColumn() {
		return r.apply(ctx, m)
	}

	if ev.ActiveID == ev.OverID {
		return Move{}, false
	}
	dest, _ := resolveTarget(b, ev.OverID)
	if !dest.overTask {
		return Move{}, false
	}

	oldIndex := board.IndexOf(dest.column.TaskIDs, ev.ActiveID)
	newIndex := dest.index
	if oldIndex < 0 || oldIndex == newIndex {
		return Move{}, false
	}
	// The store removes the card before inserting it, so the target card's
	// current index is exactly where the card has to end up.
	m.DestinationIndex = newIndex
	return r.apply(ctx, m)
}

func (r *Reconciler) apply(ctx context.Context, m Move) (Move, bool) {
	err := r.mover.MoveTask(ctx, m.TaskID, m.SourceColumnID, m.DestinationColumnID, m.DestinationIndex)
	if err != nil {
		if board.IsNotFound(err) || board.IsValidation(err) {
			r.logger.WithError(err).WithField("task", m.TaskID).Debug("ignoring stale drag")
			return Move{}, false
		}
		r.logger.WithError(err).WithField("task", m.TaskID).Warn("drag move failed")
		return Move{}, false
	}
	return m, true
}

func (r *Reconciler) noise(stage string, ev DragEvent) {
	r.logger.WithFields(logrus.Fields{
		"active": ev.ActiveID,
		"over":   ev.OverID,
	}).Debugf("%s ignored: unresolvable target", stage)
}
