// Package board provides the kanban board data model and the pure state
// transitions that keep it consistent.
//
// # Overview
//
// A Board holds a set of Tasks and an ordered sequence of Columns. Each
// Column carries the ordered ids of the tasks it displays, and each Task
// names the column that owns it. The two must always agree: a task id is
// listed by exactly one column, and that column is the one the task names.
//
// # Transitions
//
// Every transition in this package takes a Board by value and returns a new
// Board. The input is never modified, so a snapshot handed to a reader stays
// valid while the next state is being computed.
//
//	b := board.Default()
//	b, err := b.AddTask(board.Task{ID: "t1", Title: "Write docs", ColumnID: "todo"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	b, _, err = b.MoveTask("t1", "todo", "done", 0)
//
// # Errors
//
// Malformed input yields a *ValidationError; operations that target a
// missing id yield a *NotFoundError. Use IsValidation and IsNotFound to
// classify wrapped errors.
//
// # Snapshot format
//
// A Board marshals to JSON as {"tasks": [...], "columns": [...]}, the
// format the persistence layer stores under kanban:{instance}:board.
package board
