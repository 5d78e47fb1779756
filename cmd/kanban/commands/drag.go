package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/reconcile"
	"github.com/dyluth/kanban/internal/resolver"
	"github.com/dyluth/kanban/pkg/board"
)

// noTarget stands for "pointer over nothing" in drag arguments
const noTarget = "-"

func newDragCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drag TASK_ID OVER...",
		Short: "Replay a drag-and-drop gesture",
		Long: `Replay a drag-and-drop gesture against the board.

Each OVER is a task or column the pointer passes over, in order. All but
the last are hovers: hovering a different column moves the card there
straight away. The last is the drop. Use '-' for "over nothing"; dropping
on '-' abandons the drag and leaves the card where the hovers put it.

Dropping on a card of the same column takes that card's place:

  kanban drag t1 t3      # [t1 t2 t3] becomes [t2 t3 t1]
  kanban drag t3 t1      # [t1 t2 t3] becomes [t3 t1 t2]
  kanban drag t1 done    # to the end of Done
  kanban drag t1 review t7   # via Review, dropped on t7 wherever it is`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			b := inst.Store.Snapshot()
			activeID, err := a.resolveTask(b, args[0])
			if err != nil {
				return err
			}

			r := inst.Reconciler()
			r.DragStart(reconcile.DragEvent{ActiveID: activeID})

			overs := args[1:]
			if len(overs) > 1 {
				a.printer.Step("dragging %s\n", taskLabel(b, r.Active()))
			}
			for _, ref := range overs[:len(overs)-1] {
				ev := reconcile.DragEvent{ActiveID: activeID, OverID: overID(inst.Store.Snapshot(), ref)}
				if m, ok := r.DragOver(ctx, ev); ok {
					a.printer.Step("over %s: moved to %s\n", ref, columnTitle(inst.Store.Snapshot(), m.DestinationColumnID))
				}
			}

			last := overs[len(overs)-1]
			ev := reconcile.DragEvent{ActiveID: activeID, OverID: overID(inst.Store.Snapshot(), last)}
			m, moved := r.DragEnd(ctx, ev)

			after := inst.Store.Snapshot()
			task, _ := after.Task(activeID)
			col, _ := after.Column(task.ColumnID)
			pos := board.IndexOf(col.TaskIDs, activeID) + 1

			if moved {
				a.printer.Success("Dropped %s in %s (position %d of %d)\n", short(activeID), columnTitle(after, m.DestinationColumnID), pos, len(col.TaskIDs))
			} else {
				a.printer.Info("No move on drop; %s is in %s (position %d of %d)\n", short(activeID), col.Title, pos, len(col.TaskIDs))
			}
			return nil
		},
	}
	return cmd
}

// overID maps a drag argument to the id the reconciler sees: task
// prefixes and column titles are expanded, '-' means over nothing, and
// anything else is passed through for the reconciler to ignore.
func overID(b board.Board, ref string) string {
	if ref == noTarget {
		return ""
	}
	if id, err := resolver.ResolveTaskID(b, ref); err == nil {
		return id
	}
	if id, err := resolver.ResolveColumnID(b, ref); err == nil {
		return id
	}
	return ref
}
