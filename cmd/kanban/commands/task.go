package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/filter"
	"github.com/dyluth/kanban/internal/timespec"
	"github.com/dyluth/kanban/internal/view"
	"github.com/dyluth/kanban/pkg/board"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, edit, move and delete tasks",
		Long: `Create, edit, move and delete tasks.

Tasks are referred to by id. Any unique prefix of at least 4 characters
works, so the 8-character ids shown by 'kanban board' can be used directly.`,
	}

	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskEditCmd(a),
		newTaskRmCmd(a),
		newTaskMvCmd(a),
		newTaskShowCmd(a),
		newTaskLsCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var description, column string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a task to the end of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			b := inst.Store.Snapshot()
			columnID := column
			if columnID == "" {
				if len(b.Columns) == 0 {
					return a.printer.Error("no columns", "The board has no columns to add a task to.", []string{"Add one:\n  kanban column add \"To Do\""})
				}
				columnID = b.Columns[0].ID
			} else if columnID, err = a.resolveColumn(b, column); err != nil {
				return err
			}

			task, err := inst.Store.AddTask(ctx, args[0], description, columnID)
			if err != nil {
				return a.storeError("add task", err)
			}

			a.printer.Success("Created task %s in %s\n", short(task.ID), columnTitle(b, columnID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&column, "column", "c", "", "Column id or title (default: first column)")
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit TASK_ID",
		Short: "Change a task's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch board.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if patch.Title == nil && patch.Description == nil {
				return a.printer.Error("nothing to change", "Pass --title and/or --description.", nil)
			}

			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			id, err := a.resolveTask(inst.Store.Snapshot(), args[0])
			if err != nil {
				return err
			}

			task, err := inst.Store.UpdateTask(ctx, id, patch)
			if err != nil {
				return a.storeError("update task", err)
			}

			a.printer.Success("Updated task %s: %s\n", short(task.ID), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (empty string clears it)")
	return cmd
}

func newTaskRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm TASK_ID...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			for _, ref := range args {
				id, err := a.resolveTask(inst.Store.Snapshot(), ref)
				if err != nil {
					return err
				}
				if err := inst.Store.DeleteTask(ctx, id); err != nil {
					return a.storeError("delete task", err)
				}
				a.printer.Success("Deleted task %s\n", short(id))
			}
			return nil
		},
	}
}

func newTaskMvCmd(a *app) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "mv TASK_ID COLUMN",
		Short: "Move a task to a column, optionally at a position",
		Long: `Move a task to a column.

--index is the zero-based position in the destination column. Out-of-range
values are clamped; the default appends to the end. Within the task's own
column the position counts the other tasks only.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			b := inst.Store.Snapshot()
			id, err := a.resolveTask(b, args[0])
			if err != nil {
				return err
			}
			dst, err := a.resolveColumn(b, args[1])
			if err != nil {
				return err
			}

			task, _ := b.Task(id)
			destIndex := index
			if !cmd.Flags().Changed("index") {
				col, _ := b.Column(dst)
				destIndex = len(col.TaskIDs)
			}

			if err := inst.Store.MoveTask(ctx, id, task.ColumnID, dst, destIndex); err != nil {
				return a.storeError("move task", err)
			}

			after := inst.Store.Snapshot()
			col, _ := after.Column(dst)
			a.printer.Success("Moved task %s to %s (position %d of %d)\n",
				short(id), col.Title, board.IndexOf(col.TaskIDs, id)+1, len(col.TaskIDs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "Position in the destination column (default: end)")
	return cmd
}

func newTaskShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show TASK_ID",
		Short: "Show one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a, output, "default", "json"); err != nil {
				return err
			}

			inst, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			b := inst.Store.Snapshot()
			id, err := a.resolveTask(b, args[0])
			if err != nil {
				return err
			}
			task, _ := b.Task(id)

			if output == "json" {
				return view.FormatJSON(a.out, task)
			}
			view.FormatTask(a.out, b, task, a.now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "default", "Output format: default or json")
	return cmd
}

func newTaskLsCmd(a *app) *cobra.Command {
	var output, since, until, column string
	var criteria filter.Criteria

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tasks with filtering",
		Long: `List tasks in board order: columns left to right, each top to bottom.

Output Formats:
  default - Table with ID, column, age and title
  jsonl   - Line-delimited JSON, one task per line

Time Filters:
  --since  - Tasks created after this time
  --until  - Tasks created before this time
  Both accept a duration ("2h", "1h30m"), days ("3d") or RFC3339.

Content Filters:
  --column - Column id or title
  --title  - Glob on the title ("Fix*", "*docs*")
  --grep   - Case-insensitive text in title or description

Examples:
  kanban task ls --column done --since 7d
  kanban task ls -o jsonl | jq -r .title`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a, output, "default", "jsonl"); err != nil {
				return err
			}

			now := a.now()
			sinceT, untilT, err := timespec.ParseRange(since, until, now)
			if err != nil {
				return a.printer.Error("invalid time filter", err.Error(), nil)
			}
			criteria.Since, criteria.Until = sinceT, untilT

			inst, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer inst.Close()

			b := inst.Store.Snapshot()
			if column != "" {
				if criteria.ColumnID, err = a.resolveColumn(b, column); err != nil {
					return err
				}
			}

			tasks := criteria.Tasks(b)
			if output == "jsonl" {
				return view.FormatJSONL(a.out, tasks)
			}
			view.FormatTable(a.out, b, tasks, now)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "default", "Output format: default or jsonl")
	cmd.Flags().StringVar(&since, "since", "", "Show tasks created after time (duration, days or RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "Show tasks created before time (duration, days or RFC3339)")
	cmd.Flags().StringVarP(&column, "column", "c", "", "Filter by column id or title")
	cmd.Flags().StringVar(&criteria.TitleGlob, "title", "", "Filter by title (glob pattern)")
	cmd.Flags().StringVar(&criteria.Text, "grep", "", "Filter by text in title or description")
	return cmd
}

// used by drag and column rm output
func taskLabel(b board.Board, id string) string {
	if t, ok := b.Task(id); ok {
		return fmt.Sprintf("%s (%s)", short(id), t.Title)
	}
	return short(id)
}
