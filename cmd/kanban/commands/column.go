package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/pkg/board"
)

func newColumnCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add, rename, recolour and delete columns",
		Long: `Add, rename, recolour and delete columns.

Columns are referred to by id, by title (case-insensitive) or by an
unambiguous id prefix. Colours are tokens such as bg-accent-blue,
bg-accent-purple, bg-accent-orange and bg-accent-green.`,
	}

	cmd.AddCommand(
		newColumnAddCmd(a),
		newColumnEditCmd(a),
		newColumnRmCmd(a),
	)
	return cmd
}

func newColumnAddCmd(a *app) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add an empty column at the right of the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			col, err := inst.Store.AddColumn(ctx, args[0], color)
			if err != nil {
				return a.storeError("add column", err)
			}

			a.printer.Success("Created column ")
			a.printer.Column(col.Color, "%s", col.Title)
			a.printer.Info(" (%s)\n", col.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Colour token (default: "+board.DefaultColumnColor+")")
	return cmd
}

func newColumnEditCmd(a *app) *cobra.Command {
	var title, color string

	cmd := &cobra.Command{
		Use:   "edit COLUMN",
		Short: "Rename or recolour a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch board.ColumnPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if patch.Title == nil && patch.Color == nil {
				return a.printer.Error("nothing to change", "Pass --title and/or --color.", nil)
			}

			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			id, err := a.resolveColumn(inst.Store.Snapshot(), args[0])
			if err != nil {
				return err
			}

			col, err := inst.Store.UpdateColumn(ctx, id, patch)
			if err != nil {
				return a.storeError("update column", err)
			}

			a.printer.Success("Updated column ")
			a.printer.Column(col.Color, "%s", col.Title)
			a.printer.Info(" (%s)\n", col.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVar(&color, "color", "", "New colour token")
	return cmd
}

func newColumnRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm COLUMN",
		Aliases: []string{"delete"},
		Short:   "Delete a column and every task in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			b := inst.Store.Snapshot()
			id, err := a.resolveColumn(b, args[0])
			if err != nil {
				return err
			}
			col, _ := b.Column(id)

			if err := inst.Store.DeleteColumn(ctx, id); err != nil {
				return a.storeError("delete column", err)
			}

			a.printer.Success("Deleted column %s\n", col.Title)
			if n := len(col.TaskIDs); n > 0 {
				a.printer.Warning("Also deleted %d task(s):\n", n)
				for _, taskID := range col.TaskIDs {
					a.printer.Info("  %s\n", taskLabel(b, taskID))
				}
			}
			return nil
		},
	}
}
