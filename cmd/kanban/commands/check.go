package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/persistence"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the stored board snapshot",
		Long: `Read the stored snapshot without any recovery and check every board
invariant: each task is listed by exactly its own column, once, and every
listed id is a real task.

Other commands silently fall back to the default board when the snapshot
is unusable; check reports why instead. Exits non-zero on a bad snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			a.printer.Step("Checking %s\n", inst.Gateway.Key())

			b, err := inst.Gateway.Read(ctx)
			var snapErr *persistence.SnapshotError
			switch {
			case err == nil:
				a.printer.Success("Snapshot is valid: %d task(s) in %d column(s)\n", len(b.Tasks), len(b.Columns))
				return nil
			case persistence.IsNotFound(err):
				a.printer.Info("No snapshot stored yet; the board starts from its default columns.\n")
				return nil
			case errors.As(err, &snapErr):
				return a.printer.ErrorWithContext(
					"snapshot is unusable",
					snapErr.Err.Error(),
					map[string]string{"Key": snapErr.Key, "Instance": inst.Name},
					[]string{"The next change made through kanban overwrites it with the default board plus that change"},
				)
			default:
				return a.printer.Error("failed to read snapshot", err.Error(), nil)
			}
		},
	}
}
