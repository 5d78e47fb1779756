package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/config"
	"github.com/dyluth/kanban/internal/persistence"
	"github.com/dyluth/kanban/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream board changes as they happen",
		Long: `Stream board changes made by any kanban process sharing the board.

Requires the redis storage backend: changes are published on the
instance's Redis channel. Press Ctrl+C to stop.

Output Formats:
  default - One human-readable line per change
  json    - One JSON object per change: {"topic", "payload", "at"}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(a, output, string(watch.OutputFormatDefault), string(watch.OutputFormatJSON)); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			inst, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer inst.Close()

			if inst.Redis() == nil {
				return a.printer.Error(
					"watch needs the redis backend",
					"This board is stored in SQLite, which has no change feed.",
					[]string{"Switch kanban.yml to:\n  storage:\n    backend: " + config.BackendRedis},
				)
			}

			return a.stream(ctx, inst.Redis(), inst.Name, watch.OutputFormat(output))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "default", "Output format: default or json")
	return cmd
}

func (a *app) stream(ctx context.Context, rs *persistence.RedisStore, instanceName string, format watch.OutputFormat) error {
	sub, err := rs.SubscribeBoardEvents(ctx, instanceName)
	if err != nil {
		return a.printer.Error("failed to subscribe to board events", err.Error(), nil)
	}
	defer sub.Close()

	if format == watch.OutputFormatDefault {
		a.printer.Step("Watching board '%s' (Ctrl+C to stop)\n", instanceName)
	}
	return watch.Stream(ctx, sub, format, a.out)
}
