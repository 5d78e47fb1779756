package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/config"
	"github.com/dyluth/kanban/internal/scaffold"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		force bool
		opts  scaffold.Options
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create kanban.yml in the current directory",
		Long: `Create kanban.yml in the current directory.

The board itself is created lazily: the first command that opens it starts
from the default columns (or the columns listed in kanban.yml).

Use --force to overwrite an existing kanban.yml. Board data is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if err := scaffold.CheckExisting(); err != nil {
					return a.printer.Error("already initialized", err.Error(), nil)
				}
			}

			if err := scaffold.Initialize(opts, force); err != nil {
				return a.printer.Error("initialization failed", err.Error(), nil)
			}

			scaffold.PrintSuccess(a.out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing kanban.yml")
	cmd.Flags().StringVar(&opts.Instance, "instance", config.DefaultInstance, "Board instance name")
	cmd.Flags().StringVar(&opts.Backend, "backend", config.BackendSQLite, fmt.Sprintf("Storage backend: %s or %s", config.BackendSQLite, config.BackendRedis))

	return cmd
}
