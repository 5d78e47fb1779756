package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/printer"
	"github.com/dyluth/kanban/pkg/board"
)

var versionString = "dev"

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// Execute builds the command tree and runs it against os.Args.
// This is called by main.main().
func Execute() error {
	return newRootCmd(newApp(os.Stdout, os.Stderr)).Execute()
}

// newApp creates the shared command state with production defaults
func newApp(out, errOut io.Writer) *app {
	return &app{
		out:     out,
		errOut:  errOut,
		printer: printer.New(out, errOut),
		now:     time.Now,
	}
}

// newRootCmd builds a fresh command tree bound to a. Each call returns
// independent flag state.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kanban",
		Short: "kanban - a single-user task board in your terminal",
		Long: `kanban keeps a task board of ordered columns and lets you create,
edit, delete, reorder and move tasks between them.

The board is stored as one snapshot in SQLite (default) or Redis, chosen in
kanban.yml. With Redis, every change is also published so 'kanban watch' can
follow the board live.`,
		Version: versionString,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		// Enable strict flag parsing - unknown flags will cause an error
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
		SilenceErrors:      true,
		SilenceUsage:       true,
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "f", "", "Path to kanban.yml (default: search upwards from the current directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides kanban.yml)")

	rootCmd.AddCommand(
		newInitCmd(a),
		newBoardCmd(a),
		newTaskCmd(a),
		newColumnCmd(a),
		newDragCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
	)

	return rootCmd
}

// short renders a task id the way tables show it
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func columnTitle(b board.Board, columnID string) string {
	if col, ok := b.Column(columnID); ok {
		return col.Title
	}
	return columnID
}
