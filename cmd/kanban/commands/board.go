package commands

import (
	"github.com/spf13/cobra"

	"github.com/dyluth/kanban/internal/view"
)

func newBoardCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the whole board",
		Long: `Show every column with its tasks in display order.

Output Formats:
  default - One section per column
  json    - The board snapshot exactly as stored`,
		Args: cobra.NoArgs,
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
			if output == "json" {
				return view.FormatJSON(a.out, b)
			}
			view.FormatBoard(a.out, b, inst.Name, a.now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "default", "Output format: default or json")
	return cmd
}

// checkFormat rejects an --output value not in valid
func checkFormat(a *app, format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	list := ""
	for i, v := range valid {
		if i > 0 {
			list += ", "
		}
		list += v
	}
	return a.printer.Error(
		"invalid output format",
		"Unknown format: "+format,
		[]string{"Valid formats: " + list},
	)
}
