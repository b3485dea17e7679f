package cli

import (
	"fmt"

	"github.com/archguard/archguard/internal/adapters/outbound/history"
	"github.com/archguard/archguard/internal/adapters/outbound/report"
	"github.com/archguard/archguard/internal/adapters/outbound/tui"
	"github.com/archguard/archguard/internal/application"
	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recorded audit runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			entries, err := application.NewHistoryService(history.New()).List(path)
			if err != nil {
				return err
			}
			opts.logger.Debug("history loaded", "entries", len(entries))

			if jsonOutput {
				if entries == nil {
					return report.WriteJSON(cmd.OutOrStdout(), []any{})
				}
				return report.WriteJSON(cmd.OutOrStdout(), entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")

	return cmd
}
